package mysqlmeta

// Config holds configuration for the MySQL warehouse connection.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Project is the logical project identity reported for datasets.
	Project string `mapstructure:"project" default:"default"`
	// MetaSchema is the schema holding ceiba's dataset metadata tables.
	MetaSchema string `mapstructure:"meta_schema" default:"ceiba_meta"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
