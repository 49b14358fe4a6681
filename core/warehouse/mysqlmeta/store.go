package mysqlmeta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements warehouse.Client over a MySQL server. Datasets are
// schemas; dataset metadata lives in the configured meta schema.
type Store struct {
	db      *gorm.DB
	project string
	meta    string
}

// New connects to MySQL and returns a ready Store. The metadata schema and
// its tables are created when missing.
func New(cfg Config) (*Store, error) {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, timeout, timeout, timeout)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	s := NewWithDB(db, cfg.Project, cfg.MetaSchema)
	if err := s.ensureMeta(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing gorm connection. Used by tests.
func NewWithDB(db *gorm.DB, project, metaSchema string) *Store {
	if metaSchema == "" {
		metaSchema = "ceiba_meta"
	}
	return &Store{db: db, project: project, meta: metaSchema}
}

// ensureMeta creates the metadata schema and tables if they do not exist.
func (s *Store) ensureMeta(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", s.meta),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s`.`dataset_meta` ("+
			"dataset_id VARCHAR(255) NOT NULL PRIMARY KEY, "+
			"location VARCHAR(255) NOT NULL, "+
			"description TEXT NULL)", s.meta),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s`.`dataset_labels` ("+
			"dataset_id VARCHAR(255) NOT NULL, "+
			"label_key VARCHAR(255) NOT NULL, "+
			"label_value VARCHAR(255) NOT NULL, "+
			"PRIMARY KEY (dataset_id, label_key))", s.meta),
	}
	for _, stmt := range stmts {
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to prepare metadata schema: %w", err)
		}
	}
	return nil
}

// metaRow mirrors one row of the dataset_meta table.
type metaRow struct {
	DatasetID   string
	Location    string
	Description *string
}

// labelRow mirrors one row of the dataset_labels table.
type labelRow struct {
	DatasetID  string
	LabelKey   string
	LabelValue string
}

// GetDataset reads the dataset's metadata row and label map. Reports
// warehouse.ErrDatasetNotFound when no metadata row exists.
func (s *Store) GetDataset(ctx context.Context, datasetID string) (*warehouse.DatasetInfo, error) {
	var row metaRow
	err := s.db.WithContext(ctx).
		Table(s.meta+".dataset_meta").
		Where("dataset_id = ?", datasetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("dataset %s: %w", datasetID, warehouse.ErrDatasetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", datasetID, err)
	}

	var labelRows []labelRow
	if err := s.db.WithContext(ctx).
		Table(s.meta+".dataset_labels").
		Where("dataset_id = ?", datasetID).
		Find(&labelRows).Error; err != nil {
		return nil, fmt.Errorf("failed to read labels of dataset %s: %w", datasetID, err)
	}
	var labels map[string]string
	if len(labelRows) > 0 {
		labels = make(map[string]string, len(labelRows))
		for _, lr := range labelRows {
			labels[lr.LabelKey] = lr.LabelValue
		}
	}

	return &warehouse.DatasetInfo{
		ID:          row.DatasetID,
		Project:     s.project,
		Location:    row.Location,
		Description: row.Description,
		Labels:      labels,
	}, nil
}

// CreateDataset creates the schema and its metadata row.
func (s *Store) CreateDataset(ctx context.Context, spec models.Dataset) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", spec.ID)).Error; err != nil {
			return fmt.Errorf("failed to create dataset %s: %w", spec.ID, err)
		}
		row := metaRow{DatasetID: spec.ID, Location: spec.Location}
		var labels map[string]string
		if spec.Properties != nil {
			row.Description = spec.Properties.Description
			labels = spec.Properties.Labels
		}
		if err := tx.Table(s.meta + ".dataset_meta").Create(&row).Error; err != nil {
			return fmt.Errorf("failed to record dataset %s metadata: %w", spec.ID, err)
		}
		return s.writeLabels(tx, spec.ID, labels)
	})
}

// UpdateDataset replaces the dataset's label map and description in one
// transaction. Reserved entries are regenerated by the caller on every
// write, so a full replace is correct here.
func (s *Store) UpdateDataset(ctx context.Context, datasetID string, labels map[string]string, description *string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.meta+".dataset_meta").
			Where("dataset_id = ?", datasetID).
			Update("description", description).Error; err != nil {
			return fmt.Errorf("failed to update dataset %s: %w", datasetID, err)
		}
		if err := tx.Table(s.meta+".dataset_labels").
			Where("dataset_id = ?", datasetID).
			Delete(&labelRow{}).Error; err != nil {
			return fmt.Errorf("failed to replace labels of dataset %s: %w", datasetID, err)
		}
		return s.writeLabels(tx, datasetID, labels)
	})
}

func (s *Store) writeLabels(tx *gorm.DB, datasetID string, labels map[string]string) error {
	if len(labels) == 0 {
		return nil
	}
	rows := make([]labelRow, 0, len(labels))
	for k, v := range labels {
		rows = append(rows, labelRow{DatasetID: datasetID, LabelKey: k, LabelValue: v})
	}
	if err := tx.Table(s.meta + ".dataset_labels").Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to write labels of dataset %s: %w", datasetID, err)
	}
	return nil
}
