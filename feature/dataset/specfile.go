package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"ceiba/feature/dataset/models"
)

// LoadSpecFile reads and validates a dataset declaration from a JSON file.
func LoadSpecFile(path string) (models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}
	var spec models.Dataset
	if err := json.Unmarshal(data, &spec); err != nil {
		return models.Dataset{}, fmt.Errorf("failed to parse spec file %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return models.Dataset{}, fmt.Errorf("invalid spec file %s: %w", path, err)
	}
	return spec, nil
}
