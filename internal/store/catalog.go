package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/origincode/arcmugbot/internal/domain"
)

// LoadCatalog reads the course catalog for the current period. Unlike
// the record snapshot, a missing or malformed catalog is fatal: no
// partial catalog is ever accepted.
func LoadCatalog(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course catalog: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode course catalog %s: %w", path, err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("course catalog %s is empty", path)
	}
	return catalog, nil
}
