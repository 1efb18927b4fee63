package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

// mapNamePattern restricts map names to characters that are safe in file
// names and URL path segments.
var mapNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// MapRecord describes a map created through the gateway service: where its
// mapfile and template live and when it was registered.
type MapRecord struct {
	ID           string
	Name         string
	MapfilePath  string
	TemplatePath string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateMapName returns ErrInvalidMapName unless name is a non-empty run of
// letters, digits, '_' and '-'.
func ValidateMapName(name string) error {
	if !mapNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidMapName, name)
	}
	return nil
}

// NewMapRecord creates a record with validation and path normalization.
//
// Validations:
//   - name must pass ValidateMapName
//   - mapfilePath and templatePath must not be empty
//   - paths are normalized via filepath.Clean
//
// ID and timestamps are assigned by the registry.
func NewMapRecord(name, mapfilePath, templatePath string) (*MapRecord, error) {
	if err := ValidateMapName(name); err != nil {
		return nil, err
	}
	if mapfilePath == "" {
		return nil, fmt.Errorf("%w: mapfile path cannot be empty", ErrInvalidMapName)
	}
	if templatePath == "" {
		return nil, fmt.Errorf("%w: template path cannot be empty", ErrInvalidMapName)
	}
	return &MapRecord{
		Name:         name,
		MapfilePath:  filepath.Clean(mapfilePath),
		TemplatePath: filepath.Clean(templatePath),
	}, nil
}

// StorageFiles returns the mapfile and template paths used for a map named
// name inside storage.
func StorageFiles(storage, name string) (mapfilePath, templatePath string) {
	return filepath.Join(storage, name+".map"), filepath.Join(storage, name+".html")
}
