package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"
	"gopkg.in/yaml.v3"
)

// DefaultDir is the output directory used when none is configured
const DefaultDir = "version_jsons"

// Format selects the on-disk encoding of a mapping
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a case-insensitive format name into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'json' or 'yaml')", s)
	}
}

// Storage handles persistence of version mappings
type Storage struct {
	dir    string
	format Format
}

// New creates a Storage writing into dir. The directory is not created.
func New(dir string, format Format) *Storage {
	if format == "" {
		format = FormatJSON
	}
	return &Storage{
		dir:    dir,
		format: format,
	}
}

// Dir returns the output directory
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the file path for a version
func (s *Storage) Path(version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("fix_%s.%s", version, s.format))
}

// Save writes a single version's mapping, replacing any existing file
func (s *Storage) Save(version string, mapping dictionary.VersionMapping) error {
	data, err := s.encode(mapping)
	if err != nil {
		return fmt.Errorf("encoding FIX %s: %w", version, err)
	}

	if err := os.WriteFile(s.Path(version), data, 0644); err != nil {
		return fmt.Errorf("writing FIX %s: %w", version, err)
	}

	return nil
}

// SaveAll writes every version in sorted order and stops at the first error
func (s *Storage) SaveAll(mappings dictionary.FixMappings) error {
	for _, version := range mappings.Versions() {
		if err := s.Save(version, mappings[version]); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a version's mapping back from disk
func (s *Storage) Load(version string) (dictionary.VersionMapping, error) {
	data, err := os.ReadFile(s.Path(version))
	if err != nil {
		return nil, fmt.Errorf("reading FIX %s: %w", version, err)
	}

	mapping, err := s.decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing FIX %s: %w", version, err)
	}

	return mapping, nil
}

func (s *Storage) encode(mapping dictionary.VersionMapping) ([]byte, error) {
	if mapping == nil {
		mapping = dictionary.VersionMapping{}
	}
	switch s.format {
	case FormatYAML:
		return yaml.Marshal(map[int]string(mapping))
	case FormatJSON:
		return json.Marshal(map[int]string(mapping))
	default:
		return nil, fmt.Errorf("unknown format: %s", s.format)
	}
}

// decode relies on both decoders parsing text keys into int keys; a key that
// is not an integer is an error.
func (s *Storage) decode(data []byte) (dictionary.VersionMapping, error) {
	mapping := make(dictionary.VersionMapping)
	switch s.format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format: %s", s.format)
	}
	return mapping, nil
}
