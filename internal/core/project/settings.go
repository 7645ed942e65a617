// Package project reads the project definition file (project.tetra) that
// names a project and the stage it was last working on.
package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project definition inside a project directory.
const DefaultFileName = "project.tetra"

var (
	ErrProjectNotFound = errors.New("project file not found")
	ErrInvalidSettings = errors.New("invalid project settings")
	ErrUnknownFormat   = errors.New("unknown project file format")
)

type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON for anything
// else, project.tetra included.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type Settings struct {
	ProjectName              string `json:"project_name" yaml:"project_name"`
	EngineVersion            string `json:"engine_version" yaml:"engine_version"`
	ProjectDefinitionVersion string `json:"project_definition_version" yaml:"project_definition_version"`
	LastOpenStage            string `json:"last_open_stage,omitempty" yaml:"last_open_stage,omitempty"`
}

// Validate checks the required fields. LastOpenStage is optional.
func (s *Settings) Validate() error {
	var missing []string
	if s.ProjectName == "" {
		missing = append(missing, "project_name")
	}
	if s.EngineVersion == "" {
		missing = append(missing, "engine_version")
	}
	if s.ProjectDefinitionVersion == "" {
		missing = append(missing, "project_definition_version")
	}
	if len(missing) > 0 {
		return eris.Wrapf(ErrInvalidSettings, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Parse decodes and validates settings.
func Parse(text string, format Format) (*Settings, error) {
	var s Settings
	switch format {
	case FormatJSON:
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, eris.Wrapf(ErrInvalidSettings, "decode json: %v", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(text), &s); err != nil {
			return nil, eris.Wrapf(ErrInvalidSettings, "decode yaml: %v", err)
		}
	default:
		return nil, eris.Wrapf(ErrUnknownFormat, "%d", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the settings. JSON output is indented with four spaces to
// match stage documents.
func (s *Settings) Marshal(format Format) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(s, "", "    ")
		if err != nil {
			return "", eris.Wrap(err, "encode project settings")
		}
		return string(b), nil
	case FormatYAML:
		b, err := yaml.Marshal(s)
		if err != nil {
			return "", eris.Wrap(err, "encode project settings")
		}
		return string(b), nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%d", format)
	}
}

// FileReader returns the contents of path, or false when it cannot be read.
type FileReader func(path string) (string, bool)

// ReadFileContents reads a whole file. A missing or unreadable file is
// reported as false, never as an error.
func ReadFileContents(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Load reads and parses the settings at path. A nil reader reads from disk.
func Load(path string, read FileReader) (*Settings, error) {
	if read == nil {
		read = ReadFileContents
	}
	text, ok := read(path)
	if !ok {
		return nil, eris.Wrapf(ErrProjectNotFound, "%s", path)
	}
	s, err := Parse(text, FormatFromPath(path))
	if err != nil {
		return nil, eris.Wrapf(err, "%s", path)
	}
	return s, nil
}
