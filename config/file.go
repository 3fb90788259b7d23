package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/glyphvid/keyboard"
	"go.jacobcolvin.com/glyphvid/log"
	"go.jacobcolvin.com/glyphvid/source"
)

// ErrInvalidConfig indicates a configuration file that does not match the
// schema.
var ErrInvalidConfig = errors.New("invalid config")

// File is the contents of a configuration file. Every field is optional.
type File struct {
	Alphabet    string  `json:"alphabet,omitempty" yaml:"alphabet,omitempty" jsonschema:"glyphs ordered from darkest to brightest"`
	Interval    string  `json:"interval,omitempty" yaml:"interval,omitempty" jsonschema:"frame interval for loaded videos, as a Go duration such as 40ms"`
	Decoder     string  `json:"decoder,omitempty" yaml:"decoder,omitempty" jsonschema:"video decoder"`
	Keyboard    string  `json:"keyboard,omitempty" yaml:"keyboard,omitempty" jsonschema:"keystroke backend"`
	LogLevel    string  `json:"log-level,omitempty" yaml:"log-level,omitempty" jsonschema:"log level"`
	LogFormat   string  `json:"log-format,omitempty" yaml:"log-format,omitempty" jsonschema:"log format"`
	FPS         float64 `json:"fps,omitempty" yaml:"fps,omitempty" jsonschema:"override the source frame rate"`
	Columns     int     `json:"columns,omitempty" yaml:"columns,omitempty" jsonschema:"frame width in glyphs"`
	Rows        int     `json:"rows,omitempty" yaml:"rows,omitempty" jsonschema:"frame height in glyphs"`
	Concurrency int     `json:"concurrency,omitempty" yaml:"concurrency,omitempty" jsonschema:"frames converted in parallel"`
}

var (
	schemaOnce     sync.Once
	schema         *jsonschema.Schema
	resolvedSchema *jsonschema.Resolved
	errSchema      error
)

func loadSchema() {
	s, err := jsonschema.For[File](nil)
	if err != nil {
		errSchema = fmt.Errorf("generate schema: %w", err)

		return
	}

	s.Title = "glyphvid configuration"

	enums := map[string][]string{
		"decoder":    source.Decoders(),
		"keyboard":   keyboard.Backends(),
		"log-level":  log.GetAllLevelStrings(),
		"log-format": log.GetAllFormatStrings(),
	}
	for name, values := range enums {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}

		for _, v := range values {
			prop.Enum = append(prop.Enum, v)
		}
	}

	for _, name := range []string{"columns", "rows", "concurrency"} {
		if prop, ok := s.Properties[name]; ok {
			prop.Minimum = jsonschema.Ptr(0.0)
		}
	}

	if prop, ok := s.Properties["fps"]; ok {
		prop.Minimum = jsonschema.Ptr(0.0)
	}

	if prop, ok := s.Properties["interval"]; ok {
		prop.Pattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		errSchema = fmt.Errorf("resolve schema: %w", err)

		return
	}

	schema = s
	resolvedSchema = resolved
}

// Schema returns the JSON Schema describing [File].
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(loadSchema)

	return schema, errSchema
}

// SchemaJSON returns [Schema] as indented JSON.
func SchemaJSON() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	return append(data, '\n'), nil
}

// Parse decodes and validates a YAML configuration file. An empty document
// yields an empty [File].
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &File{}, nil
	}

	schemaOnce.Do(loadSchema)

	if errSchema != nil {
		return nil, errSchema
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var instance any

	err = json.Unmarshal(jsonData, &instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	err = resolvedSchema.Validate(instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var f File

	err = yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &f, nil
}

// ReadFile reads and parses the configuration file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path is a user-provided CLI argument.
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}
