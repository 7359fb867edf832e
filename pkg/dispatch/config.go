package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only configuration document version this
// package understands.
const SchemaVersion = 1

// Handler classes accepted in configuration documents.
const (
	ClassStream = "stream"
	ClassFile   = "file"
)

// Stream targets for ClassStream handlers.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// File open modes for ClassFile handlers. An empty mode means append.
const (
	ModeAppend   = "append"
	ModeTruncate = "truncate"
)

// FormatterConfig declares one named formatter.
type FormatterConfig struct {
	// Format is the %(token)s line pattern. Recognized tokens are
	// asctime, levelname, funcName, message and name.
	Format string `json:"format" yaml:"format"`
	// DateFormat is the strftime layout for %(asctime)s. Empty selects
	// DefaultDateFormat.
	DateFormat string `json:"datefmt,omitempty" yaml:"datefmt,omitempty"`
}

// HandlerConfig declares one named handler: a severity gate in front
// of a formatter reference and a sink destination.
type HandlerConfig struct {
	Class     string `json:"class" yaml:"class"`
	Formatter string `json:"formatter" yaml:"formatter"`
	Level     string `json:"level" yaml:"level"`
	// Stream names the target of a stream handler: stdout or stderr.
	Stream string `json:"stream,omitempty" yaml:"stream,omitempty"`
	// Filename is the destination path of a file handler.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Mode     string `json:"mode,omitempty" yaml:"mode,omitempty"`
	// CreateDirs opts in to creating missing parent directories at
	// load time. Without it a missing directory fails the load.
	CreateDirs bool `json:"create_dirs,omitempty" yaml:"create_dirs,omitempty"`
}

// LoggerConfig declares one named logger: its own severity gate plus
// an ordered handler list.
type LoggerConfig struct {
	Level    string   `json:"level" yaml:"level"`
	Handlers []string `json:"handlers" yaml:"handlers"`
}

// Config is a complete logging configuration document. Registry names
// are the map keys and are case-sensitive.
type Config struct {
	Version    int                        `json:"version" yaml:"version"`
	Formatters map[string]FormatterConfig `json:"formatters,omitempty" yaml:"formatters,omitempty"`
	Handlers   map[string]HandlerConfig   `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	Loggers    map[string]LoggerConfig    `json:"loggers,omitempty" yaml:"loggers,omitempty"`
}

// ParseConfig decodes a JSON or YAML configuration document. The
// format is sniffed from the first non-space byte so callers can pass
// either without naming it.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Config{}, ErrEmptyDocument
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing JSON document: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing YAML document: %w", err)
	}
	return cfg, nil
}

// LoadFile reads and parses a configuration document from disk.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no document is
// provided: the two preset formatters, a stdout handler at INFO and a
// default logger accepting everything.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Formatters: map[string]FormatterConfig{
			"compact": {Format: PatternCompact},
			"precise": {Format: PatternPrecise},
		},
		Handlers: map[string]HandlerConfig{
			"console": {
				Class:     ClassStream,
				Formatter: "compact",
				Level:     "INFO",
				Stream:    StreamStdout,
			},
		},
		Loggers: map[string]LoggerConfig{
			DefaultLoggerName: {
				Level:    "DEBUG",
				Handlers: []string{"console"},
			},
		},
	}
}
