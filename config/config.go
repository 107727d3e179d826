/*
Package config loads the options of a highlighting application from YAML files.

Values of the form ${NAME} are replaced by environment variables before the
file is parsed. Options not mentioned in a file keep the values of the
target they are loaded into; start from Default() to get sensible defaults:

    opts := config.Default()
    err := config.Load("hilite.yaml", &opts)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types which can check themselves.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target, expanding environment variables.
// If target is a Validator, it is validated afterwards.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// LoadIfExists is like Load, but leaves target untouched if there is no
// file named filename.
func LoadIfExists[T any](filename string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return Load(filename, target)
}

// Options are the options of a highlighting application.
type Options struct {
	// Root is a CSS selector for the element to highlight within.
	Root string `yaml:"root"`
	// HighlightClass is the CSS class of highlight markers.
	HighlightClass string `yaml:"highlightClass"`
	// ChunkSize is the number of annotations drawn at once by batch drawing.
	ChunkSize int `yaml:"chunkSize"`
	// ChunkDelay is the pause between chunks, in milliseconds.
	ChunkDelay int `yaml:"chunkDelay"`
	// AppendTo is a CSS selector for the container of the adder.
	// If empty, the adder is appended to the document's body.
	AppendTo string `yaml:"appendTo"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		Root:           "body",
		HighlightClass: "annotator-hl",
		ChunkSize:      10,
		ChunkDelay:     10,
	}
}

var cssClass = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// Validate validates the options.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Root, validation.Required),
		validation.Field(&o.HighlightClass, validation.Required, validation.Match(cssClass)),
		validation.Field(&o.ChunkSize, validation.Required, validation.Min(1)),
		validation.Field(&o.ChunkDelay, validation.Min(0)),
	)
}

// Delay returns the pause between chunks.
func (o *Options) Delay() time.Duration {
	return time.Duration(o.ChunkDelay) * time.Millisecond
}
