package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	// ConfigurationName is the file name looked up in the user's home.
	ConfigurationName = ".solix.yaml"
	// HistoryName is the history file name looked up in the user's home.
	HistoryName = ".solix_history"

	// ColorAlways forces colored output.
	ColorAlways = "always"
	// ColorAuto colors output written to a terminal.
	ColorAuto = "auto"
	// ColorNever disables colored output.
	ColorNever = "never"
)

type Configuration struct {
	HistorySize int    `json:"history_size" validate:"gte=1,lte=100000"`
	HistoryFile string `json:"history_file"`
	DefaultPath string `json:"default_path" validate:"required"`
	DefaultHome string `json:"default_home" validate:"required"`
	ShellPath   string `json:"shell_path" validate:"required"`
	Prompt      string `json:"prompt" validate:"required"`
	Color       string `json:"color" validate:"oneof=always auto never"`
	Banner      bool   `json:"banner"`
	MaxTokens   int    `json:"max_tokens" validate:"gte=1,lte=4096"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// HistoryPath resolves the history file for the given HOME value.
func (c *Configuration) HistoryPath(home string) string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	if home == "" {
		home = c.DefaultHome
	}
	return filepath.Join(home, HistoryName)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
