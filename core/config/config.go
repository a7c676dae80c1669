// Package config loads and validates the shell's YAML configuration.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name looked up inside the config
// directory.
const ConfigurationName = "config.yaml"

// Configuration is the user-tunable part of a shell session. Everything
// here has a working default; a missing config file is not an error.
type Configuration struct {
	// Motd is printed once when an interactive session starts.
	Motd string `json:"motd"`

	// Prompt is printed before every input line.
	Prompt string `json:"prompt" validate:"required"`

	// ContinuationPrompt is printed for the second and later lines of a
	// multi-line command.
	ContinuationPrompt string `json:"continuation_prompt" validate:"required"`

	// Env holds extra variable bindings applied on top of the inherited
	// host environment.
	Env map[string]string `json:"env"`

	// Color controls colorized output: always, auto or never.
	Color string `json:"color" validate:"oneof=always auto never"`
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
