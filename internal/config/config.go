// Package config loads and validates the gitclerk.yaml runtime
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// DefaultFileName is the config file looked up in the working directory when
// no explicit path is given.
const DefaultFileName = "gitclerk.yaml"

// Config is the root of the runtime configuration.
type Config struct {
	Repo      Repo      `mapstructure:"repo" validate:"required"`
	Committer Committer `mapstructure:"committer"`
	Remote    Remote    `mapstructure:"remote"`
	SCM       *SCM      `mapstructure:"scm"`
	Journal   Journal   `mapstructure:"journal"`
}

// Repo locates the working copy.
type Repo struct {
	Root       string `mapstructure:"root" validate:"required"`
	ContentDir string `mapstructure:"contentDir"`
}

// Committer is the fallback identity for commits whose environment carries
// none of its own.
type Committer struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email" validate:"omitempty,email"`
}

// Remote tunes remote identifier resolution and network timeouts.
type Remote struct {
	Host        string        `mapstructure:"host"`
	PushTimeout time.Duration `mapstructure:"pushTimeout"`
}

// SCM describes the hosting project to ensure before remote operations.
// The section is optional; without it remote identifiers are taken as given.
type SCM struct {
	Provider string  `mapstructure:"provider" validate:"required,oneof=gitlab"`
	URL      string  `mapstructure:"url" validate:"required,url"`
	Project  Project `mapstructure:"project" validate:"required"`
}

// Project identifies a project on the hosting provider.
type Project struct {
	Name        string `mapstructure:"name" validate:"required"`
	Namespace   string `mapstructure:"namespace" validate:"required"`
	Description string `mapstructure:"description"`
	Visibility  string `mapstructure:"visibility" validate:"omitempty,oneof=private internal public"`
}

// Journal toggles the publish journal.
type Journal struct {
	Disabled bool `mapstructure:"disabled"`
}

// Load reads and validates a configuration file, returning the parsed Config
// or an error.
func Load(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", filePath)
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file - malformed YAML: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, formatValidationError(err)
	}

	if !filepath.IsAbs(cfg.Repo.Root) {
		return nil, fmt.Errorf("repo.root must be an absolute path, got %q", cfg.Repo.Root)
	}

	return &cfg, nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly
// message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email address", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
