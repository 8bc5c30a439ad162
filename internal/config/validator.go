package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Allowed values for enumerated settings
var (
	SupportedDrivers    = []string{"rod", "playwright", "chromedp"}
	SupportedBackends   = []string{"json", "sqlite"}
	SupportedCodecs     = []string{"zstd", "snappy", "gzip", "none"}
	SupportedStrategies = []string{"text", "meta"}
	supportedLogLevels  = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	supportedLogFormats = []string{"console", "text", "json"}
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := newValidator()

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", trimNamespace(e.Namespace()), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("fileexists", func(fl validator.FieldLevel) bool {
		filePath := fl.Field().String()
		if filePath == "" {
			return true
		}
		_, err := os.Stat(filePath)
		return !os.IsNotExist(err)
	})

	_ = validate.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	})

	registerOneOf(validate, "loglevel", supportedLogLevels, true)
	registerOneOf(validate, "logformat", supportedLogFormats, true)
	registerOneOf(validate, "driver", SupportedDrivers, false)
	registerOneOf(validate, "backend", SupportedBackends, false)
	registerOneOf(validate, "codec", SupportedCodecs, true)
	registerOneOf(validate, "strategy", SupportedStrategies, false)

	return validate
}

// registerOneOf registers a case-insensitive enumeration rule
func registerOneOf(validate *validator.Validate, tag string, allowed []string, allowEmpty bool) {
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value := strings.ToLower(fl.Field().String())
		if value == "" {
			return allowEmpty
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	})
}

// trimNamespace drops the root struct name from a validator namespace
func trimNamespace(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
