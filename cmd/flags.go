package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/editor"
)

// AddFlagValidation makes flagName reject values the validator refuses at
// parse time.
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidatePort accepts 0 (any free port) through 65535.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}

	return nil
}

// ValidateFormat returns a validator accepting only the given formats.
func ValidateFormat(formats ...string) func(string) error {
	return func(format string) error {
		for _, f := range formats {
			if strings.EqualFold(format, f) {
				return nil
			}
		}
		return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(formats, ", "))
	}
}

// ValidateTemplate accepts catalog template keys. Empty means the
// configured default.
func ValidateTemplate(key string) error {
	if _, ok := catalog.Lookup(key); ok || key == "" {
		return nil
	}
	return fmt.Errorf("unknown template %q, must be one of: %s", key, strings.Join(catalog.Keys(), ", "))
}

// ValidateMode accepts edit and preview.
func ValidateMode(mode string) error {
	_, err := editor.ParseMode(mode)
	return err
}
