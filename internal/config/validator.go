package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "serial.baud_rate")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// standardBaudRates are the rates serial hardware commonly accepts.
// Other positive rates are allowed; zero and negatives are not.
var standardBaudRates = []int{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

// IsStandardBaudRate reports whether rate is a common serial baud rate
func IsStandardBaudRate(rate int) bool {
	return slices.Contains(standardBaudRates, rate)
}

// Validate checks the Config for invalid values and returns all
// validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSerial()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// validateSerial validates the SerialConfig
func (c *Config) validateSerial() []ValidationError {
	var errors []ValidationError

	if c.Serial.Port == "" {
		errors = append(errors, ValidationError{
			Field:   "serial.port",
			Value:   c.Serial.Port,
			Message: "must not be empty",
		})
	}

	if c.Serial.BaudRate <= 0 {
		errors = append(errors, ValidationError{
			Field:   "serial.baud_rate",
			Value:   c.Serial.BaudRate,
			Message: "must be positive",
		})
	}

	if c.Serial.ReadTimeoutMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "serial.read_timeout_ms",
			Value:   c.Serial.ReadTimeoutMs,
			Message: "must be positive",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.MaxOutputLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_output_lines",
			Value:   c.TUI.MaxOutputLines,
			Message: "must be non-negative",
		})
	}

	return errors
}
