package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a file or resource does not exist
	ErrNotFound = errors.New("not found")
	// ErrTimeout indicates a wait ran out of time
	ErrTimeout = errors.New("operation timed out")
	// ErrInvalidConfiguration is wrapped by every configuration problem
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Scrape and transform errors
var (
	// ErrSessionMissing means the persisted browser profile does not exist.
	// Nothing can be scraped without a logged-in session.
	ErrSessionMissing = errors.New("no saved session")
	ErrNoIndexEntries = errors.New("no connectors found in listing")
	// ErrMarkerTimeout means a detail page never rendered its content marker
	ErrMarkerTimeout = errors.New("detail page content marker did not appear")
	ErrEmptyDetail   = errors.New("detail page yielded no fields")
	ErrNoServers     = errors.New("no servers found")
)

// WrapError prefixes err with message; a nil err stays nil
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf is WrapError with a formatted message
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// ValidationError reports a bad value for one field
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigurationError points at the config section and field at fault
type ConfigurationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Section != "" && e.Field != "":
		return fmt.Sprintf("configuration error in %s.%s: %s", e.Section, e.Field, e.Reason)
	case e.Section != "":
		return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Reason)
	default:
		return "configuration error: " + e.Reason
	}
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func NewConfigurationError(section, field, reason string) *ConfigurationError {
	return &ConfigurationError{Section: section, Field: field, Reason: reason}
}

// NetworkError is a failed fetch of a remote input
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{URL: url, Reason: reason, Wrapped: wrapped}
}

// ItemError is a failure tied to one listing entry. Its message is the
// line persisted in the run's error log.
type ItemError struct {
	Name string
	URL  string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Name, e.URL, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func NewItemError(name, url string, err error) *ItemError {
	return &ItemError{Name: name, URL: url, Err: err}
}

// CombineErrors joins the non-nil errors. One error is returned as is.
func CombineErrors(errs []error) error {
	var messages []string
	var last error
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
			last = err
		}
	}

	switch len(messages) {
	case 0:
		return nil
	case 1:
		return last
	}
	return fmt.Errorf("multiple errors occurred: [%s]", strings.Join(messages, "; "))
}

// ErrorCollector keeps errors in the order they happened
type ErrorCollector struct {
	errors []error
}

// Add records err; nil is ignored
func (ec *ErrorCollector) Add(err error) {
	if err != nil {
		ec.errors = append(ec.errors, err)
	}
}

func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

func (ec *ErrorCollector) Len() int {
	return len(ec.errors)
}

// Error combines everything collected, or nil
func (ec *ErrorCollector) Error() error {
	return CombineErrors(ec.errors)
}

// Messages returns every message in insertion order; never nil
func (ec *ErrorCollector) Messages() []string {
	messages := make([]string, 0, len(ec.errors))
	for _, err := range ec.errors {
		messages = append(messages, err.Error())
	}
	return messages
}
