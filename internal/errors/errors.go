// Package errors provides custom error types and utilities for ocl.
//
// This package provides error handling for various operations including:
// - Lock acquisition errors
// - Session tool (oc) errors
// - HTTP, network and HTML parsing errors
// - Token retrieval errors
// - Configuration and validation errors
// - Multi-error handling
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error categories for ocl operations
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNetwork         = errors.New("network error")
	ErrConfiguration   = errors.New("configuration error")
	ErrLockTimeout     = errors.New("lock timeout")
	ErrToolUnavailable = errors.New("session tool unavailable")
	ErrParse           = errors.New("parse error")
	ErrTokenRetrieval  = errors.New("token retrieval failed")
	ErrLoginFailed     = errors.New("login failed")
	ErrProjectSwitch   = errors.New("project switch failed")
)

// LockTimeoutError is returned when the login lock could not be acquired in time.
type LockTimeoutError struct {
	Name    string
	Timeout time.Duration
	Holder  string
}

func (e *LockTimeoutError) Error() string {
	if e.Holder != "" {
		return fmt.Sprintf("timed out after %s waiting for lock '%s' (held by %s)", e.Timeout, e.Name, e.Holder)
	}
	return fmt.Sprintf("timed out after %s waiting for lock '%s'", e.Timeout, e.Name)
}

func (e *LockTimeoutError) Is(target error) bool {
	return target == ErrLockTimeout
}

// NewLockTimeoutError creates a new lock timeout error
func NewLockTimeoutError(name string, timeout time.Duration, holder string) *LockTimeoutError {
	return &LockTimeoutError{
		Name:    name,
		Timeout: timeout,
		Holder:  holder,
	}
}

// IsLockTimeout checks if an error is a lock timeout
func IsLockTimeout(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}

// ToolUnavailableError represents a session tool that could not be started.
type ToolUnavailableError struct {
	Binary string
	Err    error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("cannot run '%s': %v", e.Binary, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ToolUnavailableError) Is(target error) bool {
	return target == ErrToolUnavailable
}

// NewToolUnavailableError creates a new tool unavailable error
func NewToolUnavailableError(binary string, err error) *ToolUnavailableError {
	return &ToolUnavailableError{
		Binary: binary,
		Err:    err,
	}
}

// IsToolUnavailable checks if an error means the session tool could not be launched
func IsToolUnavailable(err error) bool {
	return errors.Is(err, ErrToolUnavailable)
}

// ToolError represents a session tool invocation that exited with a non-zero code.
// Command never contains secrets.
type ToolError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr != "" {
		return fmt.Sprintf("'%s' exited with code %d: %s", e.Command, e.ExitCode, stderr)
	}
	return fmt.Sprintf("'%s' exited with code %d", e.Command, e.ExitCode)
}

// NewToolError creates a new tool error
func NewToolError(command string, exitCode int, stderr string) *ToolError {
	return &ToolError{
		Command:  command,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// LoginError wraps a failed session tool login.
type LoginError struct {
	Cluster string
	Err     error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("'oc login' to cluster '%s' failed: %v", e.Cluster, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

func (e *LoginError) Is(target error) bool {
	return target == ErrLoginFailed
}

// NewLoginError creates a new login error
func NewLoginError(cluster string, err error) *LoginError {
	return &LoginError{
		Cluster: cluster,
		Err:     err,
	}
}

// IsLoginFailed checks if an error is a failed session tool login
func IsLoginFailed(err error) bool {
	return errors.Is(err, ErrLoginFailed)
}

// ProjectSwitchError is a recoverable failure to enter a project after login.
type ProjectSwitchError struct {
	Cluster string
	Project string
	Err     error
}

func (e *ProjectSwitchError) Error() string {
	return fmt.Sprintf("entering project '%s' on cluster '%s' failed, maybe it doesn't exist or you lack permissions: %v",
		e.Project, e.Cluster, e.Err)
}

func (e *ProjectSwitchError) Unwrap() error {
	return e.Err
}

func (e *ProjectSwitchError) Is(target error) bool {
	return target == ErrProjectSwitch
}

// NewProjectSwitchError creates a new project switch error
func NewProjectSwitchError(cluster, project string, err error) *ProjectSwitchError {
	return &ProjectSwitchError{
		Cluster: cluster,
		Project: project,
		Err:     err,
	}
}

// IsProjectSwitch checks if an error is a failed project switch
func IsProjectSwitch(err error) bool {
	return errors.Is(err, ErrProjectSwitch)
}

// NetworkError represents a transport-level failure (DNS, TLS, timeout, refused connection).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a new network error
func NewNetworkError(method, url string, err error) *NetworkError {
	return &NetworkError{
		Method: method,
		URL:    url,
		Err:    err,
	}
}

// ParseError means an expected HTML element or payload shape was absent.
type ParseError struct {
	Selector string
	URL      string
	Message  string
}

func (e *ParseError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("no '%s' element in response from %s: %s", e.Selector, e.URL, e.Message)
	}
	return fmt.Sprintf("unexpected response from %s: %s", e.URL, e.Message)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new parse error
func NewParseError(selector, url, message string) *ParseError {
	return &ParseError{
		Selector: selector,
		URL:      url,
		Message:  message,
	}
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// TokenRetrievalError wraps a failure of one token strategy.
type TokenRetrievalError struct {
	Strategy string
	IDP      string
	Cluster  string
	Err      error
}

func (e *TokenRetrievalError) Error() string {
	if e.IDP != "" {
		return fmt.Sprintf("token retrieval for cluster '%s' via %s (idp %s) failed: %v", e.Cluster, e.Strategy, e.IDP, e.Err)
	}
	return fmt.Sprintf("token retrieval for cluster '%s' via %s failed: %v", e.Cluster, e.Strategy, e.Err)
}

func (e *TokenRetrievalError) Unwrap() error {
	return e.Err
}

func (e *TokenRetrievalError) Is(target error) bool {
	return target == ErrTokenRetrieval
}

// NewTokenRetrievalError creates a new token retrieval error
func NewTokenRetrievalError(strategy, idp, cluster string, err error) *TokenRetrievalError {
	return &TokenRetrievalError{
		Strategy: strategy,
		IDP:      idp,
		Cluster:  cluster,
		Err:      err,
	}
}

// IsTokenRetrieval checks if an error is a token retrieval failure
func IsTokenRetrieval(err error) bool {
	return errors.Is(err, ErrTokenRetrieval)
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field, value, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// IsConfiguration checks if an error is configuration-related
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Value   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, value, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// IsValidation checks if an error is validation-related
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// HTTPError represents an HTTP-related error
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d %s %s: %s", e.StatusCode, e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s %s", e.StatusCode, e.Method, e.URL)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrUnauthorized
	case http.StatusBadRequest:
		return target == ErrInvalidInput
	default:
		return false
	}
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, method, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
	}
}

// NewHTTPErrorWithCause creates a new HTTP error with an underlying cause
func NewHTTPErrorWithCause(statusCode int, method, url, message string, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
		Err:        err,
	}
}

// IsHTTPStatus checks if an error represents a specific HTTP status
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == statusCode
	}
	return false
}

// MultiError represents multiple errors that occurred together
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// NewMultiError creates a new multi-error from a slice of errors
func NewMultiError(errs []error) *MultiError {
	var filteredErrors []error
	for _, err := range errs {
		if err != nil {
			filteredErrors = append(filteredErrors, err)
		}
	}
	return &MultiError{Errors: filteredErrors}
}

// Join creates a MultiError from multiple errors, filtering out nils
func Join(errs ...error) error {
	var nonNilErrors []error
	for _, err := range errs {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}

	if len(nonNilErrors) == 0 {
		return nil
	}
	if len(nonNilErrors) == 1 {
		return nonNilErrors[0]
	}

	return NewMultiError(nonNilErrors)
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || IsHTTPStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if an error represents an authorization failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		IsHTTPStatus(err, http.StatusUnauthorized) ||
		IsHTTPStatus(err, http.StatusForbidden)
}

// IsNetwork checks if an error is network-related
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// ExitCode maps an error to a process exit code.
// Failures of the session tool propagate the tool's own exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		return toolErr.ExitCode
	}
	return 1
}
