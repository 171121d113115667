package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error types.
var (
	// Error kinds. StorageError and APIError match these with errors.Is.
	ErrStorage = fmt.Errorf("storage error")
	ErrAPI     = fmt.Errorf("api error")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")
	ErrRootNotConfigured = fmt.Errorf("no addon directory configured for flavor")

	// Manifest errors.
	ErrManifestNotFound = fmt.Errorf("manifest not found")
	ErrManifestInvalid  = fmt.Errorf("manifest is not valid JSON")
	ErrRootNotFound     = fmt.Errorf("addon root directory does not exist")
	ErrInvalidModule    = fmt.Errorf("invalid module name")
	ErrAlreadyInstalled = fmt.Errorf("addon is already installed")
	ErrAddonNotFound    = fmt.Errorf("addon not found")

	// Catalog errors.
	ErrEmptyIDSet      = fmt.Errorf("update lookup requires at least one addon id")
	ErrInvalidAddonID  = fmt.Errorf("invalid addon id")
	ErrCatalogStatus   = fmt.Errorf("unexpected catalog response status")
	ErrCatalogResponse = fmt.Errorf("unparsable catalog response")
	ErrInvalidFlavor   = fmt.Errorf("invalid flavor")

	// Download and extraction errors.
	ErrDownloadFailed     = fmt.Errorf("download failed")
	ErrInvalidFilePath    = fmt.Errorf("invalid file path in archive")
	ErrUnsupportedArchive = fmt.Errorf("unsupported archive format")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
)

// StorageError reports a manifest or file-system failure.
type StorageError struct {
	Op    string
	Addon string
	Err   error
}

func (e *StorageError) Error() string {
	return describe("storage", e.Op, e.Addon, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStorage) true for every StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// APIError reports a transport, status or decoding failure against the catalog or archive host.
type APIError struct {
	Op    string
	Addon string
	Err   error
}

func (e *APIError) Error() string {
	return describe("api", e.Op, e.Addon, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAPI) true for every APIError.
func (e *APIError) Is(target error) bool { return target == ErrAPI }

// NewStorageError builds a StorageError. A nil err yields nil.
func NewStorageError(op, addon string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Addon: addon, Err: err}
}

// NewAPIError builds an APIError. A nil err yields nil.
func NewAPIError(op, addon string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Op: op, Addon: addon, Err: err}
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool { return stderrors.Is(err, ErrStorage) }

// IsAPI reports whether err carries an APIError.
func IsAPI(err error) bool { return stderrors.Is(err, ErrAPI) }

func describe(kind, op, addon string, err error) string {
	msg := kind + " error"
	if op != "" {
		msg += " during " + op
	}
	if addon != "" {
		msg += " (" + addon + ")"
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
