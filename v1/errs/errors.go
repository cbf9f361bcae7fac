package errs

import (
	"errors"
	"fmt"
)

// Error kinds shared by all agentmem packages.
//
// Every failure surfaced by this module wraps exactly one of these
// sentinels, so callers can distinguish configuration bugs from
// data-validation problems from storage failures with errors.Is.
var (
	// ErrInitialization is returned for construction-time misconfiguration:
	// missing connection, dimension conflict or absence, bad base schema,
	// table create/open/drop failure.
	ErrInitialization = errors.New("agentmem: initialization error")

	// ErrSchema is returned when a record or base shape fails validation,
	// including vector dimension mismatches.
	ErrSchema = errors.New("agentmem: schema error")

	// ErrEmbedding is returned when an entry has no usable vector and no
	// way to produce one.
	ErrEmbedding = errors.New("agentmem: embedding error")

	// ErrQuery is returned for read-path failures, including filter
	// compilation problems. The message carries the compiled predicate
	// where one exists.
	ErrQuery = errors.New("agentmem: query error")

	// ErrOperation is returned for write-path failures: insert, delete,
	// drop and list operations.
	ErrOperation = errors.New("agentmem: operation error")
)

// Initializationf wraps ErrInitialization with a formatted message.
func Initializationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInitialization, fmt.Sprintf(format, args...))
}

// Schemaf wraps ErrSchema with a formatted message.
func Schemaf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// Embeddingf wraps ErrEmbedding with a formatted message.
func Embeddingf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEmbedding, fmt.Sprintf(format, args...))
}

// Queryf wraps ErrQuery with a formatted message.
func Queryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrQuery, fmt.Sprintf(format, args...))
}

// Operationf wraps ErrOperation with a formatted message.
func Operationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOperation, fmt.Sprintf(format, args...))
}

// Wrap attaches a sentinel kind and formatted context to an underlying
// cause. The cause remains reachable through errors.Unwrap/errors.Is.
func Wrap(kind error, cause error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %w", kind, fmt.Sprintf(format, args...), cause)
}

// IsInitializationError checks if the error is an initialization error.
func IsInitializationError(err error) bool {
	return errors.Is(err, ErrInitialization)
}

// IsSchemaError checks if the error is a schema validation error.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsEmbeddingError checks if the error is an embedding error.
func IsEmbeddingError(err error) bool {
	return errors.Is(err, ErrEmbedding)
}

// IsQueryError checks if the error is a query error.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrQuery)
}

// IsOperationError checks if the error is an operation error.
func IsOperationError(err error) bool {
	return errors.Is(err, ErrOperation)
}
