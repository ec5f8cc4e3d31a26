// Package errs provides standardized error types for the last-mile delivery service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a number falls outside its allowed range
//   - ObjectNotFoundError: For when an object cannot be found
//   - VersionIsInvalidError: For optimistic concurrency conflicts on aggregate updates
//   - DomainError: A business rule failure with a stable code and a Kind
//     (Validation, NotFound, Conflict, Problem)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - A constructor function (with a cause where the caller has one to give)
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf and CodeOf classify any error produced by the domain or the adapters,
// so the HTTP layer can translate it into a status code and a stable code
// without knowing the concrete error type.
package errs
