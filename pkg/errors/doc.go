// Package errors provides structured error handling with error codes for family-idm.
//
// Services return *errors.Error values carrying a stable machine-readable code;
// HTTP handlers translate codes to status codes via MapErrorCodeToHTTPStatus and
// never leak underlying storage error text to the client.
//
// Creating errors:
//
//	return errors.New(errors.ErrCodeInvalidCredentials, "invalid credentials")
//
// Wrapping storage failures:
//
//	return errors.Wrap(err, errors.ErrCodeStorageUnavailable, "failed to load session")
//
// Inspecting errors:
//
//	if errors.IsCode(err, errors.ErrCodeInvalidOrExpiredCode) { ... }
package errors
