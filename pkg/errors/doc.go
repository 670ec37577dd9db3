// Package errors provides the structured failure type shared by every use case.
//
// A failure carries a stable ErrorCode drawn from a closed set, a message, and for input
// validation failures the full list of field violations. The code alone decides the HTTP
// status through MapErrorCodeToHTTPStatus, which is the only place statuses are chosen.
//
// # Kinds
//
//	INVALID_INPUT        400  InputValidation, InvalidField
//	INVALID_CREDENTIALS  401  CredentialMismatch
//	TOKEN_INVALID        401  InvalidToken
//	UNAUTHORIZED         401  Unauthorized (authorization gate)
//	FORBIDDEN            403  Forbidden (authorization gate)
//	NOT_FOUND            404  NotFound
//	ALREADY_EXISTS       409  AlreadyExists
//	RATE_LIMITED         429  RateLimitExceeded
//	INTERNAL             500  Unknown
//
// # Basic Usage
//
//	import apperrors "github.com/tendant/simple-crm/pkg/errors"
//
//	if existing != nil {
//		return usecase.Fail[Output](apperrors.AlreadyExists("Client", "name")), nil
//	}
//
// Unknown keeps the wrapped error for logs. PublicMessage never returns it:
//
//	err := apperrors.Unknown(dbErr)
//	err.HTTPStatusCode() // 500
//	err.PublicMessage()  // "an unexpected error occurred"
//
// Checking kinds:
//
//	if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
//		// ...
//	}
package errors
