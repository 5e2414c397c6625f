package engine

import "fmt"

// Stable error codes the engine reports. Codes are part of the wire
// contract: callers branch on them programmatically, so they are never
// rewritten on the way through.
const (
	CodeUnknownColumn    = "unknown-column"
	CodeUnknownTable     = "unknown-table"
	CodeUnknownIndex     = "unknown-index"
	CodeInvalidPlaintext = "invalid-plaintext"
	CodeTransport        = "transport"
)

// Error is a coded failure reported by the engine, surfaced verbatim.
type Error struct {
	Code    string
	Message string
	cause   error
}

// NewError builds a coded engine error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapTransport tags a transport-level failure (connection refused,
// malformed response body) so callers can tell it apart from an engine
// rejection.
func WrapTransport(err error) *Error {
	return &Error{Code: CodeTransport, Message: err.Error(), cause: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine error %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// DecryptionError reports a malformed ciphertext, either detected before
// the engine call or per item by the fallible decrypt API. It carries no
// code; the fallible API reports structured per-item failures instead of
// throwing.
type DecryptionError struct {
	ItemID  string
	Message string
}

func (e *DecryptionError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("decryption failed: %s", e.Message)
	}
	return fmt.Sprintf("decryption failed for item %s: %s", e.ItemID, e.Message)
}
