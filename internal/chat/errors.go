package chat

import "errors"

// Validation and lookup failures, rejected before any write.
var (
	ErrEmptyContent     = errors.New("message content is required")
	ErrSenderNotFound   = errors.New("sender not found")
	ErrReceiverNotFound = errors.New("receiver not found")
)

// PolicyDenial is a first-class send rejection carrying the specific reason
// so callers can render it. It is distinct from store or validation failures:
// a denied send never reaches the database.
type PolicyDenial struct {
	Reason string
}

func (e *PolicyDenial) Error() string {
	return e.Reason
}

// IsPolicyDenial reports whether err is a conversation policy rejection.
func IsPolicyDenial(err error) bool {
	var denial *PolicyDenial
	return errors.As(err, &denial)
}
