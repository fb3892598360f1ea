package chat

import "promarket-server/internal/models"

// CanSend decides whether sender may message receiver, given how many
// messages the pair has already exchanged in either direction.
//
// It is a pure function with no side effects and must be re-evaluated on
// every send attempt with a freshly computed message count: roles and
// history can change between attempts, and this check is the only gate
// preventing professionals from cold-messaging users.
//
// Returns nil on allow, or a *PolicyDenial carrying the reason.
func CanSend(sender, receiver *models.User, priorMessages int64) error {
	if receiver == nil {
		return ErrReceiverNotFound
	}

	// A regular user may only message professionals.
	if sender.Role == models.RoleUser && receiver.Role != models.RoleProfessional {
		return &PolicyDenial{Reason: "a user can only send messages to professionals"}
	}

	// Every new conversation's first message must come from the regular
	// user side, regardless of which side attempts to send first.
	if priorMessages == 0 && sender.Role != models.RoleUser {
		return &PolicyDenial{Reason: "only a user can initiate a conversation with a professional"}
	}

	return nil
}
