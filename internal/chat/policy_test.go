package chat

import (
	"testing"

	"promarket-server/internal/models"

	"github.com/stretchr/testify/require"
)

func userWithRole(role models.Role) *models.User {
	return &models.User{Role: role}
}

func Test_CanSend_Policy_Matrix(t *testing.T) {
	tests := []struct {
		name       string
		sender     models.Role
		receiver   models.Role
		prior      int64
		wantReason string
	}{
		{
			name:     "user initiates to professional",
			sender:   models.RoleUser,
			receiver: models.RoleProfessional,
			prior:    0,
		},
		{
			name:     "user continues with professional",
			sender:   models.RoleUser,
			receiver: models.RoleProfessional,
			prior:    7,
		},
		{
			name:       "professional cannot initiate",
			sender:     models.RoleProfessional,
			receiver:   models.RoleUser,
			prior:      0,
			wantReason: "only a user can initiate a conversation with a professional",
		},
		{
			name:     "professional replies after user initiated",
			sender:   models.RoleProfessional,
			receiver: models.RoleUser,
			prior:    1,
		},
		{
			name:       "user cannot message user regardless of history",
			sender:     models.RoleUser,
			receiver:   models.RoleUser,
			prior:      12,
			wantReason: "a user can only send messages to professionals",
		},
		{
			name:       "user cannot message admin",
			sender:     models.RoleUser,
			receiver:   models.RoleAdmin,
			prior:      3,
			wantReason: "a user can only send messages to professionals",
		},
		{
			name:     "professional messages professional with history",
			sender:   models.RoleProfessional,
			receiver: models.RoleProfessional,
			prior:    2,
		},
		{
			name:       "professional cannot cold-message professional",
			sender:     models.RoleProfessional,
			receiver:   models.RoleProfessional,
			prior:      0,
			wantReason: "only a user can initiate a conversation with a professional",
		},
		{
			name:       "admin cannot initiate either",
			sender:     models.RoleAdmin,
			receiver:   models.RoleProfessional,
			prior:      0,
			wantReason: "only a user can initiate a conversation with a professional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := CanSend(userWithRole(tt.sender), userWithRole(tt.receiver), tt.prior)
			if tt.wantReason == "" {
				req.NoError(err)
				return
			}
			req.Error(err)
			req.True(IsPolicyDenial(err))
			req.Equal(tt.wantReason, err.Error())
		})
	}
}

func Test_CanSend_Missing_Receiver(t *testing.T) {
	req := require.New(t)
	err := CanSend(userWithRole(models.RoleUser), nil, 0)
	req.ErrorIs(err, ErrReceiverNotFound)
	req.False(IsPolicyDenial(err))
}
