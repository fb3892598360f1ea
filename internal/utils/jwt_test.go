package utils

import (
	"testing"

	"promarket-server/internal/config"
	"promarket-server/internal/models"

	"github.com/stretchr/testify/require"
)

func Test_Token_RoundTrip(t *testing.T) {
	req := require.New(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}

	user := &models.User{Role: models.RoleProfessional}
	user.ID = "6f1e1a39-30a5-4e52-9a64-7a3a39f6a001"

	token, err := GenerateToken(user, cfg)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token, cfg.JWTSecret)
	req.NoError(err)
	req.Equal(user.ID, claims.UserID)
	req.Equal(models.RoleProfessional, claims.Role)
	req.Equal(user.ID, claims.Subject)
}

func Test_Token_Rejected_With_Wrong_Secret(t *testing.T) {
	req := require.New(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}

	user := &models.User{Role: models.RoleUser}
	user.ID = "6f1e1a39-30a5-4e52-9a64-7a3a39f6a002"

	token, err := GenerateToken(user, cfg)
	req.NoError(err)

	_, err = ValidateToken(token, "another-secret")
	req.Error(err)
}

func Test_Expired_Token_Rejected(t *testing.T) {
	req := require.New(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: -1}

	user := &models.User{Role: models.RoleUser}
	user.ID = "6f1e1a39-30a5-4e52-9a64-7a3a39f6a003"

	token, err := GenerateToken(user, cfg)
	req.NoError(err)

	_, err = ValidateToken(token, cfg.JWTSecret)
	req.Error(err)
}
