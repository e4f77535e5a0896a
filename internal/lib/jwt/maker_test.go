package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/eldercare-platform/internal/models"
)

func TestMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		userUID  string
		username string
		role     int
	}{
		{
			name:     "admin user",
			userUID:  "a9f6c2d4-0000-4000-8000-000000000001",
			username: "admin_user",
			role:     models.RoleAdmin,
		},
		{
			name:     "elderly user",
			userUID:  "a9f6c2d4-0000-4000-8000-000000000002",
			username: "elderly_user",
			role:     models.RoleElderly,
		},
		{
			name:     "merchant user",
			userUID:  "a9f6c2d4-0000-4000-8000-000000000003",
			username: "merchant_user",
			role:     models.RoleMerchant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userUID, tt.username, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userUID, claims.Subject)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestMaker_ParseToken_Expired(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("uid", "user", models.RoleFamily)
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewMaker("correct_secret_key", time.Minute)
	other := NewMaker("different_secret_key", time.Minute)

	token, err := maker.GenerateToken("uid", "user", models.RoleElderly)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ParseToken_Garbage(t *testing.T) {
	maker := NewMaker("test_secret_key", time.Minute)

	_, err := maker.ParseToken("not-a-token")
	assert.Error(t, err)
}
