package usecase

import (
	"testing"
	"time"

	authdto "itam-backend/internal/auth/dto"
	"itam-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AdminSessionExpiry: time.Hour,
		AdminUsername:      "admin",
		AdminPassword:      "hunter2",
	}
}

func TestLoginAndValidateSession(t *testing.T) {
	uc := NewAuthUsecase(testConfig())

	resp, err := uc.Login(&authdto.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	username, err := uc.ValidateSession(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc := NewAuthUsecase(testConfig())

	_, err := uc.Login(&authdto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(&authdto.LoginRequest{Username: "root", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.AdminPassword = ""
	cfg.AdminPasswordHash = string(hash)
	uc := NewAuthUsecase(cfg)

	_, err = uc.Login(&authdto.LoginRequest{Username: "admin", Password: "hunter2"})
	assert.NoError(t, err)

	_, err = uc.Login(&authdto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectedWhenNoPasswordConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = ""
	uc := NewAuthUsecase(cfg)

	_, err := uc.Login(&authdto.LoginRequest{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateSessionRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AdminSessionExpiry = -time.Minute
	uc := NewAuthUsecase(cfg)

	resp, err := uc.Login(&authdto.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)

	_, err = uc.ValidateSession(resp.Token)
	assert.Error(t, err)
}

func TestValidateSessionRejectsGarbage(t *testing.T) {
	uc := NewAuthUsecase(testConfig())

	_, err := uc.ValidateSession("garbage")
	assert.Error(t, err)
}
