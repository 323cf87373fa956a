// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeProducer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.UserTypeProducer, resp.User.UserType)

	login, err := svc.Login(&LoginRequest{Username: "meera_devi", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)

	// Login by email works too.
	_, err = svc.Login(&LoginRequest{Username: "meera@example.com", Password: "Str0ng!Pass"})
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeBuyer,
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Username: "meera_devi", Password: "wrong"})
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	req := &RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeBuyer,
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	req.Email = "other@example.com"
	_, err = svc.Register(req)
	assert.Error(t, err)
}

func TestRegisterRejectsAdminType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeAdmin,
	})
	assert.Error(t, err)
}

func TestRegisterWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "password",
		UserType: models.UserTypeBuyer,
	})
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeBuyer,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestSuspendedUserCannotLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Username: "meera_devi",
		Email:    "meera@example.com",
		Password: "Str0ng!Pass",
		UserType: models.UserTypeBuyer,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(resp.User).Update("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(&LoginRequest{Username: "meera_devi", Password: "Str0ng!Pass"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.RefreshToken(resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
