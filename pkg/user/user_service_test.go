package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() (*UserServiceImpl, *StubUserRepository) {
	repo := NewStubUserRepository()
	return NewUserService(repo), repo
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("should assign uid and id", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, created.Id)
		assert.NotEmpty(t, created.Uid)
	})

	t.Run("should reject unknown timezone", func(t *testing.T) {
		// given
		service, _ := setupService()

		// when
		_, err := service.CreateUser(context.Background(), User{
			Username:    "ana",
			DisplayName: "Ana",
			Settings:    Settings{Timezone: "Mars/Olympus"},
		})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})

	t.Run("should reject missing display name", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.CreateUser(context.Background(), User{Username: "ana"})

		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserService_GetCurrentUser(t *testing.T) {
	t.Run("should fail without user in context", func(t *testing.T) {
		service, _ := setupService()

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
	})

	t.Run("should load user from repository", func(t *testing.T) {
		// given
		service, _ := setupService()
		created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), User{Id: created.Id})

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, created, current)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	// given
	service, _ := setupService()
	created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
	require.NoError(t, err)
	ctx := WithUser(context.Background(), created)

	// when
	updated, err := service.UpdateUser(ctx, User{
		Uid:         "ignored",
		Username:    "ana",
		DisplayName: "Ana María",
		Settings:    Settings{Timezone: "America/Bogota"},
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, created.Uid, updated.Uid)
	assert.Equal(t, "Ana María", updated.DisplayName)
	assert.Equal(t, "America/Bogota", updated.Settings.Timezone)
}

func TestUser_Location(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	tests := []struct {
		name     string
		timezone string
		want     *time.Location
	}{
		{"empty falls back", "", time.UTC},
		{"unknown falls back", "Nowhere/Land", time.UTC},
		{"valid zone", "America/Bogota", bogota},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Settings: Settings{Timezone: tt.timezone}}
			assert.Equal(t, tt.want.String(), u.Location(time.UTC).String())
		})
	}
}
