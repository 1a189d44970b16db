//go:build integration

package classroom

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/semillerodigital/classroom-progress/internal/test_utils"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/oauth2"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTokenRepository(t *testing.T) (context.Context, *TokenRepositoryImpl, int) {
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	userId, err := user.NewUserRepo(db).CreateUser(ctx, user.User{Uid: "uid-1", Username: "ana", DisplayName: "Ana"})
	require.NoError(t, err)
	return ctx, NewTokenRepository(db), userId
}

func TestTokenRepositoryImpl(t *testing.T) {
	t.Run("should return nil before login completes", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTokenRepository(t)
		require.NoError(t, repo.StoreNonce(ctx, userId, "nonce-1"))

		// when
		token, err := repo.GetToken(ctx, userId)

		// then
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("should store token by nonce", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTokenRepository(t)
		require.NoError(t, repo.StoreNonce(ctx, userId, "nonce-1"))
		expiry := time.Unix(1710000000, 0)

		// when
		storedFor, err := repo.StoreToken(ctx, "nonce-1", &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       expiry,
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, userId, storedFor)
		token, err := repo.GetToken(ctx, userId)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "access", token.AccessToken)
		assert.Equal(t, "refresh", token.RefreshToken)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.True(t, expiry.Equal(token.Expiry))
	})

	t.Run("should reject unknown nonce", func(t *testing.T) {
		ctx, repo, _ := setupTokenRepository(t)

		_, err := repo.StoreToken(ctx, "missing", &oauth2.Token{AccessToken: "a"})

		assert.ErrorIs(t, err, ErrUnknownNonce)
	})

	t.Run("new login keeps previous token until callback", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTokenRepository(t)
		require.NoError(t, repo.StoreNonce(ctx, userId, "nonce-1"))
		_, err := repo.StoreToken(ctx, "nonce-1", &oauth2.Token{AccessToken: "old", RefreshToken: "refresh-old"})
		require.NoError(t, err)

		// when
		require.NoError(t, repo.StoreNonce(ctx, userId, "nonce-2"))

		// then
		token, err := repo.GetToken(ctx, userId)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "old", token.AccessToken)
		_, err = repo.StoreToken(ctx, "nonce-1", &oauth2.Token{AccessToken: "late"})
		assert.ErrorIs(t, err, ErrUnknownNonce)

		storedFor, err := repo.StoreToken(ctx, "nonce-2", &oauth2.Token{AccessToken: "new", RefreshToken: "refresh-new"})
		require.NoError(t, err)
		assert.Equal(t, userId, storedFor)
		token, err = repo.GetToken(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, "new", token.AccessToken)
	})

	t.Run("should update and delete token", func(t *testing.T) {
		// given
		ctx, repo, userId := setupTokenRepository(t)
		require.NoError(t, repo.StoreNonce(ctx, userId, "nonce-1"))
		_, err := repo.StoreToken(ctx, "nonce-1", &oauth2.Token{AccessToken: "old", RefreshToken: "refresh"})
		require.NoError(t, err)

		// when
		require.NoError(t, repo.UpdateToken(ctx, userId, &oauth2.Token{AccessToken: "new", RefreshToken: "refresh"}))

		// then
		token, err := repo.GetToken(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, "new", token.AccessToken)
		assert.True(t, token.Expiry.IsZero())

		require.NoError(t, repo.DeleteToken(ctx, userId))
		token, err = repo.GetToken(ctx, userId)
		require.NoError(t, err)
		assert.Nil(t, token)
	})
}
