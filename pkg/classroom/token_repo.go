package classroom

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
)

var ErrUnknownNonce = errors.New("unknown oauth state nonce")

// TokenRepository persists the Google OAuth token of each user. Starting a
// login sets the row's nonce and the callback fills in the token.
type TokenRepository interface {
	StoreNonce(ctx context.Context, userId int, nonce string) error
	StoreToken(ctx context.Context, nonce string, token *oauth2.Token) (int, error)
	GetToken(ctx context.Context, userId int) (*oauth2.Token, error)
	UpdateToken(ctx context.Context, userId int, token *oauth2.Token) error
	DeleteToken(ctx context.Context, userId int) error
}

type TokenRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) *TokenRepositoryImpl {
	return &TokenRepositoryImpl{db: db}
}

// StoreNonce starts a login. An existing token is kept until the callback
// replaces it; only the nonce of a previous unfinished login is discarded.
func (r *TokenRepositoryImpl) StoreNonce(ctx context.Context, userId int, nonce string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO google_classroom_auth (user_id, nonce) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET nonce = EXCLUDED.nonce`,
		userId, nonce)
	if err != nil {
		return fmt.Errorf("failed to store nonce for user %d: %w", userId, err)
	}
	return nil
}

func (r *TokenRepositoryImpl) StoreToken(ctx context.Context, nonce string, token *oauth2.Token) (int, error) {
	var userId int
	err := r.db.QueryRow(ctx,
		`UPDATE google_classroom_auth SET access_token = $1, refresh_token = $2, token_type = $3, expiry = $4
		 WHERE nonce = $5 RETURNING user_id`,
		token.AccessToken, token.RefreshToken, token.TokenType, expiryToUnix(token.Expiry), nonce,
	).Scan(&userId)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUnknownNonce
	}
	if err != nil {
		return 0, fmt.Errorf("failed to store token: %w", err)
	}
	return userId, nil
}

// GetToken returns nil without error when the user never completed the login.
func (r *TokenRepositoryImpl) GetToken(ctx context.Context, userId int) (*oauth2.Token, error) {
	var accessToken, refreshToken, tokenType sql.NullString
	var expiry sql.NullInt64
	err := r.db.QueryRow(ctx,
		"SELECT access_token, refresh_token, token_type, expiry FROM google_classroom_auth WHERE user_id = $1", userId).
		Scan(&accessToken, &refreshToken, &tokenType, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth token: %w", err)
	}
	if !accessToken.Valid {
		return nil, nil
	}

	token := &oauth2.Token{
		AccessToken:  accessToken.String,
		RefreshToken: refreshToken.String,
		TokenType:    tokenType.String,
	}
	if expiry.Valid && expiry.Int64 > 0 {
		token.Expiry = time.Unix(expiry.Int64, 0)
	}
	return token, nil
}

func (r *TokenRepositoryImpl) UpdateToken(ctx context.Context, userId int, token *oauth2.Token) error {
	_, err := r.db.Exec(ctx,
		`UPDATE google_classroom_auth SET access_token = $1, refresh_token = $2, token_type = $3, expiry = $4
		 WHERE user_id = $5`,
		token.AccessToken, token.RefreshToken, token.TokenType, expiryToUnix(token.Expiry), userId)
	if err != nil {
		return fmt.Errorf("failed to update token for user %d: %w", userId, err)
	}
	return nil
}

func (r *TokenRepositoryImpl) DeleteToken(ctx context.Context, userId int) error {
	_, err := r.db.Exec(ctx, "DELETE FROM google_classroom_auth WHERE user_id = $1", userId)
	if err != nil {
		return fmt.Errorf("failed to delete auth row for user %d: %w", userId, err)
	}
	return nil
}

func expiryToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
