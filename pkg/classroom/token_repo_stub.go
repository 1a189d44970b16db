package classroom

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

type tokenRow struct {
	userId int
	nonce  string
	token  *oauth2.Token
}

type StubTokenRepository struct {
	mu   sync.Mutex
	rows map[int]*tokenRow
}

func NewStubTokenRepository() *StubTokenRepository {
	return &StubTokenRepository{rows: map[int]*tokenRow{}}
}

func (s *StubTokenRepository) StoreNonce(ctx context.Context, userId int, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[userId]; ok {
		row.nonce = nonce
		return nil
	}
	s.rows[userId] = &tokenRow{userId: userId, nonce: nonce}
	return nil
}

func (s *StubTokenRepository) StoreToken(ctx context.Context, nonce string, token *oauth2.Token) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.nonce == nonce {
			row.token = token
			return row.userId, nil
		}
	}
	return 0, ErrUnknownNonce
}

func (s *StubTokenRepository) GetToken(ctx context.Context, userId int) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[userId]
	if !ok || row.token == nil {
		return nil, nil
	}
	token := *row.token
	return &token, nil
}

func (s *StubTokenRepository) UpdateToken(ctx context.Context, userId int, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[userId]; ok {
		row.token = token
	}
	return nil
}

func (s *StubTokenRepository) DeleteToken(ctx context.Context, userId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, userId)
	return nil
}
