package test_utils

import (
	"context"

	"github.com/semillerodigital/classroom-progress/pkg/user"
)

type TestUserProvider struct {
	User *user.User
}

func (p TestUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	if p.User != nil {
		return *p.User, nil
	}
	return user.User{
		Id:          123,
		Uid:         "test-uid",
		Username:    "test_user",
		DisplayName: "Test User",
		Email:       "student@example.com",
		Settings: user.Settings{
			Timezone: "America/Argentina/Buenos_Aires",
		},
	}, nil
}
