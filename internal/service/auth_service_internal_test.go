package service

import (
	"context"
	"testing"
	"time"

	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type emptyUserRepo struct{}

func (emptyUserRepo) Create(context.Context, *domain.User) error { return nil }

func (emptyUserRepo) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (emptyUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func TestLogin_UnknownEmailPaysBcryptCost(t *testing.T) {
	cfg := &config.Config{BcryptCost: 6}
	s := NewAuthService(emptyUserRepo{}, nil, NewTokenService("secret", time.Hour), cfg)

	_, err := s.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NotEmpty(t, s.dummyHash)
	cost, err := bcrypt.Cost(s.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, 6, cost)
}

func TestPasswordBytes(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantLen  int
	}{
		{"short", "password123", 11},
		{"exactly 72", string(make([]byte, 72)), 72},
		{"longer than 72", string(make([]byte, 100)), 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, passwordBytes(tt.password), tt.wantLen)
		})
	}
}
