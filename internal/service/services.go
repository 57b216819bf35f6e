package service

import (
	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Tokens   *TokenService
	Tracking map[domain.Variant]*TrackingService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	tracking := make(map[domain.Variant]*TrackingService, len(domain.AllVariants))
	for _, v := range domain.AllVariants {
		tracking[v] = NewTrackingService(v, repos.User, repos.TrackedItem)
	}

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RevokedToken, tokens, cfg),
		Tokens:   tokens,
		Tracking: tracking,
	}
}
