package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "auth_backend/internal/feature/auth/adapters"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	jwtmw "auth_backend/internal/platform/jwt"
	"auth_backend/internal/platform/mail"
)

// Auth bundles the wired auth feature.
type Auth struct {
	Handler *authhandler.AuthHandler
	Users   usecase.UserRepository
	Tokens  TokenStore
}

// NewAuth wires stores, token lifecycle, mailer and JWT issuer into the auth handler.
func NewAuth(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sender mail.Sender) *Auth {
	users := authadapters.NewUserGorm(db)
	tokens := NewTokenStore(rdb, db)

	mailer := mail.NewService(mail.NewTemplateRenderer(mail.DefaultTemplates()), sender, mail.FromAddress(cfg.Mail))
	generator := jwtmw.NewGenerator(cfg.JWTSecret, jwtmw.DefaultExpiration)
	authUC := usecase.NewAuthUsecase(users, usecase.NewTokenManager(users, tokens), mailer, generator, cfg.AppURL)

	return &Auth{
		Handler: authhandler.NewAuthHandler(authUC, cfg.IsProduction()),
		Users:   users,
		Tokens:  tokens,
	}
}
