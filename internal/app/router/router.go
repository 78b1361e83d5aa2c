package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	platformhandler "auth_backend/internal/platform/http/handler"
	jwtmw "auth_backend/internal/platform/jwt"
)

// APIPrefix is the version prefix of every auth route.
const APIPrefix = "/api/v1"

// Deps are the handlers and settings the router needs.
type Deps struct {
	Auth           *authhandler.AuthHandler
	Users          jwtmw.UserResolver
	JWTSecret      string
	AllowedOrigins []string
	Pingers        map[string]platformhandler.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// no authentication
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(d.Pingers))

	auth := r.Group(APIPrefix + "/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.GET("/verify-email/:token", d.Auth.VerifyEmail)
		auth.POST("/resend-verification", d.Auth.ResendVerification)
		auth.POST("/login", d.Auth.Login)
		auth.POST("/logout", d.Auth.Logout)

		// bearer token required
		auth.GET("/profile", jwtmw.AuthRequired(d.JWTSecret, d.Users), d.Auth.Profile)
	}

	return r
}
