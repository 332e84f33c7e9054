// Package api wires the HTTP routes of the account portal.
package api

import (
	"account_portal/internal/config"     // Configuration
	"account_portal/internal/middleware" // Sessions, guards, observability
	"account_portal/internal/repository" // Persistence
	"account_portal/internal/service"    // Account operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps is everything the router needs
type Deps struct {
	Config        *config.Config
	Redis         redis.Cmdable // Health checks
	Sessions      *middleware.Sessions
	Users         repository.UserRepository
	Auth          *service.AuthService
	Verification  *service.VerificationService
	Passwords     *service.PasswordService
	Profile       *service.ProfileService
	Notifications *service.NotificationService
	PublicDir     string // Local avatar directory served under /storage, if any
}

// NewRouter builds the gin engine with every route and guard
func NewRouter(d *Deps) *gin.Engine {
	useJSONFieldNames()
	frontend := d.Config.FrontendURL()
	throttle := middleware.NewRateLimiter(d.Config.RateLimitPerMinute).Middleware()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())
	r.Use(middleware.CORS(d.Config.OriginMatcher()))
	r.Use(d.Sessions.Load())
	r.NoRoute(NotFoundHandler(d.Config.SPADir))

	r.GET("/health", HealthHandler(d.Redis))
	r.GET("/metrics", middleware.MetricsHandler())
	r.GET("/reset-password/:token", ResetPasswordRedirectHandler(frontend))
	if d.PublicDir != "" {
		r.Static("/storage", d.PublicDir)
	}

	api := r.Group("/api")
	api.GET("/health", HealthHandler(d.Redis))
	api.GET("/csrf-cookie", CSRFCookieHandler(d.Sessions))
	api.GET("/email/verify/:id/:hash", throttle, VerifyEmailHandler(d.Verification, frontend))

	// Guest routes, CSRF protected
	guest := api.Group("", middleware.CSRF())
	guest.POST("/register", RegisterHandler(d.Auth))
	guest.POST("/login", throttle, LoginHandler(d.Auth, d.Sessions, d.Profile))
	guest.POST("/forgot-password", throttle, ForgotPasswordHandler(d.Passwords))
	guest.POST("/reset-password", ResetPasswordHandler(d.Passwords, d.Sessions))
	guest.POST("/email/resend-verification", throttle, ResendVerificationHandler(d.Verification))

	// Signed-in routes
	authed := api.Group("", middleware.CSRF(), middleware.RequireAuth())
	authed.POST("/logout", LogoutHandler(d.Sessions))
	authed.GET("/user", CurrentUserHandler(d.Auth, d.Profile))
	authed.DELETE("/user", DeleteAccountHandler(d.Profile, d.Sessions))
	authed.POST("/email/verification-notification", throttle, VerificationNotificationHandler(d.Verification))

	// Signed-in routes that also need a verified email
	verified := authed.Group("", middleware.EnsureVerified(d.Users))
	verified.PUT("/profile", UpdateProfileHandler(d.Profile))
	verified.PUT("/password", UpdatePasswordHandler(d.Passwords, d.Sessions))
	verified.POST("/profile/avatar", UploadAvatarHandler(d.Profile))
	verified.GET("/preferences", GetPreferencesHandler(d.Profile))
	verified.PUT("/preferences", UpdatePreferencesHandler(d.Profile))
	verified.GET("/notifications", ListNotificationsHandler(d.Notifications))
	verified.POST("/notifications/read-all", MarkAllNotificationsReadHandler(d.Notifications))
	verified.POST("/notifications/:id/read", MarkNotificationReadHandler(d.Notifications))

	return r
}
