package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/ovoronin/bloghub/internal/auth"
	"github.com/ovoronin/bloghub/internal/handlers"
	"github.com/ovoronin/bloghub/internal/middleware"
	"github.com/ovoronin/bloghub/internal/models"
	pkghttp "github.com/ovoronin/bloghub/pkg/http"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Devices  *handlers.DeviceHandler
	Blogs    *handlers.BlogHandler
	Posts    *handlers.PostHandler
	Comments *handlers.CommentHandler
	Users    *handlers.UserHandler
}

// RegisterRoutes registers all application routes. Auth endpoints sit behind
// the per-category DB limiter; content writes behind admin basic auth;
// comment writes and /me behind bearer auth.
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	tokenManager *auth.TokenManager,
	limiter middleware.CategoryLimiter,
	ipConfig *pkghttp.IPConfig,
	adminLogin, adminPassword string,
) {
	bearer := auth.BearerAuth(tokenManager)
	admin := auth.BasicAuth(adminLogin, adminPassword)

	router.Route("/auth", func(r chi.Router) {
		r.With(middleware.LimitByCategory(limiter, models.CategoryLogin, ipConfig)).
			Post("/login", h.Auth.Login)
		r.Post("/refresh-token", h.Auth.RefreshToken)
		r.Post("/logout", h.Auth.Logout)
		r.With(bearer).Get("/me", h.Auth.Me)

		r.With(middleware.LimitByCategory(limiter, models.CategoryRegistration, ipConfig)).
			Post("/registration", h.Auth.Registration)
		r.With(middleware.LimitByCategory(limiter, models.CategoryConfirmation, ipConfig)).
			Post("/registration-confirmation", h.Auth.RegistrationConfirmation)
		r.With(middleware.LimitByCategory(limiter, models.CategoryEmailResending, ipConfig)).
			Post("/registration-email-resending", h.Auth.RegistrationEmailResending)
		r.With(middleware.LimitByCategory(limiter, models.CategoryPasswordRecovery, ipConfig)).
			Post("/password-recovery", h.Auth.PasswordRecovery)
		r.With(middleware.LimitByCategory(limiter, models.CategoryNewPassword, ipConfig)).
			Post("/new-password", h.Auth.NewPassword)

		// Emailed-link confirmation variants
		r.Get("/confirm-registration", h.Auth.ConfirmRegistration)
		r.Get("/confirm-code/{code}", h.Auth.ConfirmCode)
		r.Post("/confirm-email", h.Auth.ConfirmEmail)
	})

	router.Route("/security/devices", func(r chi.Router) {
		r.Get("/", h.Devices.List)
		r.Delete("/", h.Devices.TerminateOthers)
		r.Delete("/{deviceId}", h.Devices.Terminate)
	})

	router.Route("/blogs", func(r chi.Router) {
		r.Get("/", h.Blogs.List)
		r.Get("/{id}", h.Blogs.Get)
		r.Get("/{id}/posts", h.Blogs.ListPosts)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Blogs.Create)
			r.Put("/{id}", h.Blogs.Update)
			r.Delete("/{id}", h.Blogs.Delete)
			r.Post("/{id}/posts", h.Blogs.CreatePost)
		})
	})

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", h.Posts.List)
		r.Get("/{id}", h.Posts.Get)
		r.Get("/{id}/comments", h.Posts.ListComments)
		r.With(bearer).Post("/{id}/comments", h.Posts.CreateComment)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.Posts.Create)
			r.Put("/{id}", h.Posts.Update)
			r.Delete("/{id}", h.Posts.Delete)
		})
	})

	router.Route("/comments", func(r chi.Router) {
		r.Get("/{id}", h.Comments.Get)
		r.With(bearer).Put("/{id}", h.Comments.Update)
		r.With(bearer).Delete("/{id}", h.Comments.Delete)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Delete("/{id}", h.Users.Delete)
	})
}
