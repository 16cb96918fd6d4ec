// Package router sets up all HTTP routes and middleware chains for the
// VibePress admin API. Routes are grouped per collection under /admin
// with a shared middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msnandhis/vibepress-sub000/internal/handlers"
	"github.com/msnandhis/vibepress-sub000/internal/middleware"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *store.SessionStore, admin *handlers.Admin, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessions))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Auth endpoints — accessible without a session.
	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)
	r.Post("/auth/invites/{token}/accept", auth.AcceptInvite)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		// Dashboard
		r.Get("/", admin.Dashboard)
		r.Get("/dashboard", admin.Dashboard)

		// Two-factor enrollment for the signed-in user.
		r.Post("/2fa/setup", auth.TwoFASetup)
		r.Post("/2fa/verify", auth.TwoFAVerify)
		r.Post("/2fa/reset", auth.TwoFAReset)

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Post("/", admin.PostCreate)
			r.Post("/bulk/delete", admin.PostsBulkDelete)
			r.Post("/bulk/status", admin.PostsBulkStatus)
			r.Get("/{id}", admin.PostGet)
			r.Put("/{id}", admin.PostUpdate)
			r.Delete("/{id}", admin.PostDelete)
		})

		// Pages
		r.Route("/pages", func(r chi.Router) {
			r.Get("/", admin.PagesList)
			r.Post("/", admin.PageCreate)
			r.Post("/bulk/delete", admin.PagesBulkDelete)
			r.Get("/{id}", admin.PageGet)
			r.Put("/{id}", admin.PageUpdate)
			r.Delete("/{id}", admin.PageDelete)
		})

		// Media library
		r.Route("/media", func(r chi.Router) {
			r.Get("/", admin.MediaList)
			r.Post("/", admin.MediaCreate)
			r.Post("/bulk/delete", admin.MediaBulkDelete)
			r.Post("/bulk/move", admin.MediaBulkMove)
			r.Get("/{id}", admin.MediaGet)
			r.Put("/{id}", admin.MediaUpdate)
			r.Delete("/{id}", admin.MediaDelete)
		})

		// Media folders
		r.Route("/media-folders", func(r chi.Router) {
			r.Get("/", admin.FoldersList)
			r.Post("/", admin.FolderCreate)
			r.Put("/{id}", admin.FolderUpdate)
			r.Delete("/{id}", admin.FolderDelete)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Get("/tree", admin.CategoriesTree)
			r.Post("/", admin.CategoryCreate)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
		})

		// Tags
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", admin.TagsList)
			r.Post("/", admin.TagCreate)
			r.Post("/bulk/delete", admin.TagsBulkDelete)
			r.Put("/{id}", admin.TagUpdate)
			r.Delete("/{id}", admin.TagDelete)
		})

		// User management
		r.Route("/users", func(r chi.Router) {
			r.Get("/", admin.UsersList)
			r.Post("/", admin.UserCreate)
			r.Post("/bulk/delete", admin.UsersBulkDelete)
			r.Get("/{id}", admin.UserGet)
			r.Put("/{id}", admin.UserUpdate)
			r.Delete("/{id}", admin.UserDelete)
		})

		// Invites
		r.Route("/invites", func(r chi.Router) {
			r.Get("/", admin.InvitesList)
			r.Post("/", admin.InviteCreate)
			r.Delete("/{token}", admin.InviteRevoke)
		})

		// Roles
		r.Route("/roles", func(r chi.Router) {
			r.Get("/", admin.RolesList)
			r.Post("/", admin.RoleCreate)
			r.Get("/{id}", admin.RoleGet)
			r.Put("/{id}", admin.RoleUpdate)
			r.Delete("/{id}", admin.RoleDelete)
		})

		// Site settings
		r.Get("/settings", admin.SettingsGet)
		r.Put("/settings", admin.SettingsUpdate)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
