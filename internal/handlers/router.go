package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/sirupsen/logrus"
)

type Set struct {
	Auth       *AuthHandlers
	Users      *UserHandlers
	Categories *CategoryHandlers
	Blogs      *BlogHandlers
	Comments   *CommentHandlers
}

func NewRouter(h Set, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()

	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods("POST")
	auth.HandleFunc("/verify", h.Auth.Verify).Methods("POST")
	auth.HandleFunc("/token/refresh", h.Auth.RefreshToken).Methods("POST")
	auth.HandleFunc("/logout", h.Auth.Logout).Methods("POST")

	authed := func(f http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(f)
	}
	superuser := func(f http.HandlerFunc) http.Handler {
		return authMiddleware.RequireSuperuser(f)
	}

	// Everything below may carry a bearer token.
	resources := api.NewRoute().Subrouter()
	resources.Use(authMiddleware.Authenticate)

	resources.Handle("/users/me", authed(h.Users.GetProfile)).Methods("GET")
	resources.Handle("/users/me", authed(h.Users.UpdateProfile)).Methods("PUT")
	resources.Handle("/users/me", authed(h.Users.DeleteProfile)).Methods("DELETE")
	resources.Handle("/users", superuser(h.Users.List)).Methods("GET")
	resources.Handle("/users/{id:[0-9]+}", superuser(h.Users.Get)).Methods("GET")
	resources.Handle("/users/{id:[0-9]+}", superuser(h.Users.Update)).Methods("PUT")
	resources.Handle("/users/{id:[0-9]+}", superuser(h.Users.Delete)).Methods("DELETE")

	resources.HandleFunc("/categories", h.Categories.List).Methods("GET")
	resources.Handle("/categories", superuser(h.Categories.Create)).Methods("POST")
	resources.Handle("/categories/{id:[0-9]+}", superuser(h.Categories.Update)).Methods("PUT")
	resources.Handle("/categories/{id:[0-9]+}", superuser(h.Categories.Delete)).Methods("DELETE")

	resources.HandleFunc("/blogs", h.Blogs.List).Methods("GET")
	resources.Handle("/blogs", authed(h.Blogs.Create)).Methods("POST")
	resources.HandleFunc("/blogs/{slug}", h.Blogs.Get).Methods("GET")
	resources.Handle("/blogs/{id:[0-9]+}", authed(h.Blogs.Update)).Methods("PUT")
	resources.Handle("/blogs/{id:[0-9]+}", authed(h.Blogs.Delete)).Methods("DELETE")
	resources.Handle("/blogs/{id:[0-9]+}/like", authed(h.Blogs.Like)).Methods("POST")
	resources.Handle("/blogs/{id:[0-9]+}/dislike", authed(h.Blogs.Dislike)).Methods("POST")

	resources.HandleFunc("/comments/{kind}/{id:[0-9]+}", h.Comments.List).Methods("GET")
	resources.Handle("/comments", authed(h.Comments.Create)).Methods("POST")
	resources.Handle("/comments/{id:[0-9]+}", authed(h.Comments.Update)).Methods("PUT")
	resources.Handle("/comments/{id:[0-9]+}", authed(h.Comments.Delete)).Methods("DELETE")

	return middleware.CORSMiddleware(allowedOrigins)(router)
}
