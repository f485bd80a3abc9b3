package http

import (
	"Linklytics-Backend/internal/analytics"
	"Linklytics-Backend/internal/auth"
	"Linklytics-Backend/internal/clientinfo"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/internal/service"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server wires handlers and middleware into one HTTP surface.
type Server struct {
	authHandlers    *auth.AuthHandlers
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	log             *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(
	storage repository.Storage,
	urlShortener *service.URLShortenerService,
	analyticsService *service.AnalyticsService,
	recorder *analytics.Recorder,
	extractor *clientinfo.Extractor,
	jwtService *auth.JWTService,
	passwordService *auth.PasswordService,
	blacklist *auth.TokenBlacklist,
	checkDB func() error,
	log *zap.Logger,
	baseURL string,
) *Server {
	authHandlers := auth.NewAuthHandlers(storage, jwtService, passwordService, blacklist, log)
	linksHandler := NewLinksHandler(storage, urlShortener, analyticsService, log, baseURL)
	redirectHandler := NewRedirectHandler(storage, extractor, recorder, log)
	healthHandler := NewHealthHandler(checkDB, recorder, log)

	authMiddleware := auth.NewMiddleware(jwtService, blacklist, log)

	return &Server{
		authHandlers:    authHandlers,
		linksHandler:    linksHandler,
		redirectHandler: redirectHandler,
		healthHandler:   healthHandler,
		authMiddleware:  authMiddleware,
		log:             log,
	}
}

// SetupRoutes registers all routes on a ServeMux.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (no authentication)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)
	mux.HandleFunc("/metrics", s.healthHandler.Metrics)

	// Swagger documentation
	mux.Handle("/api/v1/", httpSwagger.WrapHandler)

	// Auth endpoints (no authentication)
	mux.HandleFunc("/api/auth/register", s.withCORS(s.authHandlers.Register))
	mux.HandleFunc("/api/auth/login", s.withCORS(s.authHandlers.Login))

	// Auth endpoints (with authentication)
	mux.HandleFunc("/api/auth/logout", s.withCORS(s.authMiddleware.RequireAuth(s.authHandlers.Logout)))
	mux.HandleFunc("/api/auth/profile", s.withCORS(s.authMiddleware.RequireAuth(s.authHandlers.UpdateProfile)))

	// Link endpoints (with authentication)
	mux.HandleFunc("/api/shorten", s.withCORS(s.authMiddleware.RequireAuth(s.linksHandler.CreateLink)))
	mux.HandleFunc("/api/links", s.withCORS(s.authMiddleware.RequireAuth(s.linksHandler.ListLinks)))
	mux.HandleFunc("/api/links/", s.withCORS(s.authMiddleware.RequireAuth(s.handleLinksAPI)))

	// Analytics endpoint (with authentication)
	mux.HandleFunc("/api/analytics/", s.withCORS(s.authMiddleware.RequireAuth(s.linksHandler.GetLinkAnalytics)))

	// Redirect endpoint (no authentication), must be registered last
	mux.HandleFunc("/", s.redirectHandler.HandleRedirect)

	return mux
}

// handleLinksAPI dispatches /api/links/{id} and /api/links/{id}/qr
// by method and trailing path segment.
func (s *Server) handleLinksAPI(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) == 4 && pathParts[3] == "qr" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.linksHandler.GetLinkQR(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.linksHandler.UpdateLink(w, r)
	case http.MethodDelete:
		s.linksHandler.DeleteLink(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// withCORS adds CORS headers to a handler.
func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(handler)
}
