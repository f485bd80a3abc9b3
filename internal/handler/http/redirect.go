package http

import (
	"Linklytics-Backend/internal/analytics"
	"Linklytics-Backend/internal/clientinfo"
	"Linklytics-Backend/internal/repository"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ClickSubmitter accepts click jobs for out-of-band processing.
type ClickSubmitter interface {
	Submit(job *analytics.ClickJob) error
}

// RedirectHandler serves the latency-sensitive redirect path.
type RedirectHandler struct {
	storage   repository.Storage
	extractor *clientinfo.Extractor
	recorder  ClickSubmitter
	log       *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(storage repository.Storage, extractor *clientinfo.Extractor, recorder ClickSubmitter, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		storage:   storage,
		extractor: extractor,
		recorder:  recorder,
		log:       log,
	}
}

// HandleRedirect resolves a short code and redirects the visitor.
//
// The resolve gates the response; the analytics capture is handed to the
// recorder after the redirect is written and can never fail the request.
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/")

	// Keep system endpoints out of the catch-all route.
	if code == "" || strings.HasPrefix(code, "api/") ||
		strings.HasPrefix(code, "health") || strings.HasPrefix(code, "ready") ||
		strings.HasPrefix(code, "metrics") {
		http.NotFound(w, r)
		return
	}

	link, err := h.storage.ResolveLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.log.Debug("short code not found", zap.String("code", code))
			http.Error(w, "Short URL not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to process redirect", zap.String("code", code), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)

	// Fire-and-forget: a full queue or stopped recorder only costs the
	// record, never the redirect.
	client := h.extractor.FromRequest(r)
	if err := h.recorder.Submit(&analytics.ClickJob{
		LinkID:    link.ID,
		ClickedAt: time.Now(),
		Client:    client,
	}); err != nil {
		h.log.Warn("failed to submit click for analytics",
			zap.Int64("link_id", link.ID),
			zap.Error(err))
	}

	h.log.Info("successful redirect",
		zap.String("code", code),
		zap.String("original_url", link.OriginalURL),
		zap.String("ip", client.IP))
}
