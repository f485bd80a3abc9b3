package http

import (
	"Linklytics-Backend/internal/auth"
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LinksHandler serves link CRUD and per-link analytics.
type LinksHandler struct {
	storage      repository.Storage
	urlShortener *service.URLShortenerService
	analytics    *service.AnalyticsService
	log          *zap.Logger
	baseURL      string
}

// NewLinksHandler creates a new links handler.
func NewLinksHandler(storage repository.Storage, urlShortener *service.URLShortenerService, analyticsService *service.AnalyticsService, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		storage:      storage,
		urlShortener: urlShortener,
		analytics:    analyticsService,
		log:          log,
		baseURL:      baseURL,
	}
}

// CreateLinkRequest is the link creation payload.
type CreateLinkRequest struct {
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// UpdateLinkRequest is the link update payload.
type UpdateLinkRequest struct {
	OriginalURL string `json:"original_url"`
}

// LinkInfo is the public view of a link.
type LinkInfo struct {
	ID          int64  `json:"id"`
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	CustomAlias string `json:"custom_alias,omitempty"`
	ShortURL    string `json:"short_url"`
	ClickCount  int64  `json:"click_count"`
	CreatedAt   string `json:"created_at"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// ListLinksResponse wraps the owner's links.
type ListLinksResponse struct {
	Links []LinkInfo `json:"links"`
}

// CreateLink creates a new short link.
//
//	@Summary		Create a short link
//	@Description	Create a new shortened URL. Shortening a URL the owner already has returns the existing link.
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateLinkRequest	true	"Link creation request"
//	@Success		201		{object}	LinkInfo			"Link created"
//	@Failure		400		{object}	map[string]string	"Invalid request data"
//	@Failure		409		{object}	map[string]string	"Alias already exists"
//	@Router			/api/shorten [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validateURL(req.OriginalURL); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			h.writeError(w, "Invalid expires_at format. Use RFC3339 format", http.StatusBadRequest)
			return
		}
		expiresAt = &parsed
	}

	var customAlias *string
	if req.CustomAlias != "" {
		customAlias = &req.CustomAlias
	}

	link, err := h.urlShortener.Shorten(r.Context(), userID, req.OriginalURL, customAlias, expiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrAliasExists) {
			h.writeError(w, "Alias already exists", http.StatusConflict)
			return
		}
		h.log.Error("failed to create link", zap.Error(err))
		h.writeError(w, "Failed to create link", http.StatusInternalServerError)
		return
	}

	h.log.Info("created link", zap.String("short_code", link.ShortCode), zap.Int64("user_id", userID))
	h.writeJSON(w, h.linkInfo(link), http.StatusCreated)
}

// ListLinks returns the authenticated owner's links.
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	links, err := h.storage.ListUserLinks(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to list user links", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	infos := make([]LinkInfo, len(links))
	for i, link := range links {
		infos[i] = h.linkInfo(link)
	}

	h.writeJSON(w, ListLinksResponse{Links: infos}, http.StatusOK)
}

// UpdateLink changes the destination URL of an owned link.
func (h *LinksHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	linkID, ok := h.linkIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if err := validateURL(req.OriginalURL); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	link, err := h.storage.UpdateLinkURL(r.Context(), linkID, userID, req.OriginalURL)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to update link", zap.Int64("link_id", linkID), zap.Error(err))
		h.writeError(w, "Failed to update link", http.StatusInternalServerError)
		return
	}

	h.log.Info("updated link", zap.Int64("link_id", linkID), zap.Int64("user_id", userID))
	h.writeJSON(w, h.linkInfo(link), http.StatusOK)
}

// DeleteLink removes an owned link.
//
//	@Summary		Delete a link
//	@Description	Delete a specific link by id
//	@Tags			Links
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Link id"
//	@Success		204	"Link deleted successfully"
//	@Failure		404	{object}	map[string]string	"Link not found"
//	@Router			/api/links/{id} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	linkID, ok := h.linkIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteLink(r.Context(), linkID, userID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete link", zap.Int64("link_id", linkID), zap.Error(err))
		h.writeError(w, "Failed to delete link", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted link", zap.Int64("link_id", linkID), zap.Int64("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

// GetLinkAnalytics returns the ranked per-dimension breakdown of a link.
// Only the owner can read it.
func (h *LinksHandler) GetLinkAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	linkID, ok := h.linkIDFromPath(w, r)
	if !ok {
		return
	}

	link, err := h.storage.GetLinkByID(r.Context(), linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			h.writeError(w, "Link not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get link for analytics", zap.Int64("link_id", linkID), zap.Error(err))
		h.writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return
	}
	if link.UserID != userID {
		h.writeError(w, "Access denied", http.StatusForbidden)
		return
	}

	result, err := h.analytics.LinkAnalytics(r.Context(), linkID)
	if err != nil {
		h.log.Error("failed to aggregate analytics", zap.Int64("link_id", linkID), zap.Error(err))
		h.writeError(w, "Failed to retrieve analytics", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result, http.StatusOK)
}

// Helper methods

func (h *LinksHandler) linkInfo(link *domain.Link) LinkInfo {
	info := LinkInfo{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    h.baseURL + "/" + link.ShortCode,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
	}
	if link.CustomAlias != nil {
		info.CustomAlias = *link.CustomAlias
		info.ShortURL = h.baseURL + "/" + *link.CustomAlias
	}
	if link.ExpiresAt != nil {
		info.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return info
}

// linkIDFromPath parses the numeric link id from paths like
// /api/links/{id}, /api/links/{id}/qr and /api/analytics/{id}.
func (h *LinksHandler) linkIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 3 || pathParts[2] == "" {
		h.writeError(w, "Link id is required", http.StatusBadRequest)
		return 0, false
	}

	linkID, err := strconv.ParseInt(pathParts[2], 10, 64)
	if err != nil {
		h.writeError(w, "Invalid link id", http.StatusBadRequest)
		return 0, false
	}
	return linkID, true
}

func (h *LinksHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *LinksHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("Original URL is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("Invalid URL format")
	}
	return nil
}
