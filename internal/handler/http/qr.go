package http

import (
	"Linklytics-Backend/internal/auth"
	"Linklytics-Backend/internal/repository"
	"errors"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// GetLinkQR renders a PNG QR code pointing at the link's short URL.
//
//	@Summary		Get link QR code
//	@Description	Render a PNG QR code for the short URL. Size is clamped between 64 and 1024 pixels.
//	@Tags			Links
//	@Produce		png
//	@Security		BearerAuth
//	@Param			id		path	int	true	"Link id"
//	@Param			size	query	int	false	"Image size in pixels"	default(256)
//	@Success		200		{file}	png	"QR code image"
//	@Failure		404		{object}	map[string]string	"Link not found"
//	@Router			/api/links/{id}/qr [get]
func (h *LinksHandler) GetLinkQR(w http.ResponseWriter, r *http.Request) {
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
		h.log.Error("failed to get link for qr", zap.Int64("link_id", linkID), zap.Error(err))
		h.writeError(w, "Failed to retrieve link", http.StatusInternalServerError)
		return
	}
	if link.UserID != userID {
		h.writeError(w, "Access denied", http.StatusForbidden)
		return
	}

	size := defaultQRSize
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed < minQRSize || parsed > maxQRSize {
			h.writeError(w, "Size must be an integer between 64 and 1024", http.StatusBadRequest)
			return
		}
		size = parsed
	}

	code := link.ShortCode
	if link.CustomAlias != nil {
		code = *link.CustomAlias
	}
	shortURL := h.baseURL + "/" + code

	png, err := qrcode.Encode(shortURL, qrcode.Medium, size)
	if err != nil {
		h.log.Error("failed to generate qr code", zap.String("url", shortURL), zap.Error(err))
		h.writeError(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
