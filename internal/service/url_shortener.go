package service

import (
	"Linklytics-Backend/internal/config"
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/pkg/random"
	"context"
	"errors"
	"fmt"
	"time"
)

const maxRetries = 5

type URLShortenerService struct {
	storage repository.Storage
	config  *config.URLShortener
}

func NewURLShortener(storage repository.Storage, cfg *config.URLShortener) *URLShortenerService {
	return &URLShortenerService{
		storage: storage,
		config:  cfg,
	}
}

// Shorten creates a link for the owner. Creation is idempotent per
// (owner, original URL): shortening a URL the owner already has returns the
// existing link. The check is skipped when a custom alias is requested.
func (s *URLShortenerService) Shorten(ctx context.Context, userID int64, originalURL string, customAlias *string, expiresAt *time.Time) (*domain.Link, error) {
	if customAlias == nil || *customAlias == "" {
		existing, err := s.storage.FindLinkByOwnerAndURL(ctx, userID, originalURL)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrLinkNotFound) {
			return nil, fmt.Errorf("failed to look up existing link: %w", err)
		}
	}

	link := &domain.Link{
		UserID:      userID,
		OriginalURL: originalURL,
		ExpiresAt:   expiresAt,
	}

	if customAlias != nil && *customAlias != "" {
		exists, err := s.storage.CodeExists(ctx, *customAlias)
		if err != nil {
			return nil, fmt.Errorf("failed to check custom alias existence: %w", err)
		}
		if exists {
			return nil, repository.ErrAliasExists
		}
		link.CustomAlias = customAlias
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}
	link.ShortCode = code

	if err := s.storage.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	return link, nil
}

// generateCode draws random short codes until one is free.
func (s *URLShortenerService) generateCode(ctx context.Context) (string, error) {
	var code string
	for i := 0; i < maxRetries; i++ {
		var err error
		code, err = random.NewRandomString(s.config.CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}
		exists, err := s.storage.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code existence: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique short code after %d attempts", maxRetries)
}
