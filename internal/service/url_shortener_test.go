package service

import (
	"Linklytics-Backend/internal/config"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShortener(storage repository.Storage) *URLShortenerService {
	return NewURLShortener(storage, &config.URLShortener{CodeLength: 8})
}

func TestShorten_GeneratesEightCharCode(t *testing.T) {
	svc := newShortener(memory.New())

	link, err := svc.Shorten(context.Background(), 1, "https://example.com", nil, nil)
	require.NoError(t, err)

	assert.Len(t, link.ShortCode, 8)
	assert.Equal(t, "https://example.com", link.OriginalURL)
	assert.Equal(t, int64(1), link.UserID)
}

func TestShorten_IdempotentPerOwnerAndURL(t *testing.T) {
	svc := newShortener(memory.New())
	ctx := context.Background()

	first, err := svc.Shorten(ctx, 1, "https://example.com", nil, nil)
	require.NoError(t, err)

	second, err := svc.Shorten(ctx, 1, "https://example.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ShortCode, second.ShortCode)

	// A different owner shortening the same URL gets a fresh link.
	other, err := svc.Shorten(ctx, 2, "https://example.com", nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.NotEqual(t, first.ShortCode, other.ShortCode)
}

func TestShorten_CustomAlias(t *testing.T) {
	svc := newShortener(memory.New())
	ctx := context.Background()

	alias := "my-link"
	link, err := svc.Shorten(ctx, 1, "https://example.com", &alias, nil)
	require.NoError(t, err)
	require.NotNil(t, link.CustomAlias)
	assert.Equal(t, alias, *link.CustomAlias)

	// The alias is taken now, even for another URL.
	_, err = svc.Shorten(ctx, 1, "https://example.org", &alias, nil)
	assert.ErrorIs(t, err, repository.ErrAliasExists)
}
