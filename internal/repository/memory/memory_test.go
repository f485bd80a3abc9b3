package memory

import (
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	storage := New()
	ctx := context.Background()

	_, err := storage.CreateUser(ctx, "first", "user@example.com", "hash")
	require.NoError(t, err)

	_, err = storage.CreateUser(ctx, "second", "user@example.com", "hash")
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestSaveLink_DuplicateAlias(t *testing.T) {
	storage := New()
	ctx := context.Background()
	alias := "my-alias"

	require.NoError(t, storage.SaveLink(ctx, &domain.Link{
		UserID: 1, OriginalURL: "https://a.example.com", ShortCode: "aaaaaaaa", CustomAlias: &alias,
	}))

	err := storage.SaveLink(ctx, &domain.Link{
		UserID: 2, OriginalURL: "https://b.example.com", ShortCode: "bbbbbbbb", CustomAlias: &alias,
	})
	assert.ErrorIs(t, err, repository.ErrAliasExists)
}

func TestResolveLink_ByCodeAndAlias(t *testing.T) {
	storage := New()
	ctx := context.Background()
	alias := "promo"

	link := &domain.Link{UserID: 1, OriginalURL: "https://example.com", ShortCode: "abc12345", CustomAlias: &alias}
	require.NoError(t, storage.SaveLink(ctx, link))

	byCode, err := storage.ResolveLink(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", byCode.OriginalURL)

	byAlias, err := storage.ResolveLink(ctx, "promo")
	require.NoError(t, err)
	assert.Equal(t, link.ID, byAlias.ID)
	assert.Equal(t, int64(2), byAlias.ClickCount)
}

func TestResolveLink_Expired(t *testing.T) {
	storage := New()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	require.NoError(t, storage.SaveLink(ctx, &domain.Link{
		UserID: 1, OriginalURL: "https://example.com", ShortCode: "expired1", ExpiresAt: &past,
	}))

	_, err := storage.ResolveLink(ctx, "expired1")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	// A failed resolve must not move the counter.
	links, err := storage.ListUserLinks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Zero(t, links[0].ClickCount)
}

func TestResolveLink_NotFoundLeavesCountersUntouched(t *testing.T) {
	storage := New()
	ctx := context.Background()

	link := &domain.Link{UserID: 1, OriginalURL: "https://example.com", ShortCode: "abc12345"}
	require.NoError(t, storage.SaveLink(ctx, link))

	_, err := storage.ResolveLink(ctx, "missing1")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	stored, err := storage.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ClickCount)
}

func TestResolveLink_ConcurrentIncrements(t *testing.T) {
	storage := New()
	ctx := context.Background()

	link := &domain.Link{UserID: 1, OriginalURL: "https://example.com", ShortCode: "abc12345"}
	require.NoError(t, storage.SaveLink(ctx, link))

	const resolvers = 100
	var wg sync.WaitGroup
	wg.Add(resolvers)
	for i := 0; i < resolvers; i++ {
		go func() {
			defer wg.Done()
			_, err := storage.ResolveLink(ctx, "abc12345")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := storage.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(resolvers), stored.ClickCount)
}

func TestUpdateLinkURL_OwnershipEnforced(t *testing.T) {
	storage := New()
	ctx := context.Background()

	link := &domain.Link{UserID: 1, OriginalURL: "https://old.example.com", ShortCode: "abc12345"}
	require.NoError(t, storage.SaveLink(ctx, link))

	_, err := storage.UpdateLinkURL(ctx, link.ID, 2, "https://new.example.com")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	updated, err := storage.UpdateLinkURL(ctx, link.ID, 1, "https://new.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", updated.OriginalURL)
}

func TestDeleteLink_OwnershipEnforced(t *testing.T) {
	storage := New()
	ctx := context.Background()

	link := &domain.Link{UserID: 1, OriginalURL: "https://example.com", ShortCode: "abc12345"}
	require.NoError(t, storage.SaveLink(ctx, link))

	assert.ErrorIs(t, storage.DeleteLink(ctx, link.ID, 2), repository.ErrLinkNotFound)
	require.NoError(t, storage.DeleteLink(ctx, link.ID, 1))

	_, err := storage.GetLinkByID(ctx, link.ID)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestListUserLinks_NewestFirst(t *testing.T) {
	storage := New()
	ctx := context.Background()

	older := &domain.Link{UserID: 1, OriginalURL: "https://a.example.com", ShortCode: "aaaaaaaa", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.Link{UserID: 1, OriginalURL: "https://b.example.com", ShortCode: "bbbbbbbb", CreatedAt: time.Now()}
	other := &domain.Link{UserID: 2, OriginalURL: "https://c.example.com", ShortCode: "cccccccc"}
	require.NoError(t, storage.SaveLink(ctx, older))
	require.NoError(t, storage.SaveLink(ctx, newer))
	require.NoError(t, storage.SaveLink(ctx, other))

	links, err := storage.ListUserLinks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, newer.ID, links[0].ID)
	assert.Equal(t, older.ID, links[1].ID)
}

func TestAnalyticsRecords_RoundTrip(t *testing.T) {
	storage := New()
	ctx := context.Background()

	require.NoError(t, storage.SaveAnalyticsRecord(ctx, &domain.AnalyticsRecord{LinkID: 7, Country: "United States"}))
	require.NoError(t, storage.SaveAnalyticsRecord(ctx, &domain.AnalyticsRecord{LinkID: 7, Country: "France"}))

	records, err := storage.ListAnalyticsByLink(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "United States", records[0].Country)

	empty, err := storage.ListAnalyticsByLink(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
