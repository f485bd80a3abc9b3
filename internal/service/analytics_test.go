package service

import (
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/internal/repository/memory"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAndSort_CountsAndOrders(t *testing.T) {
	items := aggregateAndSort([]string{"US", "US", "FR", ""})

	require.Len(t, items, 3)
	assert.Equal(t, AnalyticItem{Name: "US", Count: 2}, items[0])
	assert.Equal(t, AnalyticItem{Name: "FR", Count: 1}, items[1])
	assert.Equal(t, AnalyticItem{Name: "Unknown", Count: 1}, items[2])
}

func TestAggregateAndSort_TiesKeepFirstSeenOrder(t *testing.T) {
	items := aggregateAndSort([]string{"b", "a", "c", "a"})

	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)
	assert.Equal(t, "c", items[2].Name)
}

func TestAggregateAndSort_TopTen(t *testing.T) {
	var values []string
	for i := 0; i < 15; i++ {
		// value i appears i+1 times
		for j := 0; j <= i; j++ {
			values = append(values, fmt.Sprintf("ref-%d", i))
		}
	}

	items := aggregateAndSort(values)

	require.Len(t, items, 10)
	assert.Equal(t, "ref-14", items[0].Name)
	assert.Equal(t, 15, items[0].Count)
	assert.Equal(t, "ref-5", items[9].Name)
}

func TestAggregateComposite_BrowserVersions(t *testing.T) {
	items := aggregateComposite([]nameVersion{
		{"Chrome", "100"},
		{"Chrome", "100"},
		{"Chrome", "101"},
	})

	require.Len(t, items, 2)
	assert.Equal(t, AnalyticItem{Name: "Chrome 100", Count: 2}, items[0])
	assert.Equal(t, AnalyticItem{Name: "Chrome 101", Count: 1}, items[1])
}

func TestAggregateComposite_EmptyVersionOmitted(t *testing.T) {
	items := aggregateComposite([]nameVersion{{"Safari", ""}, {"", "10"}})

	require.Len(t, items, 2)
	assert.Equal(t, "Safari", items[0].Name)
	assert.Equal(t, "Unknown 10", items[1].Name)
}

func seedLink(t *testing.T, storage *memory.MemStorage) *domain.Link {
	t.Helper()
	link := &domain.Link{UserID: 1, OriginalURL: "https://example.com", ShortCode: "abc12345"}
	require.NoError(t, storage.SaveLink(context.Background(), link))
	return link
}

func TestLinkAnalytics_UnknownLink(t *testing.T) {
	svc := NewAnalyticsService(memory.New())

	_, err := svc.LinkAnalytics(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestLinkAnalytics_ZeroRecords(t *testing.T) {
	storage := memory.New()
	link := seedLink(t, storage)
	svc := NewAnalyticsService(storage)

	got, err := svc.LinkAnalytics(context.Background(), link.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Clicks)
	assert.Empty(t, got.Referrers)
	assert.Empty(t, got.Countries)
	assert.Empty(t, got.Browsers)
	assert.Empty(t, got.OperatingSystems)
	assert.Empty(t, got.DeviceTypes)
}

func TestLinkAnalytics_FullBreakdown(t *testing.T) {
	storage := memory.New()
	link := seedLink(t, storage)
	svc := NewAnalyticsService(storage)

	records := []*domain.AnalyticsRecord{
		{LinkID: link.ID, Referer: "Direct", Country: "US", DeviceType: "desktop", Browser: "Chrome", BrowserVersion: "100", OS: "Windows", OSVersion: "10"},
		{LinkID: link.ID, Referer: "Direct", Country: "US", DeviceType: "mobile", Browser: "Chrome", BrowserVersion: "100", OS: "Android", OSVersion: "14"},
		{LinkID: link.ID, Referer: "https://news.ycombinator.com/", Country: "FR", DeviceType: "desktop", Browser: "Chrome", BrowserVersion: "101", OS: "Windows", OSVersion: "10"},
	}
	for _, rec := range records {
		rec.ClickedAt = time.Now()
		require.NoError(t, storage.SaveAnalyticsRecord(context.Background(), rec))
	}

	got, err := svc.LinkAnalytics(context.Background(), link.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.Clicks)
	assert.Equal(t, AnalyticItem{Name: "Direct", Count: 2}, got.Referrers[0])
	assert.Equal(t, AnalyticItem{Name: "US", Count: 2}, got.Countries[0])
	assert.Equal(t, AnalyticItem{Name: "Chrome 100", Count: 2}, got.Browsers[0])
	assert.Equal(t, AnalyticItem{Name: "Chrome 101", Count: 1}, got.Browsers[1])
	assert.Equal(t, AnalyticItem{Name: "Windows 10", Count: 2}, got.OperatingSystems[0])
	assert.Equal(t, AnalyticItem{Name: "desktop", Count: 2}, got.DeviceTypes[0])
}
