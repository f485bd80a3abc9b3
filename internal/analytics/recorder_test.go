package analytics

import (
	"Linklytics-Backend/internal/clientinfo"
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/geo"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/internal/repository/memory"
	"Linklytics-Backend/pkg/useragent"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// failingStorage breaks every analytics write while keeping the rest of the
// Storage behavior intact.
type failingStorage struct {
	*memory.MemStorage
}

func (s *failingStorage) SaveAnalyticsRecord(context.Context, *domain.AnalyticsRecord) error {
	return errors.New("store unreachable")
}

// staticGeo returns the same facts for every lookup.
type staticGeo struct {
	facts *geo.Facts
}

func (g staticGeo) Lookup(string) *geo.Facts {
	return g.facts
}

func newTestRecorder(t *testing.T, storage repository.Storage, geoResolver geo.Resolver) *Recorder {
	t.Helper()

	parser, err := useragent.NewParser("", zap.NewNop())
	require.NoError(t, err)

	return NewRecorder(storage, parser, geoResolver, zap.NewNop(), DefaultConfig())
}

func TestRecorder_BuildRecord_Defaults(t *testing.T) {
	r := newTestRecorder(t, memory.New(), geo.Disabled{})

	record := r.buildRecord(&ClickJob{
		LinkID:    1,
		ClickedAt: time.Now(),
		Client:    clientinfo.Context{IP: "", UserAgent: "", Referer: ""},
	})

	assert.Equal(t, "Unknown", record.IP)
	assert.Equal(t, "Unknown", record.UserAgent)
	assert.Equal(t, "Direct", record.Referer)
	assert.Equal(t, "Unknown", record.DeviceType)
	assert.Equal(t, "Unknown", record.DeviceVendor)
	assert.Equal(t, "Unknown", record.DeviceModel)
	assert.Equal(t, "Other", record.Browser)
	assert.Equal(t, "Other", record.OS)
	assert.Equal(t, "Unknown", record.Country)
	assert.Equal(t, "Unknown", record.City)
	assert.Equal(t, "No", record.EU)
	assert.Nil(t, record.Latitude)
	assert.Nil(t, record.Longitude)
	assert.Nil(t, record.MetroCode)
}

func TestRecorder_BuildRecord_GeoFacts(t *testing.T) {
	lat, lon := 48.8566, 2.3522
	r := newTestRecorder(t, memory.New(), staticGeo{facts: &geo.Facts{
		Country:     "France",
		CountryCode: "FR",
		Region:      "IDF",
		City:        "Paris",
		Latitude:    &lat,
		Longitude:   &lon,
		Timezone:    "Europe/Paris",
		IsEU:        true,
	}})

	record := r.buildRecord(&ClickJob{
		LinkID:    1,
		ClickedAt: time.Now(),
		Client:    clientinfo.Context{IP: "2.2.2.2", UserAgent: chromeUA, Referer: "https://example.com"},
	})

	assert.Equal(t, "France", record.Country)
	assert.Equal(t, "FR", record.CountryCode)
	assert.Equal(t, "Paris", record.City)
	assert.Equal(t, "Yes", record.EU)
	require.NotNil(t, record.Latitude)
	assert.InDelta(t, lat, *record.Latitude, 0.0001)
	assert.Equal(t, "Chrome", record.Browser)
	assert.Equal(t, "desktop", record.DeviceType)
}

func TestRecorder_PersistsRecord(t *testing.T) {
	storage := memory.New()
	r := newTestRecorder(t, storage, geo.Disabled{})
	require.NoError(t, r.Start())

	err := r.Submit(&ClickJob{
		LinkID:    42,
		ClickedAt: time.Now(),
		Client:    clientinfo.Context{IP: "1.1.1.1", UserAgent: chromeUA, Referer: "Direct"},
	})
	require.NoError(t, err)
	require.NoError(t, r.Stop())

	records, err := storage.ListAnalyticsByLink(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1.1.1.1", records[0].IP)
	assert.Equal(t, "Chrome", records[0].Browser)
}

func TestRecorder_StorageFailureIsSwallowed(t *testing.T) {
	r := newTestRecorder(t, &failingStorage{MemStorage: memory.New()}, geo.Disabled{})
	require.NoError(t, r.Start())

	// Submit must not surface the storage failure.
	err := r.Submit(&ClickJob{
		LinkID:    1,
		ClickedAt: time.Now(),
		Client:    clientinfo.Context{IP: "1.1.1.1"},
	})
	assert.NoError(t, err)
	assert.NoError(t, r.Stop())
}

// blockingStorage parks every analytics write until release is closed.
type blockingStorage struct {
	*memory.MemStorage
	release chan struct{}
}

func (s *blockingStorage) SaveAnalyticsRecord(context.Context, *domain.AnalyticsRecord) error {
	<-s.release
	return nil
}

func TestRecorder_SubmitAfterTimedOutStop(t *testing.T) {
	storage := &blockingStorage{MemStorage: memory.New(), release: make(chan struct{})}
	defer close(storage.release)

	parser, err := useragent.NewParser("", zap.NewNop())
	require.NoError(t, err)

	r := NewRecorder(storage, parser, geo.Disabled{}, zap.NewNop(), Config{
		WorkerCount:     1,
		BufferSize:      1,
		ShutdownTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, r.Start())

	// Park the single worker inside the storage write so Stop cannot drain.
	require.NoError(t, r.Submit(&ClickJob{LinkID: 1, ClickedAt: time.Now()}))
	require.Eventually(t, func() bool {
		return r.Stats()["queue_length"] == 0
	}, time.Second, 5*time.Millisecond)

	err = r.Stop()
	require.Error(t, err)

	// The queue is closed now; a late Submit must error out, never panic.
	assert.NotPanics(t, func() {
		err := r.Submit(&ClickJob{LinkID: 2, ClickedAt: time.Now()})
		assert.Error(t, err)
	})

	// A second Stop must not close the queue again.
	assert.NotPanics(t, func() {
		assert.Error(t, r.Stop())
	})
}

func TestRecorder_SubmitBeforeStart(t *testing.T) {
	r := newTestRecorder(t, memory.New(), geo.Disabled{})

	err := r.Submit(&ClickJob{LinkID: 1, ClickedAt: time.Now()})
	assert.Error(t, err)
}
