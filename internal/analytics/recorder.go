package analytics

import (
	"Linklytics-Backend/internal/clientinfo"
	"Linklytics-Backend/internal/domain"
	"Linklytics-Backend/internal/geo"
	"Linklytics-Backend/internal/repository"
	"Linklytics-Backend/pkg/useragent"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ClickJob carries the raw facts of one successful redirect to the
// background workers.
type ClickJob struct {
	LinkID    int64
	ClickedAt time.Time
	Client    clientinfo.Context
}

// Config holds configuration for the analytics recorder.
type Config struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     3,
		BufferSize:      1000,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Recorder persists analytics records out-of-band from the redirect path.
//
// This is the only fire-and-forget boundary in the service: Submit never
// blocks the caller, and every failure inside a worker is logged and
// dropped. A lost record must never delay or fail a redirect.
type Recorder struct {
	config   Config
	storage  repository.Storage
	parser   *useragent.Parser
	geo      geo.Resolver
	log      *zap.Logger
	jobQueue chan *ClickJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	stopped  bool
	mu       sync.RWMutex
}

// NewRecorder creates a new analytics recorder.
func NewRecorder(storage repository.Storage, parser *useragent.Parser, geoResolver geo.Resolver, log *zap.Logger, config Config) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		config:   config,
		storage:  storage,
		parser:   parser,
		geo:      geoResolver,
		log:      log,
		jobQueue: make(chan *ClickJob, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker goroutines.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started || r.stopped {
		return fmt.Errorf("recorder already started")
	}

	r.log.Info("starting analytics recorder",
		zap.Int("workers", r.config.WorkerCount),
		zap.Int("buffer_size", r.config.BufferSize),
	)

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	return nil
}

// Stop gracefully shuts down the recorder, draining queued jobs until the
// shutdown timeout elapses.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return fmt.Errorf("recorder not started")
	}

	// Mark stopped before closing the queue so a concurrent or later
	// Submit errors out instead of sending on a closed channel.
	r.stopped = true
	r.log.Info("stopping analytics recorder")
	close(r.jobQueue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info("analytics recorder stopped gracefully")
	case <-time.After(r.config.ShutdownTimeout):
		r.cancel()
		r.log.Warn("analytics recorder shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	return nil
}

// Submit hands a click to the workers without blocking. A full queue drops
// the job; the caller is never delayed by analytics.
func (r *Recorder) Submit(job *ClickJob) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started || r.stopped {
		return fmt.Errorf("recorder not started")
	}

	select {
	case r.jobQueue <- job:
		r.log.Debug("click submitted for processing", zap.Int64("link_id", job.LinkID))
		return nil
	default:
		r.log.Error("analytics queue is full, dropping click",
			zap.Int64("link_id", job.LinkID),
			zap.Int("queue_size", len(r.jobQueue)),
		)
		return fmt.Errorf("analytics queue is full")
	}
}

// worker drains the job queue until it is closed.
func (r *Recorder) worker(workerID int) {
	defer r.wg.Done()

	log := r.log.With(zap.Int("worker_id", workerID))
	log.Info("analytics worker started")

	for job := range r.jobQueue {
		// Best-effort: errors are logged and the record is dropped,
		// never retried.
		if err := r.process(job); err != nil {
			log.Warn("failed to record click",
				zap.Int64("link_id", job.LinkID),
				zap.Error(err),
			)
		}
	}

	log.Info("analytics worker stopped")
}

// process assembles and persists one analytics record.
func (r *Recorder) process(job *ClickJob) error {
	record := r.buildRecord(job)

	ctx, cancel := context.WithTimeout(r.ctx, 30*time.Second)
	defer cancel()

	if err := r.storage.SaveAnalyticsRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to save analytics record: %w", err)
	}

	r.log.Debug("click recorded",
		zap.Int64("link_id", job.LinkID),
		zap.String("device_type", record.DeviceType),
		zap.String("country", record.Country),
	)
	return nil
}

// buildRecord composes client context, device classification and
// geolocation into one record, applying the sentinel defaults.
func (r *Recorder) buildRecord(job *ClickJob) *domain.AnalyticsRecord {
	device := r.parser.ParseUserAgent(job.Client.UserAgent)

	record := &domain.AnalyticsRecord{
		LinkID:         job.LinkID,
		ClickedAt:      job.ClickedAt,
		IP:             orUnknown(job.Client.IP),
		UserAgent:      orUnknown(job.Client.UserAgent),
		Referer:        orDefault(job.Client.Referer, clientinfo.DirectReferer),
		DeviceType:     orUnknown(device.DeviceType),
		DeviceVendor:   orUnknown(device.Vendor),
		DeviceModel:    orUnknown(device.Model),
		Browser:        orDefault(device.Browser, useragent.OtherClient),
		BrowserVersion: orUnknown(device.BrowserVersion),
		OS:             orDefault(device.OS, useragent.OtherClient),
		OSVersion:      orUnknown(device.OSVersion),
		Country:        useragent.Unknown,
		CountryCode:    useragent.Unknown,
		Region:         useragent.Unknown,
		City:           useragent.Unknown,
		Timezone:       useragent.Unknown,
		EU:             "No",
	}

	if facts := r.geo.Lookup(job.Client.IP); facts != nil {
		record.Country = orUnknown(facts.Country)
		record.CountryCode = orUnknown(facts.CountryCode)
		record.Region = orUnknown(facts.Region)
		record.City = orUnknown(facts.City)
		record.Latitude = facts.Latitude
		record.Longitude = facts.Longitude
		record.Timezone = orUnknown(facts.Timezone)
		record.MetroCode = facts.MetroCode
		if facts.IsEU {
			record.EU = "Yes"
		}
	}

	return record
}

// Stats returns queue statistics for the health endpoints.
func (r *Recorder) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]interface{}{
		"started":        r.started && !r.stopped,
		"queue_length":   len(r.jobQueue),
		"queue_capacity": cap(r.jobQueue),
		"worker_count":   r.config.WorkerCount,
	}
}

func orUnknown(s string) string {
	return orDefault(s, useragent.Unknown)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
