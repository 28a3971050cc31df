package radioid

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jpavonabian/AMRadio-Addon/internal/database"
)

const (
	// DefaultURL serves the full RadioID.net user list
	DefaultURL = "https://radioid.net/static/user.csv"

	// DefaultSyncInterval is how often Start refreshes the list
	DefaultSyncInterval = 24 * time.Hour

	// RequestTimeout for HTTP requests
	RequestTimeout = 60 * time.Second

	// MaxRetries for failed downloads
	MaxRetries = 3

	// RetryDelay between retry attempts
	RetryDelay = 5 * time.Second
)

// ErrEmptyList is returned when a download holds no usable records
var ErrEmptyList = errors.New("no valid operators found in CSV")

// Store receives parsed operator records
type Store interface {
	UpsertBatch(ops []database.Operator) (int, error)
}

// Syncer keeps the local operator table in step with RadioID.net
type Syncer struct {
	store        Store
	logger       *log.Logger
	url          string
	syncInterval time.Duration
	retryDelay   time.Duration
	maxRetries   int
	httpClient   *http.Client
}

// SyncerConfig holds configuration for the syncer. Zero values take defaults.
type SyncerConfig struct {
	URL          string
	SyncInterval time.Duration
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// NewSyncer creates a RadioID syncer
func NewSyncer(store Store, logger *log.Logger, config SyncerConfig) *Syncer {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.SyncInterval <= 0 {
		config.SyncInterval = DefaultSyncInterval
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = RequestTimeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = MaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryDelay
	}

	return &Syncer{
		store:        store,
		logger:       logger,
		url:          config.URL,
		syncInterval: config.SyncInterval,
		retryDelay:   config.RetryDelay,
		maxRetries:   config.MaxRetries,
		httpClient: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Start syncs once, then again every interval until ctx is done
func (s *Syncer) Start(ctx context.Context) {
	s.logf("RadioID syncer starting (interval: %v)", s.syncInterval)

	if _, err := s.SyncNow(ctx); err != nil {
		s.logf("Initial RadioID sync failed: %v", err)
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logf("RadioID syncer stopping")
			return

		case <-ticker.C:
			if _, err := s.SyncNow(ctx); err != nil {
				s.logf("RadioID sync failed: %v", err)
			}
		}
	}
}

// SyncNow downloads the list and stores it, returning how many operators
// were stored
func (s *Syncer) SyncNow(ctx context.Context) (int, error) {
	startTime := time.Now()
	s.logf("Starting RadioID sync from %s", s.url)

	var body io.ReadCloser
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		body, err = s.download(ctx)
		if err == nil {
			break
		}
		s.logf("Download attempt %d/%d failed: %v", attempt, s.maxRetries, err)

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to download after %d attempts: %w", s.maxRetries, err)
	}
	defer body.Close()

	ops, err := s.parseCSV(body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(ops) == 0 {
		return 0, ErrEmptyList
	}

	stored, err := s.store.UpsertBatch(ops)
	if err != nil {
		return 0, fmt.Errorf("failed to import operators: %w", err)
	}

	s.logf("RadioID sync completed: %d operators imported in %v", stored, time.Since(startTime))
	return stored, nil
}

func (s *Syncer) download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "AMRadio-Addon/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}

// parseCSV reads RADIO_ID,CALLSIGN,FIRST_NAME,LAST_NAME,CITY,STATE,COUNTRY
// rows after a header line. Bad rows are logged and skipped.
func (s *Syncer) parseCSV(r io.Reader) ([]database.Operator, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var ops []database.Operator
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", line, err)
		}
		if line == 1 {
			continue
		}

		op, err := parseRecord(record)
		if err != nil {
			s.logf("Skipping invalid record at line %d: %v", line, err)
			continue
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseRecord(record []string) (database.Operator, error) {
	if len(record) < 7 {
		return database.Operator{}, fmt.Errorf("insufficient fields (got %d, expected 7)", len(record))
	}

	idStr := strings.TrimSpace(record[0])
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return database.Operator{}, fmt.Errorf("invalid radio ID %q: %w", idStr, err)
	}

	op := database.Operator{
		RadioID:   uint32(id),
		Callsign:  record[1],
		FirstName: record[2],
		LastName:  record[3],
		City:      record[4],
		State:     record[5],
		Country:   record[6],
	}
	op.Normalize()
	if !op.IsValid() {
		return database.Operator{}, fmt.Errorf("radio ID and callsign are required")
	}
	return op, nil
}

func (s *Syncer) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
