package txtimer

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	DefaultWarning          = 160 * time.Second // 2 minutes 40 seconds
	DefaultDuration         = 180 * time.Second // 3 minutes
	DefaultWarningFrequency = 440
	DefaultExpiryFrequency  = 600
	DefaultToneDuration     = 300 * time.Millisecond
)

// Beeper emits a tone of the given frequency (Hz) and length
type Beeper interface {
	Beep(frequency int, duration time.Duration) error
}

// Config holds the countdown offsets and tones
type Config struct {
	Warning          time.Duration // offset of the early-warning tone
	Duration         time.Duration // offset of the expiry tone
	WarningFrequency int
	ExpiryFrequency  int
	ToneDuration     time.Duration
}

// DefaultConfig returns the 3-minute transmission timer settings
func DefaultConfig() Config {
	return Config{
		Warning:          DefaultWarning,
		Duration:         DefaultDuration,
		WarningFrequency: DefaultWarningFrequency,
		ExpiryFrequency:  DefaultExpiryFrequency,
		ToneDuration:     DefaultToneDuration,
	}
}

// Service runs at most one countdown at a time. The tone sequence runs on
// its own goroutine so arming never blocks the caller.
type Service struct {
	config Config
	beeper Beeper
	logger *log.Logger

	mu         sync.Mutex
	armed      bool
	generation uint64
	startTime  time.Time
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a timer service. Invalid offsets fall back to defaults.
func New(config Config, beeper Beeper, logger *log.Logger) *Service {
	defaults := DefaultConfig()
	if config.Duration <= 0 {
		config.Duration = defaults.Duration
	}
	if config.Warning <= 0 || config.Warning > config.Duration {
		// keep the 160/180 ratio
		config.Warning = config.Duration / 9 * 8
	}
	if config.WarningFrequency <= 0 {
		config.WarningFrequency = defaults.WarningFrequency
	}
	if config.ExpiryFrequency <= 0 {
		config.ExpiryFrequency = defaults.ExpiryFrequency
	}
	if config.ToneDuration <= 0 {
		config.ToneDuration = defaults.ToneDuration
	}

	return &Service{
		config: config,
		beeper: beeper,
		logger: logger,
	}
}

// Config returns the settings in effect
func (s *Service) Config() Config {
	return s.config
}

// Arm starts a countdown. It returns false and does nothing when a
// countdown is already running.
func (s *Service) Arm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.armed = true
	s.generation++
	s.startTime = time.Now()
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx, s.generation)

	s.logf("Timer armed (warning %v, expiry %v)", s.config.Warning, s.config.Duration)
	return true
}

// Stop cancels the running countdown. No tone fires after Stop returns
// true. It returns false when nothing was armed.
func (s *Service) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return false
	}
	s.cancel()
	s.armed = false
	s.cancel = nil
	s.logf("Timer stopped")
	return true
}

// Armed reports whether a countdown is running
func (s *Service) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Remaining returns the time left until the expiry tone, or zero
func (s *Service) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return 0
	}
	remaining := s.config.Duration - time.Since(s.startTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Wait blocks until every tone sequence started so far has finished
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, generation uint64) {
	defer s.wg.Done()
	defer s.finish(generation)

	if !sleep(ctx, s.config.Warning) {
		return
	}
	s.beep(ctx, s.config.WarningFrequency)

	if !sleep(ctx, s.config.Duration-s.config.Warning) {
		return
	}
	s.beep(ctx, s.config.ExpiryFrequency)
}

// finish clears the armed flag unless a newer countdown owns it
func (s *Service) finish(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation || !s.armed {
		return
	}
	s.armed = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.logf("Timer expired")
}

func (s *Service) beep(ctx context.Context, frequency int) {
	// hold the lock so Stop cannot slip between the check and the tone
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.beeper == nil {
		return
	}
	if err := s.beeper.Beep(frequency, s.config.ToneDuration); err != nil {
		s.logf("Tone %d Hz failed: %v", frequency, err)
	}
}

// sleep waits for d and reports false if ctx was cancelled first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
