package txtimer

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"
)

type tone struct {
	frequency int
	duration  time.Duration
	at        time.Time
}

type recordingBeeper struct {
	mu    sync.Mutex
	tones []tone
	err   error
}

func (r *recordingBeeper) Beep(frequency int, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, tone{frequency, duration, time.Now()})
	return r.err
}

func (r *recordingBeeper) recorded() []tone {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tone, len(r.tones))
	copy(out, r.tones)
	return out
}

func shortConfig() Config {
	return Config{
		Warning:          40 * time.Millisecond,
		Duration:         60 * time.Millisecond,
		WarningFrequency: 440,
		ExpiryFrequency:  600,
		ToneDuration:     300 * time.Millisecond,
	}
}

func TestService_ToneSequence(t *testing.T) {
	beeper := &recordingBeeper{}
	s := New(shortConfig(), beeper, nil)

	start := time.Now()
	if !s.Arm() {
		t.Fatal("Arm() = false on idle timer")
	}
	if !s.Armed() {
		t.Error("Armed() = false right after Arm()")
	}
	s.Wait()

	tones := beeper.recorded()
	if len(tones) != 2 {
		t.Fatalf("got %d tones, want 2", len(tones))
	}
	if tones[0].frequency != 440 || tones[1].frequency != 600 {
		t.Errorf("frequencies = %d, %d, want 440, 600", tones[0].frequency, tones[1].frequency)
	}
	if tones[0].duration != 300*time.Millisecond {
		t.Errorf("tone duration = %v, want 300ms", tones[0].duration)
	}
	if d := tones[0].at.Sub(start); d < 40*time.Millisecond {
		t.Errorf("warning tone after %v, want >= 40ms", d)
	}
	if d := tones[1].at.Sub(start); d < 60*time.Millisecond {
		t.Errorf("expiry tone after %v, want >= 60ms", d)
	}
	if s.Armed() {
		t.Error("Armed() = true after the sequence finished")
	}
}

func TestService_RearmWhileArmedIsNoop(t *testing.T) {
	beeper := &recordingBeeper{}
	s := New(shortConfig(), beeper, nil)

	if !s.Arm() {
		t.Fatal("first Arm() = false")
	}
	for i := 0; i < 5; i++ {
		if s.Arm() {
			t.Fatalf("Arm() #%d = true while armed", i+2)
		}
	}
	s.Wait()

	if n := len(beeper.recorded()); n != 2 {
		t.Errorf("got %d tones, want 2", n)
	}

	// idle again, so arming works
	if !s.Arm() {
		t.Error("Arm() = false after the countdown finished")
	}
	s.Wait()
	if n := len(beeper.recorded()); n != 4 {
		t.Errorf("got %d tones after second run, want 4", n)
	}
}

func TestService_ConcurrentArm(t *testing.T) {
	s := New(shortConfig(), &recordingBeeper{}, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Arm() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Wait()

	if wins != 1 {
		t.Errorf("%d callers armed the timer, want 1", wins)
	}
}

func TestService_Stop(t *testing.T) {
	beeper := &recordingBeeper{}
	s := New(shortConfig(), beeper, nil)

	if s.Stop() {
		t.Error("Stop() = true on idle timer")
	}

	s.Arm()
	if !s.Stop() {
		t.Fatal("Stop() = false on armed timer")
	}
	if s.Armed() {
		t.Error("Armed() = true after Stop()")
	}
	s.Wait()

	if n := len(beeper.recorded()); n != 0 {
		t.Errorf("got %d tones after Stop(), want 0", n)
	}
}

func TestService_StopAfterWarning(t *testing.T) {
	beeper := &recordingBeeper{}
	cfg := shortConfig()
	cfg.Warning = 10 * time.Millisecond
	cfg.Duration = 500 * time.Millisecond
	s := New(cfg, beeper, nil)

	s.Arm()
	deadline := time.Now().Add(time.Second)
	for len(beeper.recorded()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	s.Wait()

	tones := beeper.recorded()
	if len(tones) != 1 || tones[0].frequency != 440 {
		t.Errorf("tones = %+v, want only the warning tone", tones)
	}
}

func TestService_StopThenRearm(t *testing.T) {
	beeper := &recordingBeeper{}
	s := New(shortConfig(), beeper, nil)

	s.Arm()
	s.Stop()
	if !s.Arm() {
		t.Fatal("Arm() = false after Stop()")
	}
	s.Wait()

	if n := len(beeper.recorded()); n != 2 {
		t.Errorf("got %d tones, want 2 from the second countdown", n)
	}
	if s.Armed() {
		t.Error("Armed() = true after second countdown finished")
	}
}

func TestService_Remaining(t *testing.T) {
	cfg := shortConfig()
	cfg.Duration = time.Second
	cfg.Warning = 900 * time.Millisecond
	s := New(cfg, &recordingBeeper{}, nil)

	if s.Remaining() != 0 {
		t.Errorf("Remaining() = %v on idle timer", s.Remaining())
	}
	s.Arm()
	if r := s.Remaining(); r <= 0 || r > time.Second {
		t.Errorf("Remaining() = %v, want (0, 1s]", r)
	}
	s.Stop()
	s.Wait()
}

func TestService_BeepErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	beeper := &recordingBeeper{err: errors.New("no audio device")}
	s := New(shortConfig(), beeper, log.New(&buf, "", 0))

	s.Arm()
	s.Wait()

	if n := len(beeper.recorded()); n != 2 {
		t.Errorf("got %d tones, want 2 despite errors", n)
	}
	if !strings.Contains(buf.String(), "Tone 440 Hz failed: no audio device") {
		t.Errorf("log missing tone failure:\n%s", buf.String())
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{}, nil, nil)
	cfg := s.Config()
	if cfg != DefaultConfig() {
		t.Errorf("Config() = %+v, want %+v", cfg, DefaultConfig())
	}

	s = New(Config{Duration: 9 * time.Second, Warning: 20 * time.Second}, nil, nil)
	if got := s.Config().Warning; got != 8*time.Second {
		t.Errorf("Warning = %v, want 8s", got)
	}
}

func TestBellBeeper(t *testing.T) {
	var out, logs bytes.Buffer
	b := &BellBeeper{Out: &out, Logger: log.New(&logs, "", 0)}

	if err := b.Beep(440, 300*time.Millisecond); err != nil {
		t.Fatalf("Beep() error = %v", err)
	}
	if out.String() != "\a" {
		t.Errorf("output = %q, want bell", out.String())
	}
	if !strings.Contains(logs.String(), "Tone 440 Hz for 300ms") {
		t.Errorf("log = %q", logs.String())
	}
}
