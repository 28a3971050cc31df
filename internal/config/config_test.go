package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_LoadFromFile(t *testing.T) {
	testConfig := `# AM Radio add-on
[Directory]
URL=https://example.com/db/%s
Timeout=5
UserAgent=TestAgent/1.0

[Timer]
Warning=100
Duration=120
WarningFrequency=500
ExpiryFrequency=700
ToneDuration=250

[Stream]
URL=https://example.com/hose

[Database]
Enabled=1
Path=/tmp/ops.db
SyncHours=12
SyncURL=https://example.com/user.csv

[Log]
FilePath=amradio.log
Debug=yes`

	path := filepath.Join(t.TempDir(), "amradio.ini")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	config := NewConfig(path)
	if err := config.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.GetDirectoryURL() != "https://example.com/db/%s" {
		t.Errorf("GetDirectoryURL() = %q", config.GetDirectoryURL())
	}
	if config.GetDirectoryTimeout() != 5*time.Second {
		t.Errorf("GetDirectoryTimeout() = %v, want 5s", config.GetDirectoryTimeout())
	}
	if config.GetDirectoryUserAgent() != "TestAgent/1.0" {
		t.Errorf("GetDirectoryUserAgent() = %q", config.GetDirectoryUserAgent())
	}

	if config.GetTimerWarning() != 100*time.Second {
		t.Errorf("GetTimerWarning() = %v, want 100s", config.GetTimerWarning())
	}
	if config.GetTimerDuration() != 120*time.Second {
		t.Errorf("GetTimerDuration() = %v, want 120s", config.GetTimerDuration())
	}
	if config.GetTimerWarningFrequency() != 500 || config.GetTimerExpiryFrequency() != 700 {
		t.Errorf("frequencies = %d, %d", config.GetTimerWarningFrequency(), config.GetTimerExpiryFrequency())
	}
	if config.GetTimerToneDuration() != 250*time.Millisecond {
		t.Errorf("GetTimerToneDuration() = %v", config.GetTimerToneDuration())
	}

	if config.GetStreamURL() != "https://example.com/hose" {
		t.Errorf("GetStreamURL() = %q", config.GetStreamURL())
	}

	if !config.GetDatabaseEnabled() {
		t.Error("GetDatabaseEnabled() = false, want true")
	}
	if config.GetDatabasePath() != "/tmp/ops.db" {
		t.Errorf("GetDatabasePath() = %q", config.GetDatabasePath())
	}
	if config.GetDatabaseSyncInterval() != 12*time.Hour {
		t.Errorf("GetDatabaseSyncInterval() = %v", config.GetDatabaseSyncInterval())
	}
	if config.GetDatabaseSyncURL() != "https://example.com/user.csv" {
		t.Errorf("GetDatabaseSyncURL() = %q", config.GetDatabaseSyncURL())
	}

	if config.GetLogFilePath() != "amradio.log" || !config.GetLogDebug() {
		t.Errorf("log = %q, %v", config.GetLogFilePath(), config.GetLogDebug())
	}
}

func TestConfig_Defaults(t *testing.T) {
	config := NewConfig("unused.ini")

	if config.GetDirectoryURL() != "https://www.qrz.com/db/%s" {
		t.Errorf("GetDirectoryURL() = %q", config.GetDirectoryURL())
	}
	if config.GetDirectoryTimeout() != 10*time.Second {
		t.Errorf("GetDirectoryTimeout() = %v, want 10s", config.GetDirectoryTimeout())
	}
	if config.GetTimerWarning() != 160*time.Second || config.GetTimerDuration() != 180*time.Second {
		t.Errorf("timer = %v / %v", config.GetTimerWarning(), config.GetTimerDuration())
	}
	if config.GetTimerWarningFrequency() != 440 || config.GetTimerExpiryFrequency() != 600 {
		t.Errorf("frequencies = %d, %d", config.GetTimerWarningFrequency(), config.GetTimerExpiryFrequency())
	}
	if config.GetTimerToneDuration() != 300*time.Millisecond {
		t.Errorf("GetTimerToneDuration() = %v", config.GetTimerToneDuration())
	}
	if config.GetStreamURL() != "https://hose.brandmeister.network/" {
		t.Errorf("GetStreamURL() = %q", config.GetStreamURL())
	}
	if config.GetDatabaseEnabled() {
		t.Error("database should be disabled by default")
	}
	if config.GetDatabaseSyncInterval() != 24*time.Hour {
		t.Errorf("GetDatabaseSyncInterval() = %v", config.GetDatabaseSyncInterval())
	}
}

func TestConfig_InvalidValuesKeepDefaults(t *testing.T) {
	config := NewConfig("")
	err := config.LoadFromString(`[Timer]
Warning=soon
Duration=-3
; comment
not a pair
[Unknown]
URL=ignored`)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if config.GetTimerWarning() != 160*time.Second {
		t.Errorf("GetTimerWarning() = %v, want default", config.GetTimerWarning())
	}
	if config.GetTimerDuration() != 180*time.Second {
		t.Errorf("GetTimerDuration() = %v, want default", config.GetTimerDuration())
	}
	if config.GetStreamURL() != "https://hose.brandmeister.network/" {
		t.Errorf("GetStreamURL() = %q", config.GetStreamURL())
	}
}

func TestConfig_MissingFile(t *testing.T) {
	config := NewConfig(filepath.Join(t.TempDir(), "missing.ini"))
	err := config.Load()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want ErrNotExist", err)
	}
}
