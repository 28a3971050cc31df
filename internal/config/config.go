package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the add-on configuration
type Config struct {
	filename string

	// Directory section
	directoryURL       string
	directoryTimeout   uint32 // seconds
	directoryUserAgent string

	// Timer section
	timerWarning          uint32 // seconds
	timerDuration         uint32 // seconds
	timerWarningFrequency uint32
	timerExpiryFrequency  uint32
	timerToneDuration     uint32 // milliseconds

	// Stream section
	streamURL string

	// Database section (local RadioID operator list)
	databaseEnabled   bool
	databasePath      string
	databaseSyncHours uint32
	databaseSyncURL   string

	// Log section
	logFilePath string
	logDebug    bool
}

// NewConfig creates a new configuration instance
func NewConfig(filename string) *Config {
	return &Config{
		filename: filename,

		directoryURL:     "https://www.qrz.com/db/%s",
		directoryTimeout: 10,

		timerWarning:          160,
		timerDuration:         180,
		timerWarningFrequency: 440,
		timerExpiryFrequency:  600,
		timerToneDuration:     300,

		streamURL: "https://hose.brandmeister.network/",

		databaseEnabled:   false,
		databasePath:      "data/dmr_operators.db",
		databaseSyncHours: 24,
		databaseSyncURL:   "https://radioid.net/static/user.csv",
	}
}

// Load loads configuration from the specified file
func (c *Config) Load() error {
	file, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", c.filename, err)
	}
	defer file.Close()

	return c.parseINI(file)
}

// LoadFromString loads configuration from a string (useful for testing)
func (c *Config) LoadFromString(data string) error {
	return c.parseINI(strings.NewReader(data))
}

// Filename returns the file the configuration was created for
func (c *Config) Filename() string { return c.filename }

func (c *Config) parseINI(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' && line[len(line)-1] == ']' {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Directory":
			c.parseDirectorySection(key, value)
		case "Timer":
			c.parseTimerSection(key, value)
		case "Stream":
			c.parseStreamSection(key, value)
		case "Database":
			c.parseDatabaseSection(key, value)
		case "Log":
			c.parseLogSection(key, value)
		}
	}

	return scanner.Err()
}

func (c *Config) parseDirectorySection(key, value string) {
	switch key {
	case "URL":
		c.directoryURL = value
	case "Timeout":
		c.parseUint(value, &c.directoryTimeout)
	case "UserAgent":
		c.directoryUserAgent = value
	}
}

func (c *Config) parseTimerSection(key, value string) {
	switch key {
	case "Warning":
		c.parseUint(value, &c.timerWarning)
	case "Duration":
		c.parseUint(value, &c.timerDuration)
	case "WarningFrequency":
		c.parseUint(value, &c.timerWarningFrequency)
	case "ExpiryFrequency":
		c.parseUint(value, &c.timerExpiryFrequency)
	case "ToneDuration":
		c.parseUint(value, &c.timerToneDuration)
	}
}

func (c *Config) parseStreamSection(key, value string) {
	switch key {
	case "URL":
		c.streamURL = value
	}
}

func (c *Config) parseDatabaseSection(key, value string) {
	switch key {
	case "Enabled":
		c.databaseEnabled = c.parseBool(value)
	case "Path":
		c.databasePath = value
	case "SyncHours":
		c.parseUint(value, &c.databaseSyncHours)
	case "SyncURL":
		c.databaseSyncURL = value
	}
}

func (c *Config) parseLogSection(key, value string) {
	switch key {
	case "FilePath":
		c.logFilePath = value
	case "Debug":
		c.logDebug = c.parseBool(value)
	}
}

// parseUint stores value in dst when it is a valid unsigned number
func (c *Config) parseUint(value string, dst *uint32) {
	if v, err := strconv.ParseUint(value, 10, 32); err == nil {
		*dst = uint32(v)
	}
}

func (c *Config) parseBool(value string) bool {
	return value == "1" || strings.ToLower(value) == "true" || strings.ToLower(value) == "yes"
}

// Getter methods for Directory section
func (c *Config) GetDirectoryURL() string       { return c.directoryURL }
func (c *Config) GetDirectoryUserAgent() string { return c.directoryUserAgent }
func (c *Config) GetDirectoryTimeout() time.Duration {
	return time.Duration(c.directoryTimeout) * time.Second
}

// Getter methods for Timer section
func (c *Config) GetTimerWarning() time.Duration  { return time.Duration(c.timerWarning) * time.Second }
func (c *Config) GetTimerDuration() time.Duration { return time.Duration(c.timerDuration) * time.Second }
func (c *Config) GetTimerWarningFrequency() int   { return int(c.timerWarningFrequency) }
func (c *Config) GetTimerExpiryFrequency() int    { return int(c.timerExpiryFrequency) }
func (c *Config) GetTimerToneDuration() time.Duration {
	return time.Duration(c.timerToneDuration) * time.Millisecond
}

// Getter methods for Stream section
func (c *Config) GetStreamURL() string { return c.streamURL }

// Getter methods for Database section
func (c *Config) GetDatabaseEnabled() bool { return c.databaseEnabled }
func (c *Config) GetDatabasePath() string  { return c.databasePath }
func (c *Config) GetDatabaseSyncURL() string {
	return c.databaseSyncURL
}
func (c *Config) GetDatabaseSyncInterval() time.Duration {
	return time.Duration(c.databaseSyncHours) * time.Hour
}

// Getter methods for Log section
func (c *Config) GetLogFilePath() string { return c.logFilePath }
func (c *Config) GetLogDebug() bool      { return c.logDebug }
