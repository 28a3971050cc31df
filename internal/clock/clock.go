package clock

import (
	"fmt"
	"time"
)

// Speaker delivers a spoken message to the user
type Speaker interface {
	Speak(message string)
}

// FormatUTC returns t in UTC as zero-padded HH:MM
func FormatUTC(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%02d:%02d", u.Hour(), u.Minute())
}

// Announcer speaks the current UTC time
type Announcer struct {
	speaker Speaker
	now     func() time.Time
}

// NewAnnouncer creates an announcer reading the wall clock. A nil now
// defaults to time.Now.
func NewAnnouncer(speaker Speaker, now func() time.Time) *Announcer {
	if now == nil {
		now = time.Now
	}
	return &Announcer{speaker: speaker, now: now}
}

// Announce speaks the current UTC time and returns the formatted HH:MM
func (a *Announcer) Announce() string {
	formatted := FormatUTC(a.now())
	if a.speaker != nil {
		a.speaker.Speak("The current UTC time is " + formatted)
	}
	return formatted
}
