package txtimer

import (
	"fmt"
	"io"
	"log"
	"time"
)

// BellBeeper rings the terminal bell. Terminals cannot vary the pitch, so
// the frequency only shows up in the log line.
type BellBeeper struct {
	Out    io.Writer
	Logger *log.Logger
}

// Beep writes a BEL character to Out
func (b *BellBeeper) Beep(frequency int, duration time.Duration) error {
	if b.Logger != nil {
		b.Logger.Printf("Tone %d Hz for %v", frequency, duration)
	}
	if b.Out == nil {
		return nil
	}
	if _, err := io.WriteString(b.Out, "\a"); err != nil {
		return fmt.Errorf("write bell: %w", err)
	}
	return nil
}
