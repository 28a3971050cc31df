package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the text surface of the host runtime. Prompt and Show read
// from the shared input channel, so they may only run on the foreground
// goroutine; Speak is safe anywhere.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  <-chan string
}

// NewConsole writes to out and reads acknowledgements and answers from in
func NewConsole(out io.Writer, in <-chan string) *Console {
	return &Console{out: out, in: in}
}

// Speak prints message on its own line
func (c *Console) Speak(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, message)
}

// Prompt asks for a line of text. ok is false when input is closed.
func (c *Console) Prompt(title, message string) (string, bool) {
	c.mu.Lock()
	fmt.Fprintf(c.out, "%s - %s ", title, message)
	c.mu.Unlock()

	if c.in == nil {
		return "", false
	}
	line, ok := <-c.in
	return line, ok
}

// Show prints the dialog and waits for one line as the acknowledgement
func (c *Console) Show(d Dialog) {
	c.mu.Lock()
	fmt.Fprintf(c.out, "== %s ==\n", d.Title)
	fmt.Fprint(c.out, d.Body)
	if !strings.HasSuffix(d.Body, "\n") {
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, "[OK]")
	c.mu.Unlock()

	if c.in != nil {
		<-c.in
	}
}

// ReadLines feeds the lines of r into a channel closed at EOF
func ReadLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
