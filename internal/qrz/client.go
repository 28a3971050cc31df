package qrz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultURLTemplate is the operator page, %s receives the callsign
	DefaultURLTemplate = "https://www.qrz.com/db/%s"

	// DefaultTimeout bounds the whole HTTP exchange
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent gets past the basic bot filter on the directory site
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// maxBodySize caps how much of a page is read
	maxBodySize = 4 << 20
)

// Config holds directory client settings
type Config struct {
	URLTemplate string
	Timeout     time.Duration
	UserAgent   string
}

// Client fetches operator pages and extracts their fields
type Client struct {
	urlTemplate string
	userAgent   string
	httpClient  *http.Client
	logger      *log.Logger
	strategies  []Strategy
}

// NewClient creates a directory client. Zero config values take defaults.
func NewClient(config Config, logger *log.Logger) *Client {
	if config.URLTemplate == "" {
		config.URLTemplate = DefaultURLTemplate
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &Client{
		urlTemplate: config.URLTemplate,
		userAgent:   config.UserAgent,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:     logger,
		strategies: DefaultStrategies(),
	}
}

// URLFor returns the page address for callsign
func (c *Client) URLFor(callsign string) string {
	escaped := url.PathEscape(callsign)
	if strings.Contains(c.urlTemplate, "%s") {
		return fmt.Sprintf(c.urlTemplate, escaped)
	}
	return strings.TrimSuffix(c.urlTemplate, "/") + "/" + escaped
}

// Lookup fetches the page for callsign and extracts its fields. The caller
// normalizes the callsign. Every failure comes back as a *LookupError that
// matches ErrAbsent; Lookup never panics and never retries.
func (c *Client) Lookup(ctx context.Context, callsign string) (*FieldSet, error) {
	pageURL := c.URLFor(callsign)
	c.logf("Fetching data for %s from %s", callsign, pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		c.logf("Network error fetching data for %s from QRZ.com: %v", callsign, err)
		return nil, &LookupError{Kind: KindNetwork, Callsign: callsign, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(callsign, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.transportError(callsign, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logf("Error fetching data for %s: Status code %d", callsign, resp.StatusCode)
		if notFoundMarker(body) {
			c.logf("Callsign %s not found in QRZ.com database.", callsign)
		}
		return nil, &LookupError{Kind: KindStatus, Callsign: callsign, StatusCode: resp.StatusCode}
	}

	return c.parse(callsign, body)
}

func (c *Client) transportError(callsign string, err error) error {
	if isTimeout(err) {
		c.logf("Timeout while fetching data for %s from QRZ.com.", callsign)
		return &LookupError{Kind: KindTimeout, Callsign: callsign, Err: err}
	}
	c.logf("Network error fetching data for %s from QRZ.com: %v", callsign, err)
	return &LookupError{Kind: KindNetwork, Callsign: callsign, Err: err}
}

// parse is the boundary around extraction: any failure below it, panics
// included, becomes a parse error.
func (c *Client) parse(callsign string, body []byte) (fs *FieldSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logf("Error parsing data for %s: %v", callsign, r)
			fs = nil
			err = &LookupError{Kind: KindParse, Callsign: callsign, Err: fmt.Errorf("%v", r)}
		}
	}()

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		c.logf("Error parsing data for %s: %v", callsign, err)
		return nil, &LookupError{Kind: KindParse, Callsign: callsign, Err: err}
	}

	fs = extractWith(doc, callsign, c.strategies)

	if fs.Len() == 1 {
		c.logf("No detailed data extracted for %s. Page structure might have changed or data is not available.", callsign)
		title := strings.ToLower(pageTitle(doc))
		if strings.Contains(title, "not found") || strings.Contains(title, "error") {
			c.logf("Callsign %s does not appear to be in the QRZ.com database (based on page title).", callsign)
			return nil, &LookupError{Kind: KindNotFound, Callsign: callsign}
		}
	}

	c.logf("Successfully extracted data for %s: %s", callsign, fs)
	return fs, nil
}

func notFoundMarker(body []byte) bool {
	return bytes.Contains(bytes.ToLower(body), []byte("record not found")) ||
		bytes.Contains(body, []byte("Invalid Request"))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
