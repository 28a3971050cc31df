package stream

import (
	"log"

	"github.com/pkg/browser"
)

// HoseURL is the BrandMeister hose, a live listening page for DMR talkgroups
const HoseURL = "https://hose.brandmeister.network/"

// Opener hands a URL to an external viewer
type Opener interface {
	Open(url string) error
}

// BrowserOpener opens URLs in the system default browser
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	return browser.OpenURL(url)
}

// Open hands url to opener. Failures are logged and never returned.
func Open(opener Opener, url string, logger *log.Logger) {
	if url == "" {
		url = HoseURL
	}
	err := opener.Open(url)
	if err != nil && logger != nil {
		logger.Printf("An exception occurred when opening %s: %v", url, err)
	}
}
