package ssllabsreport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
	log "github.com/sirupsen/logrus"
)

const (
	//RatingSelector appears once the results page has finished rendering
	RatingSelector     = "#rating"
	errorBoxSelector   = "div.errorBox"
	warningBoxSelector = "div.warningBox"
	//AppleMITMMessage starts a notice about the visitor's browser, not about the assessed host
	AppleMITMMessage = "Due to a recently discovered bug in Apple's code, your browser is exposed to MITM attacks"
)

//Scraper collects the error and warning notices shown on the results page of a host
type Scraper interface {
	Scrape(ctx context.Context, host string) (sslmodel.PageNotices, error)
}

//PageScraper renders the results page in a Browser and parses the notices out of it
type PageScraper struct {
	browser       Browser
	pageURL       string
	userAgent     string
	renderTimeout time.Duration
}

//NewPageScraper creates a scraper for the page URL, user agent and render timeout of the configuration
func NewPageScraper(browser Browser, config sslmodel.ReportConfig) *PageScraper {
	return &PageScraper{
		browser:       browser,
		pageURL:       config.PageURL,
		userAgent:     config.UserAgent,
		renderTimeout: config.RenderTimeout,
	}
}

//Scrape opens the results page of host, waits for it to render and returns its notices in document order
func (s *PageScraper) Scrape(ctx context.Context, host string) (notices sslmodel.PageNotices, e error) {
	pageURL, err := s.resultsURL(host)
	if err != nil {
		return notices, err
	}
	log.Debugf("[%s] Request url: %s", host, pageURL)

	start := time.Now()
	session, err := s.browser.Navigate(ctx, pageURL, map[string]string{"User-Agent": s.userAgent}, s.userAgent)
	if err != nil {
		return notices, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debugf("[%s] Closing browser session: %v", host, err)
		}
	}()
	log.Infof("[%s] Html page retrieved in %.2f seconds, starting wait for test completion", host, time.Since(start).Seconds())

	if status := session.Status(); status < 200 || status > 299 {
		return notices, &sslmodel.PageFetchError{Host: host, URL: pageURL, StatusCode: status}
	}

	start = time.Now()
	markup, err := session.WaitFor(RatingSelector, s.renderTimeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return notices, &sslmodel.RenderTimeoutError{Host: host, Selector: RatingSelector, Timeout: s.renderTimeout}
		}
		return notices, fmt.Errorf("waiting for %s on %s: %w", RatingSelector, pageURL, err)
	}
	log.Infof("[%s] Assessment data found in page in %.2f seconds", host, time.Since(start).Seconds())
	return ParseNotices(markup)
}

func (s *PageScraper) resultsURL(host string) (string, error) {
	u, err := url.Parse(s.pageURL)
	if err != nil {
		return "", fmt.Errorf("bad results page url %q: %w", s.pageURL, err)
	}
	q := u.Query()
	q.Set("hideResults", "on")
	q.Set("d", host)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

//ParseNotices extracts normalised error and warning box texts from rendered markup.
//Error boxes carrying the Apple MITM browser advisory are dropped
func ParseNotices(markup string) (notices sslmodel.PageNotices, e error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return notices, err
	}
	if doc.Find(RatingSelector).Length() == 0 {
		log.Warnf("No %s element in rendered page", RatingSelector)
	}

	notices.Errors = []string{}
	doc.Find(errorBoxSelector).Each(func(_ int, box *goquery.Selection) {
		text := NormalizeText(box.Text())
		if strings.HasPrefix(text, AppleMITMMessage) {
			return
		}
		notices.Errors = append(notices.Errors, text)
	})
	notices.Warnings = []string{}
	doc.Find(warningBoxSelector).Each(func(_ int, box *goquery.Selection) {
		notices.Warnings = append(notices.Warnings, NormalizeText(box.Text()))
	})
	log.Debugf("Errors found: %v, warnings found: %v", notices.Errors, notices.Warnings)
	return
}

//NormalizeText collapses whitespace runs, newlines included, into single spaces and trims the ends
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
