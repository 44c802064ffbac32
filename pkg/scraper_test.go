package ssllabsreport

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	sslmodel "github.com/adedayo/ssllabsreport/pkg/model"
)

//fakeBrowser serves static markup per host; a host missing from pages never renders
type fakeBrowser struct {
	pages      map[string]string
	status     int
	navigated  []string
	headers    []map[string]string
	userAgents []string
	sessions   []*fakeSession
}

func (b *fakeBrowser) Navigate(ctx context.Context, pageURL string, headers map[string]string, userAgent string) (Session, error) {
	b.navigated = append(b.navigated, pageURL)
	b.headers = append(b.headers, headers)
	b.userAgents = append(b.userAgents, userAgent)
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	status := b.status
	if status == 0 {
		status = 200
	}
	markup, rendered := b.pages[u.Query().Get("d")]
	s := &fakeSession{status: status, markup: markup, rendered: rendered}
	b.sessions = append(b.sessions, s)
	return s, nil
}

type fakeSession struct {
	status   int
	markup   string
	rendered bool
	waited   time.Duration
	closed   bool
}

func (s *fakeSession) Status() int {
	return s.status
}

func (s *fakeSession) WaitFor(selector string, timeout time.Duration) (string, error) {
	s.waited = timeout
	if !s.rendered {
		time.Sleep(timeout)
		return "", context.DeadlineExceeded
	}
	return s.markup, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func page(boxes string) string {
	return `<html><body><div id="rating">A</div>` + boxes + `</body></html>`
}

func scraperConfig() sslmodel.ReportConfig {
	config := sslmodel.DefaultConfig()
	config.RenderTimeout = 20 * time.Millisecond
	return config
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "Some   warning\n text", "Some warning text"},
		{"trims", "\n\t  padded \t", "padded"},
		{"already normal", "Some warning text", "Some warning text"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeText(got); again != got {
				t.Errorf("NormalizeText is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseNotices(t *testing.T) {
	markup := page(`
		<div class="errorBox">Due to a recently discovered bug in Apple's code, your browser is exposed to MITM attacks. Click here for more information.</div>
		<div class="errorBox">This server is vulnerable to the   OpenSSL
			Padding Oracle vulnerability (CVE-2016-2107) and insecure.</div>
		<div class="warningBox">Due to a recently discovered bug in Apple's code, your browser is exposed to MITM attacks.</div>
		<div class="warningBox">
			This server does not support Forward Secrecy with the reference browsers.
		</div>
		<span class="errorBox">not a box</span>`)

	got, err := ParseNotices(markup)
	if err != nil {
		t.Fatalf("ParseNotices() error = %v", err)
	}
	want := sslmodel.PageNotices{
		Errors: []string{"This server is vulnerable to the OpenSSL Padding Oracle vulnerability (CVE-2016-2107) and insecure."},
		Warnings: []string{
			"Due to a recently discovered bug in Apple's code, your browser is exposed to MITM attacks.",
			"This server does not support Forward Secrecy with the reference browsers.",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNotices() = %#v, want %#v", got, want)
	}
}

func TestParseNoticesEmpty(t *testing.T) {
	got, err := ParseNotices(page(""))
	if err != nil {
		t.Fatalf("ParseNotices() error = %v", err)
	}
	if got.Errors == nil || got.Warnings == nil || len(got.Errors)+len(got.Warnings) != 0 {
		t.Errorf("ParseNotices() want empty non-nil lists, got %#v", got)
	}
}

func TestScrape(t *testing.T) {
	browser := &fakeBrowser{pages: map[string]string{
		"example.com": page(`<div class="warningBox">Some   warning
 text</div>`),
	}}
	config := scraperConfig()
	notices, err := NewPageScraper(browser, config).Scrape(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if want := []string{"Some warning text"}; !reflect.DeepEqual(notices.Warnings, want) {
		t.Errorf("Scrape().Warnings = %v, want %v", notices.Warnings, want)
	}
	if len(notices.Errors) != 0 {
		t.Errorf("Scrape().Errors = %v, want none", notices.Errors)
	}

	u, _ := url.Parse(browser.navigated[0])
	if u.Query().Get("hideResults") != "on" || u.Query().Get("d") != "example.com" {
		t.Errorf("navigated to %s, want hideResults=on and d=example.com", browser.navigated[0])
	}
	if browser.userAgents[0] != sslmodel.DefaultUserAgent || browser.headers[0]["User-Agent"] != sslmodel.DefaultUserAgent {
		t.Errorf("browser identity not spoofed: %q / %v", browser.userAgents[0], browser.headers[0])
	}
	if browser.sessions[0].waited != config.RenderTimeout {
		t.Errorf("waited %s for render, want %s", browser.sessions[0].waited, config.RenderTimeout)
	}
	if !browser.sessions[0].closed {
		t.Errorf("session was not closed")
	}
}

func TestScrapeRenderTimeout(t *testing.T) {
	browser := &fakeBrowser{pages: map[string]string{}}
	_, err := NewPageScraper(browser, scraperConfig()).Scrape(context.Background(), "never.example.com")
	var timeoutErr *sslmodel.RenderTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Scrape() error = %v, want RenderTimeoutError", err)
	}
	if timeoutErr.Selector != RatingSelector || timeoutErr.Host != "never.example.com" {
		t.Errorf("RenderTimeoutError = %#v", timeoutErr)
	}
	if !browser.sessions[0].closed {
		t.Errorf("session was not closed after a timeout")
	}
}

func TestScrapePageFetchError(t *testing.T) {
	browser := &fakeBrowser{status: 503, pages: map[string]string{"example.com": page("")}}
	_, err := NewPageScraper(browser, scraperConfig()).Scrape(context.Background(), "example.com")
	var fetchErr *sslmodel.PageFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Scrape() error = %v, want PageFetchError", err)
	}
	if fetchErr.StatusCode != 503 {
		t.Errorf("PageFetchError.StatusCode = %d, want 503", fetchErr.StatusCode)
	}
	if !browser.sessions[0].closed {
		t.Errorf("session was not closed after a fetch error")
	}
}

func TestDefaultRenderTimeout(t *testing.T) {
	if sslmodel.DefaultConfig().RenderTimeout != 10*time.Second {
		t.Errorf("default render timeout = %s, want 10s", sslmodel.DefaultConfig().RenderTimeout)
	}
}
