package ssllabsreport

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

//Browser renders pages that need client-side script execution
type Browser interface {
	Navigate(ctx context.Context, url string, headers map[string]string, userAgent string) (Session, error)
}

//Session is an open page in a Browser
type Session interface {
	//Status is the HTTP status of the main document
	Status() int
	//WaitFor blocks until selector is present and returns the rendered markup. It returns context.DeadlineExceeded when timeout elapses first
	WaitFor(selector string, timeout time.Duration) (string, error)
	Close() error
}

//ChromeBrowser runs a headless Chrome per session through the DevTools protocol
type ChromeBrowser struct {
	options []chromedp.ExecAllocatorOption
}

//NewChromeBrowser creates a browser; extra allocator options are appended to chromedp's headless defaults
func NewChromeBrowser(options ...chromedp.ExecAllocatorOption) *ChromeBrowser {
	return &ChromeBrowser{options: options}
}

//Navigate starts a browser, opens url with the given headers and user agent and waits for the load event
func (b *ChromeBrowser) Navigate(ctx context.Context, url string, headers map[string]string, userAgent string) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(userAgent))
	opts = append(opts, b.options...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))
	session := &chromeSession{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}

	extra := network.Headers{}
	for k, v := range headers {
		extra[k] = v
	}
	start := time.Now()
	if err := chromedp.Run(browserCtx, network.Enable(), network.SetExtraHTTPHeaders(extra)); err != nil {
		session.Close()
		return nil, fmt.Errorf("could not start headless browser: %w", err)
	}
	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(url))
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("could not open %s: %w", url, err)
	}
	if resp != nil {
		session.status = int(resp.Status)
	}
	log.Debugf("Opened %s with status %d in %.2f seconds", url, session.status, time.Since(start).Seconds())
	return session, nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	status int
}

func (s *chromeSession) Status() int {
	return s.status
}

func (s *chromeSession) WaitFor(selector string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	var markup string
	err := chromedp.Run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if ctx.Err() == context.DeadlineExceeded {
		return "", context.DeadlineExceeded
	}
	return markup, err
}

func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	return err
}
