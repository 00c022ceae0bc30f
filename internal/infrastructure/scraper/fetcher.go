package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"

	"github.com/carbonwise/backend/internal/domain"
)

const (
	// DefaultTimeout bounds a single page fetch
	DefaultTimeout = 45 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	systemChromium   = "/usr/bin/chromium-browser"
	maxPageBytes     = 10 << 20
)

// Fetcher returns the HTML of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher downloads pages with a plain GET. It does not run JavaScript.
type HTTPFetcher struct {
	httpClient *http.Client
}

// ErrBlockedAddress is returned when a page resolves to an internal address
var ErrBlockedAddress = errors.New("address not allowed")

// HTTPFetcherOption configures an HTTPFetcher
type HTTPFetcherOption func(*httpFetcherOptions)

type httpFetcherOptions struct {
	allowPrivate bool
}

// WithPrivateHosts lets the fetcher dial loopback, private and link-local addresses
func WithPrivateHosts() HTTPFetcherOption {
	return func(o *httpFetcherOptions) {
		o.allowPrivate = true
	}
}

// NewHTTPFetcher creates a fetcher with the given timeout.
// Connections to internal addresses are refused unless WithPrivateHosts is set.
func NewHTTPFetcher(timeout time.Duration, opts ...HTTPFetcherOption) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var o httpFetcherOptions
	for _, opt := range opts {
		opt(&o)
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	if !o.allowPrivate {
		dialer.Control = refuseInternal
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext

	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
	}
}

// refuseInternal runs after DNS resolution so redirects and rebinding are covered
func refuseInternal(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || domain.IsInternalIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// BrowserFetcher renders pages in headless Chromium
type BrowserFetcher struct {
	browser *rod.Browser
	timeout time.Duration
}

// NewBrowserFetcher launches Chromium. The system binary is used when present,
// otherwise rod downloads or locates one.
func NewBrowserFetcher(timeout time.Duration) (*BrowserFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	if _, err := os.Stat(systemChromium); err == nil {
		l = l.Bin(systemChromium)
		log.Info().Str("component", "scraper").Str("bin", systemChromium).Msg("using system Chromium")
	} else {
		log.Info().Str("component", "scraper").Msg("using auto-detected Chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserFetcher{browser: browser, timeout: timeout}, nil
}

// Fetch implements Fetcher. Navigation and load are bounded by the fetcher timeout.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		// The request context may already be done
		if err := page.Context(context.Background()).Close(); err != nil {
			log.Debug().Err(err).Str("component", "scraper").Msg("failed to close page")
		}
	}()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: browserUserAgent}); err != nil {
		return "", fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	content, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return content, nil
}

// Close shuts the browser down
func (f *BrowserFetcher) Close() error {
	return f.browser.Close()
}
