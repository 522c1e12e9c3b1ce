// Package imagefetch retrieves remote images under a strict policy:
// host allowlist, no redirects, a dual-enforced size cap and a timeout.
// The policy defends against SSRF-style abuse, so the checks run as a
// fixed pipeline that no step can bypass.
package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Policy failures. Callers degrade locally on these; a failed logo or
// inline image never aborts the surrounding conversion.
var (
	ErrHostNotAllowed    = errors.New("remote image host not allowed")
	ErrRedirectBlocked   = errors.New("remote image redirect blocked")
	ErrSizeLimitExceeded = errors.New("remote image exceeds size limit")
	ErrFetchTimeout      = errors.New("remote image fetch timed out")
)

// Policy holds the runtime limits supplied by the embedding application.
// An empty AllowedHosts list rejects every remote host.
type Policy struct {
	AllowedHosts []string
	MaxBytes     int64
	Timeout      time.Duration

	// Observer, when set, receives the outcome label of every fetch
	// attempt: ok, denied, too_large, timeout or error.
	Observer func(result string)
}

// Image is a fetched payload. Format handling (e.g. rasterizing SVG) is
// the embedding step's concern, not the fetcher's.
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher performs policy-checked image retrieval. Safe for concurrent use.
type Fetcher struct {
	policy Policy
	hosts  map[string]struct{}
	client *http.Client
}

// New builds a Fetcher for the given policy. The underlying client never
// follows redirects: a 3xx answer surfaces as ErrRedirectBlocked so the
// allowlist cannot be bypassed by bouncing to a disallowed host.
func New(policy Policy) *Fetcher {
	hosts := make(map[string]struct{}, len(policy.AllowedHosts))
	for _, h := range policy.AllowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	return &Fetcher{
		policy: policy,
		hosts:  hosts,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetch retrieves the image at rawURL. A single attempt, never retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Image, error) {
	img, err := f.fetch(ctx, rawURL)
	if f.policy.Observer != nil {
		f.policy.Observer(resultLabel(err))
	}
	return img, err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrHostNotAllowed), errors.Is(err, ErrRedirectBlocked):
		return "denied"
	case errors.Is(err, ErrSizeLimitExceeded):
		return "too_large"
	case errors.Is(err, ErrFetchTimeout):
		return "timeout"
	default:
		return "error"
	}
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: url %q has no host", ErrHostNotAllowed, rawURL)
	}
	if _, ok := f.hosts[strings.ToLower(host)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}

	if f.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.policy.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "md2docx/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrFetchTimeout, rawURL)
		}
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil, fmt.Errorf("%w: status %d to %q", ErrRedirectBlocked, resp.StatusCode, resp.Header.Get("Location"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %d", rawURL, resp.StatusCode)
	}

	// Reject a declared oversize body before reading anything; the header
	// may also be absent or lie, so the cap is enforced again on the stream.
	if f.policy.MaxBytes > 0 && resp.ContentLength > f.policy.MaxBytes {
		return nil, fmt.Errorf("%w: content-length %d > %d", ErrSizeLimitExceeded, resp.ContentLength, f.policy.MaxBytes)
	}

	body := resp.Body
	var r io.Reader = body
	if f.policy.MaxBytes > 0 {
		r = io.LimitReader(body, f.policy.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrFetchTimeout, rawURL)
		}
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if f.policy.MaxBytes > 0 && int64(len(data)) > f.policy.MaxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrSizeLimitExceeded, f.policy.MaxBytes)
	}

	return &Image{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
