package hashverify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quartzjer/vcon-info/pkg/errors"
)

// Fetcher retrieves external content for verification.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP with a bounded body size and timeout.
type HTTPFetcher struct {
	Client  *http.Client
	MaxSize int64
}

const defaultMaxFetchSize = 64 << 20

// NewHTTPFetcher returns a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		MaxSize: defaultMaxFetchSize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: %w", url, errors.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	limit := f.MaxSize
	if limit <= 0 {
		limit = defaultMaxFetchSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", url, limit)
	}
	return data, nil
}

// FetchResult is the outcome of one fetch-and-verify round. Data is
// populated only when every attested hash matched.
type FetchResult struct {
	URL           string         `json:"url"`
	Success       bool           `json:"success"`
	Error         string         `json:"error,omitempty"`
	Verifications []Verification `json:"verifications,omitempty"`
	Data          []byte         `json:"-"`
}

// FetchAndVerify retrieves url and checks it against the attested hashes.
// Fail closed: the fetched bytes are withheld unless all hashes verify.
// Network and parse failures land in the result, never in a panic or a
// returned error.
func FetchAndVerify(ctx context.Context, f Fetcher, url string, contentHash any) FetchResult {
	result := FetchResult{URL: url}

	hashes, err := ParseContentHashes(contentHash)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	data, err := f.Fetch(ctx, url)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	allValid, verifications := VerifyAll(hashes, data)
	result.Verifications = verifications
	if !allValid {
		result.Error = "content hash verification failed"
		return result
	}
	result.Success = true
	result.Data = data
	return result
}
