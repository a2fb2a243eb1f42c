package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var ErrNotAnArray = errors.New("feed must be a JSON array")

const httpTimeout = 15 * time.Second

// Source yields raw feed items ready for NormalizeFeed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]any, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(_ context.Context) ([]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read feed file %s", s.path)
	}
	return Decode(data)
}

type HTTPSource struct {
	url         string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{url: url, httpClient: &http.Client{Timeout: httpTimeout}}
}

func (s *HTTPSource) SetHTTPClient(client HTTPClient) {
	s.httpClient = client
}

func (s *HTTPSource) SetRateLimit(maxRequestsPerSecond float32) {
	s.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]any, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return Decode(body)
}

// Decode parses a feed document. Numbers stay float64 so ids like 1234 are
// rendered without exponent by the normalizer.
func Decode(data []byte) ([]any, error) {
	var doc any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding feed JSON: %w", err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, ErrNotAnArray
	}
	return items, nil
}
