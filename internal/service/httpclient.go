package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// Validators are the tokens of a previous response used for conditional requests.
type Validators struct {
	ETag         string
	LastModified string
}

// FetchResult is what the coordinator needs from one response.
type FetchResult struct {
	Status       int
	ETag         string
	LastModified string
	Body         []byte
}

// NetworkError is a transport failure or a rejected status.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response to a GET.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP error! Status: %d", e.Code) }

// ErrBodyTooLarge is returned when the feed exceeds the configured cap.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// SheetClient issues the HEAD/GET pair against the published spreadsheet.
type SheetClient struct {
	Client  HTTPClient
	Headers map[string]string
}

func NewSheetClient(c HTTPClient, headers map[string]string) *SheetClient {
	if c == nil {
		c = NewHTTPClient(30 * time.Second)
	}
	return &SheetClient{Client: c, Headers: headers}
}

// Head asks whether the resource changed since v. Any status is returned as
// is; only transport failures are errors.
func (s *SheetClient) Head(ctx context.Context, url string, v Validators) (FetchResult, error) {
	resp, err := s.do(ctx, http.MethodHead, url, v)
	if err != nil {
		return FetchResult{}, err
	}
	defer utils.Try(resp.Body.Close)

	logger.Debug("HEAD %s -> %d", url, resp.StatusCode)
	return FetchResult{
		Status:       resp.StatusCode,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

// Get downloads the resource body. Non-2xx statuses are errors; maxBytes <= 0
// disables the size cap.
func (s *SheetClient) Get(ctx context.Context, url string, v Validators, maxBytes int64) (FetchResult, error) {
	resp, err := s.do(ctx, http.MethodGet, url, v)
	if err != nil {
		return FetchResult{}, err
	}
	defer utils.Try(resp.Body.Close)

	logger.Debug("GET %s -> %d", url, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, &NetworkError{Op: "GET", URL: url, Err: &StatusError{Code: resp.StatusCode}}
	}

	var src io.Reader = resp.Body
	if maxBytes > 0 {
		src = io.LimitReader(resp.Body, maxBytes+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return FetchResult{}, &NetworkError{Op: "GET", URL: url, Err: err}
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return FetchResult{}, &NetworkError{Op: "GET", URL: url, Err: ErrBodyTooLarge}
	}

	return FetchResult{
		Status:       resp.StatusCode,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Body:         body,
	}, nil
}

func (s *SheetClient) do(ctx context.Context, method, url string, v Validators) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, &NetworkError{Op: method, URL: url, Err: err}
	}
	for k, val := range s.Headers {
		req.Header.Set(k, val)
	}
	if v.ETag != "" {
		req.Header.Set("If-None-Match", v.ETag)
	}
	if v.LastModified != "" {
		req.Header.Set("If-Modified-Since", v.LastModified)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method, URL: url, Err: err}
	}
	return resp, nil
}
