package collector

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"
)

const userAgent = "Mozilla/5.0 (compatible; MorningRadar/1.0)"

// NewHTTPClient builds a client with optional proxy support.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// utf8Body wraps a response body so legacy encodings (EUC-KR pages) decode as UTF-8.
func utf8Body(resp *http.Response) (io.Reader, error) {
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	return r, nil
}
