package fetch

import (
	"io"
	"net/http"
)

// HTTPClient is a Getter on net/http for hosts with a full network stack.
type HTTPClient struct {
	// Client defaults to one with DefaultTimeout.
	Client *http.Client
	// MaxBody limits how much of the body is read. Defaults to DefaultResponseBufSize.
	MaxBody int64
}

var _ Getter = (*HTTPClient)(nil)

// Get issues the request and reads at most MaxBody bytes of the body.
func (c *HTTPClient) Get(url string) (int, []byte, error) {
	if _, err := parseTarget(url); err != nil {
		return 0, nil, err
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	maxBody := c.MaxBody
	if maxBody <= 0 {
		maxBody = DefaultResponseBufSize
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
