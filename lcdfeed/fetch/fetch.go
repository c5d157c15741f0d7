// Package fetch retrieves the text shown on the display and drives the
// periodic fetch and render cycle.
//
// Failures never stop the cycle. Fetcher.Text turns every error into a short
// human readable string that is rendered in place of the content.
package fetch

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
)

// Rendered in place of content when a fetch fails.
const (
	TextNotConnected = "Error: WiFi Not Connected"
	TextGetFailed    = "Error: HTTP GET Failed"
	textStatusPrefix = "Error: HTTP "
)

var (
	// ErrNotConnected is returned without touching the network when the
	// device is not associated.
	ErrNotConnected = errors.New("fetch: wifi not connected")
	// ErrNoClient is returned when no HTTP client is available, for example
	// when the IP stack failed to come up.
	ErrNoClient = errors.New("fetch: no http client")
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "fetch: http status " + strconv.Itoa(e.Code)
}

// Link reports network association.
type Link interface {
	Connected() bool
}

// Getter performs a single blocking HTTP GET. The returned body may be
// reused by the next call.
type Getter interface {
	Get(url string) (status int, body []byte, err error)
}

// Fetcher fetches text from URL.
type Fetcher struct {
	URL    string
	Link   Link
	Client Getter
	Logger *slog.Logger
}

// Fetch returns the response body as text. It returns ErrNotConnected
// before any network call when Link is down, a *StatusError for non-2xx
// responses, and a wrapped transport error otherwise.
func (f *Fetcher) Fetch() (string, error) {
	if f.Link != nil && !f.Link.Connected() {
		return "", ErrNotConnected
	}
	if f.Client == nil {
		return "", ErrNoClient
	}
	status, body, err := f.Client.Get(f.URL)
	if err != nil {
		return "", errors.New("fetch: get " + f.URL + ": " + err.Error())
	}
	if status <= 0 {
		return "", errors.New("fetch: get " + f.URL + ": no status")
	}
	if status < 200 || status > 299 {
		return "", &StatusError{Code: status}
	}
	return string(body), nil
}

// Text fetches and returns either the body or the error text for the
// failure. It never fails.
func (f *Fetcher) Text() string {
	text, err := f.Fetch()
	if err != nil {
		f.logger().Error("fetch:failed", slog.String("url", f.URL), slog.String("err", err.Error()))
		return ErrorText(err)
	}
	f.logger().Info("fetch:ok", slog.Int("len", len(text)))
	return text
}

// ErrorText maps a Fetch error to the string rendered on the display.
func ErrorText(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNotConnected):
		return TextNotConnected
	case errors.As(err, &statusErr):
		return textStatusPrefix + strconv.Itoa(statusErr.Code)
	default:
		return TextGetFailed
	}
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
