package fetch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdfeed/lcdfeed/fetch"
)

type fakeLink struct{ up bool }

func (l fakeLink) Connected() bool { return l.up }

type fakeGetter struct {
	status int
	body   string
	err    error
	urls   []string
}

func (g *fakeGetter) Get(url string) (int, []byte, error) {
	g.urls = append(g.urls, url)
	return g.status, []byte(g.body), g.err
}

func TestFetcher_Text(t *testing.T) {
	tests := []struct {
		name   string
		link   fakeLink
		getter *fakeGetter
		want   string
		calls  int
	}{
		{
			name:   "content",
			link:   fakeLink{up: true},
			getter: &fakeGetter{status: 200, body: "Hello\nWorld"},
			want:   "Hello\nWorld",
			calls:  1,
		},
		{
			name:   "not found",
			link:   fakeLink{up: true},
			getter: &fakeGetter{status: 404, body: "missing"},
			want:   "Error: HTTP 404",
			calls:  1,
		},
		{
			name:   "server error",
			link:   fakeLink{up: true},
			getter: &fakeGetter{status: 503},
			want:   "Error: HTTP 503",
			calls:  1,
		},
		{
			name:   "transport failure",
			link:   fakeLink{up: true},
			getter: &fakeGetter{err: errors.New("connection refused")},
			want:   "Error: HTTP GET Failed",
			calls:  1,
		},
		{
			name:   "non-positive status",
			link:   fakeLink{up: true},
			getter: &fakeGetter{status: -1},
			want:   "Error: HTTP GET Failed",
			calls:  1,
		},
		{
			name:   "not connected makes no call",
			link:   fakeLink{up: false},
			getter: &fakeGetter{status: 200, body: "unused"},
			want:   "Error: WiFi Not Connected",
			calls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fetch.Fetcher{URL: "http://10.0.0.9:8080/", Link: tt.link, Client: tt.getter}

			assert.Equal(t, tt.want, f.Text())
			assert.Len(t, tt.getter.urls, tt.calls)
		})
	}
}

func TestFetcher_FetchErrors(t *testing.T) {
	f := &fetch.Fetcher{URL: "http://example/", Link: fakeLink{up: false}}
	_, err := f.Fetch()
	assert.ErrorIs(t, err, fetch.ErrNotConnected)

	f = &fetch.Fetcher{URL: "http://example/", Link: fakeLink{up: true}}
	_, err = f.Fetch()
	assert.ErrorIs(t, err, fetch.ErrNoClient)
	assert.Equal(t, fetch.TextGetFailed, fetch.ErrorText(err))

	f.Client = &fakeGetter{status: 404}
	_, err = f.Fetch()
	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.Code)
}

func TestFetcher_NilLinkAlwaysFetches(t *testing.T) {
	g := &fakeGetter{status: 204}
	f := &fetch.Fetcher{URL: "http://example/", Client: g}

	text, err := f.Fetch()

	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, []string{"http://example/"}, g.urls)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Error: WiFi Not Connected", fetch.ErrorText(fetch.ErrNotConnected))
	assert.Equal(t, "Error: HTTP 418", fetch.ErrorText(&fetch.StatusError{Code: 418}))
	assert.Equal(t, "Error: HTTP GET Failed", fetch.ErrorText(errors.New("boom")))
}
