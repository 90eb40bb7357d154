package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

const testVideoID = "dQw4w9WgXcQ"

type fakeResolver struct {
	set   extractor.StreamSet
	err   error
	calls atomic.Int32
}

func (f *fakeResolver) Streams(ctx context.Context, videoID string) (extractor.StreamSet, error) {
	f.calls.Add(1)
	return f.set, f.err
}

// origin is a test server counting its hits.
type origin struct {
	*httptest.Server
	hits atomic.Int32
}

func newOrigin(t *testing.T, h http.HandlerFunc) *origin {
	t.Helper()
	o := &origin{}
	o.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(o.Close)
	return o
}

func body(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = io.WriteString(w, text)
	}
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", target)
		w.WriteHeader(http.StatusFound)
	}
}

// countingTransport counts round trips that reach the transport.
type countingTransport struct {
	next  http.RoundTripper
	trips atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.trips.Add(1)
	return c.next.RoundTrip(r)
}

func testConfig() config.RelayConfig {
	cfg := config.DefaultGatewayConfig().Relay
	cfg.FetchTimeout = 2 * time.Second
	cfg.DialTimeout = time.Second
	return cfg
}

func newTestRelay(resolver extractor.StreamResolver, cfg config.RelayConfig) (*Relay, *countingTransport) {
	client := NewHTTPClient(cfg)
	counter := &countingTransport{next: client.Transport}
	client.Transport = counter
	return New(resolver, client), counter
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestFetchSelectsByItag(t *testing.T) {
	a := newOrigin(t, body("stream A"))
	resolver := &fakeResolver{set: extractor.StreamSet{
		VideoOnly: []extractor.Stream{{Itag: 18, URL: a.URL}},
		AudioOnly: []extractor.Stream{{Itag: 22}},
	}}
	r, _ := newTestRelay(resolver, testConfig())

	t.Run("candidate without url", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), testVideoID, 22)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Equal(t, int32(0), a.hits.Load())
	})

	t.Run("candidate with url", func(t *testing.T) {
		resp, err := r.Fetch(context.Background(), testVideoID, 18)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "stream A", readAll(t, resp))
		assert.Equal(t, int32(1), a.hits.Load())
	})

	t.Run("unknown itag", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), testVideoID, 137)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestFetchFirstMatchWins(t *testing.T) {
	first := newOrigin(t, body("first"))
	second := newOrigin(t, body("second"))
	resolver := &fakeResolver{set: extractor.StreamSet{
		VideoOnly: []extractor.Stream{{Itag: 140, URL: first.URL}},
		AudioOnly: []extractor.Stream{{Itag: 140, URL: second.URL}},
	}}
	r, _ := newTestRelay(resolver, testConfig())

	resp, err := r.Fetch(context.Background(), testVideoID, 140)
	require.NoError(t, err)
	assert.Equal(t, "first", readAll(t, resp))
	assert.Equal(t, int32(0), second.hits.Load())
}

func TestFetchExcludesCombinedStreams(t *testing.T) {
	a := newOrigin(t, body("muxed"))
	resolver := &fakeResolver{set: extractor.StreamSet{
		Combined: []extractor.Stream{{Itag: 18, URL: a.URL}},
	}}
	r, _ := newTestRelay(resolver, testConfig())

	_, err := r.Fetch(context.Background(), testVideoID, 18)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, int32(0), a.hits.Load())
}

func TestFetchResolveFailureIsNotFound(t *testing.T) {
	r, counter := newTestRelay(&fakeResolver{err: extractor.ErrNotFound}, testConfig())

	_, err := r.Fetch(context.Background(), testVideoID, 18)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, errors.Is(err, model.ErrUpstreamUnreachable))
	assert.Equal(t, int32(0), counter.trips.Load())
}

func TestFetchSendsNoCustomHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	a := newOrigin(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})
	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: a.URL}}}}
	r, _ := newTestRelay(resolver, testConfig())

	resp, err := r.Fetch(context.Background(), testVideoID, 18)
	require.NoError(t, err)
	readAll(t, resp)

	got := <-headers
	assert.Empty(t, got.Get("Range"))
	assert.Empty(t, got.Get("Referer"))
	assert.Empty(t, got.Get("Accept-Encoding"))
}

func TestFetchFollowsExactlyOneRedirect(t *testing.T) {
	c := newOrigin(t, body("stream C"))
	b := newOrigin(t, redirectTo(c.URL))
	a := newOrigin(t, redirectTo(b.URL))

	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: a.URL}}}}
	r, counter := newTestRelay(resolver, testConfig())

	resp, err := r.Fetch(context.Background(), testVideoID, 18)
	require.NoError(t, err)
	defer resp.Body.Close()

	// B's response is relayed as is, its redirect is not chased
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, c.URL, resp.Header.Get("Location"))
	assert.Equal(t, int32(1), a.hits.Load())
	assert.Equal(t, int32(1), b.hits.Load())
	assert.Equal(t, int32(0), c.hits.Load())
	assert.Equal(t, int32(2), counter.trips.Load())
}

func TestFetchRedirectToStream(t *testing.T) {
	b := newOrigin(t, body("stream B"))
	a := newOrigin(t, redirectTo(b.URL+"/videoplayback?id=1"))

	resolver := &fakeResolver{set: extractor.StreamSet{AudioOnly: []extractor.Stream{{Itag: 140, URL: a.URL}}}}
	r, _ := newTestRelay(resolver, testConfig())

	resp, err := r.Fetch(context.Background(), testVideoID, 140)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "stream B", readAll(t, resp))
}

func TestFetchRelativeRedirect(t *testing.T) {
	o := newOrigin(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/moved" {
			body("moved")(w, r)
			return
		}
		redirectTo("/moved")(w, r)
	})

	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: o.URL + "/start"}}}}
	r, _ := newTestRelay(resolver, testConfig())

	resp, err := r.Fetch(context.Background(), testVideoID, 18)
	require.NoError(t, err)
	assert.Equal(t, "moved", readAll(t, resp))
	assert.Equal(t, int32(2), o.hits.Load())
}

// refusedURL returns a URL nothing listens on.
func refusedURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr + "/videoplayback"
}

func TestFetchConnectionRefusedIsNotRetried(t *testing.T) {
	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: refusedURL(t)}}}}
	r, counter := newTestRelay(resolver, testConfig())

	_, err := r.Fetch(context.Background(), testVideoID, 18)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUpstreamUnreachable)

	var ue *model.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, ue.Hop)
	assert.Equal(t, int32(1), counter.trips.Load())
	assert.Equal(t, int32(1), resolver.calls.Load())
}

func TestFetchRedirectTargetUnreachable(t *testing.T) {
	a := newOrigin(t, redirectTo(refusedURL(t)))
	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: a.URL}}}}
	r, counter := newTestRelay(resolver, testConfig())

	_, err := r.Fetch(context.Background(), testVideoID, 18)
	var ue *model.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 2, ue.Hop)
	assert.Equal(t, int32(2), counter.trips.Load())
}

func TestFetchHeaderTimeout(t *testing.T) {
	slow := newOrigin(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	resolver := &fakeResolver{set: extractor.StreamSet{VideoOnly: []extractor.Stream{{Itag: 18, URL: slow.URL}}}}

	cfg := testConfig()
	cfg.FetchTimeout = 100 * time.Millisecond
	r, _ := newTestRelay(resolver, cfg)

	start := time.Now()
	_, err := r.Fetch(context.Background(), testVideoID, 18)
	assert.ErrorIs(t, err, model.ErrUpstreamUnreachable)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestCandidates(t *testing.T) {
	resolver := &fakeResolver{set: extractor.StreamSet{
		Combined:  []extractor.Stream{{Itag: 18, URL: "https://origin/18"}},
		VideoOnly: []extractor.Stream{{Itag: 137, URL: "https://origin/137"}},
		AudioOnly: []extractor.Stream{{Itag: 140}},
	}}
	r, _ := newTestRelay(resolver, testConfig())

	candidates, err := r.Candidates(context.Background(), testVideoID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, 137, candidates[0].Itag)
	assert.Equal(t, model.StreamKindVideoOnly, candidates[0].Kind)
	assert.Equal(t, 140, candidates[1].Itag)
	assert.False(t, candidates[1].Fetchable())
}
