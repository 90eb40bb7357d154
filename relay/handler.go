package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/researchaccelerator-hub/media-gateway/model"
)

// Relay outcomes reported to the Observer
const (
	OutcomeStreamed    = "streamed"
	OutcomeNotFound    = "not_found"
	OutcomeUnreachable = "upstream_unreachable"
	OutcomeClientGone  = "client_gone"
)

// Observer is told how every relay request ended and how many body bytes it sent.
type Observer interface {
	ObserveRelay(outcome string, bytes int64)
}

type nopObserver struct{}

func (nopObserver) ObserveRelay(string, int64) {}

// Headers that describe the connection, not the payload
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Handler serves GET /vid/{videoId}/{itag}.
type Handler struct {
	relay    *Relay
	observer Observer
	buffers  sync.Pool
}

// NewHandler wraps relay. bufferSize is the copy buffer per transfer; observer may be nil.
func NewHandler(relay *Relay, bufferSize int, observer Observer) *Handler {
	if observer == nil {
		observer = nopObserver{}
	}
	h := &Handler{relay: relay, observer: observer}
	h.buffers.New = func() any {
		buf := make([]byte, bufferSize)
		return &buf
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	videoID := r.PathValue("videoId")
	itag, err := strconv.Atoi(r.PathValue("itag"))
	if videoID == "" || err != nil {
		h.notFound(w, logger, errors.New("malformed relay path"))
		return
	}

	resp, err := h.relay.Fetch(r.Context(), videoID, itag)
	if err != nil {
		h.notFound(w, logger, err)
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	bufp := h.buffers.Get().(*[]byte)
	defer h.buffers.Put(bufp)

	n, err := copyFlushing(w, resp.Body, *bufp)
	switch {
	case err == nil:
		h.observer.ObserveRelay(OutcomeStreamed, n)
		logger.Debug().Int64("bytes", n).Int("status", resp.StatusCode).Msg("Relay finished")
	case errors.Is(r.Context().Err(), context.Canceled):
		h.observer.ObserveRelay(OutcomeClientGone, n)
		logger.Info().Int64("bytes", n).Msg("Client disconnected during relay")
	default:
		// Headers are gone already; the client sees a truncated body
		h.observer.ObserveRelay(OutcomeUnreachable, n)
		logger.Warn().Err(err).Int64("bytes", n).Msg("Relay aborted mid-stream")
	}
}

// copyFlushing copies src to w and flushes after every chunk, so a slow origin's
// bytes reach the client as they arrive. Writers without flush support are copied plainly.
func copyFlushing(w http.ResponseWriter, src io.Reader, buf []byte) (int64, error) {
	rc := http.NewResponseController(w)
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				return written, ferr
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// notFound answers with a generic 404; the cause only goes to the log.
func (h *Handler) notFound(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	outcome := OutcomeNotFound
	if errors.Is(err, model.ErrUpstreamUnreachable) {
		outcome = OutcomeUnreachable
	}
	h.observer.ObserveRelay(outcome, 0)
	logger.Warn().Err(err).Str("outcome", outcome).Msg("Relay request failed")

	http.Error(w, "resource not found", http.StatusNotFound)
}

// copyHeaders copies end-to-end headers from src to dst.
func copyHeaders(dst, src http.Header) {
	drop := make(map[string]bool, len(hopHeaders))
	for _, h := range hopHeaders {
		drop[h] = true
	}
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				drop[textproto.CanonicalMIMEHeaderKey(name)] = true
			}
		}
	}

	for key, values := range src {
		if drop[key] {
			continue
		}
		dst[key] = append([]string(nil), values...)
	}
}
