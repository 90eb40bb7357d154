// Package relay resolves a (video id, itag) pair to an origin URL and streams the
// origin response back, following at most one redirect.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/researchaccelerator-hub/media-gateway/aggregator"
	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

// Bytes read from a redirect response before its connection is given back to the pool
const drainLimit = 64 * 1024

// Relay fetches stream renditions from their origin.
type Relay struct {
	resolver extractor.StreamResolver
	client   *http.Client
}

// New creates a relay. The client should come from NewHTTPClient so that redirects are not auto-followed.
func New(resolver extractor.StreamResolver, client *http.Client) *Relay {
	return &Relay{resolver: resolver, client: client}
}

// Candidates lists the renditions the relay searches: video-only, then audio-only.
func (r *Relay) Candidates(ctx context.Context, videoID string) ([]model.StreamCandidate, error) {
	set, err := r.resolver.Streams(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return aggregator.AdaptiveCandidates(set), nil
}

// Fetch returns the origin response for the first candidate matching itag.
// The caller must close the response body.
//
// Errors match model.ErrNotFound when the video cannot be resolved or no fetchable
// candidate has the itag, and model.ErrUpstreamUnreachable when either hop fails.
func (r *Relay) Fetch(ctx context.Context, videoID string, itag int) (*http.Response, error) {
	logger := log.With().Str("video_id", videoID).Int("itag", itag).Logger()

	// Resolving
	candidates, err := r.Candidates(ctx, videoID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to resolve stream candidates")
		return nil, fmt.Errorf("resolve %s: %w", videoID, model.ErrNotFound)
	}

	// Selecting
	candidate, ok := lo.Find(candidates, func(c model.StreamCandidate) bool {
		return c.Itag == itag
	})
	if !ok {
		logger.Info().Int("candidates", len(candidates)).Msg("No stream with requested itag")
		return nil, fmt.Errorf("itag %d of %s: %w", itag, videoID, model.ErrNotFound)
	}
	origin, ok := candidate.URL.Get()
	if !ok {
		logger.Info().Msg("Stream has no playable URL")
		return nil, fmt.Errorf("itag %d of %s has no url: %w", itag, videoID, model.ErrNotFound)
	}

	// Fetching
	resp, err := r.get(ctx, origin)
	if err != nil {
		logger.Error().Err(err).Msg("Origin fetch failed")
		return nil, &model.UpstreamError{Hop: 1, Err: err}
	}

	// RedirectCheck
	location, err := resp.Location()
	if errors.Is(err, http.ErrNoLocation) {
		return resp, nil
	}
	drain(resp)
	if err != nil {
		logger.Error().Err(err).Str("location", resp.Header.Get("Location")).Msg("Unusable redirect location")
		return nil, &model.UpstreamError{Hop: 2, Err: err}
	}

	logger.Debug().Str("location", location.Redacted()).Msg("Following redirect")

	// The second response is used as is, even if it redirects again
	next, err := r.get(ctx, location.String())
	if err != nil {
		logger.Error().Err(err).Msg("Redirect fetch failed")
		return nil, &model.UpstreamError{Hop: 2, Err: err}
	}
	return next, nil
}

// get issues a plain GET without any custom headers.
func (r *Relay) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return r.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}
