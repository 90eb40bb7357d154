// Package dataapi implements the catalog backend on the YouTube Data API v3.
// It needs an API key and cannot resolve stream renditions.
package dataapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

var _ extractor.Source = (*Client)(nil)

var videoParts = []string{"snippet", "contentDetails", "statistics"}

// Client implements extractor.Source for accessing the YouTube Data API
type Client struct {
	service    *ytapi.Service
	apiKey     string
	region     string
	maxResults int64
	timeout    time.Duration
	opts       []option.ClientOption
}

// NewClient creates a new Data API backend. Extra options are passed to the service (e.g. option.WithEndpoint).
func NewClient(cfg config.ExtractorConfig, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 25
	}

	return &Client{
		apiKey:     cfg.APIKey,
		region:     cfg.Region,
		maxResults: maxResults,
		timeout:    timeout,
		opts:       opts,
	}, nil
}

// Connect establishes a connection to the YouTube API
func (c *Client) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube API")

	httpClient := &http.Client{
		Timeout:   c.timeout,
		Transport: &transport.APIKey{Key: c.apiKey, Transport: http.DefaultTransport},
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}

	c.service = service
	log.Info().Msg("Connected to YouTube API successfully")
	return nil
}

// Disconnect closes the connection to the YouTube API
func (c *Client) Disconnect(ctx context.Context) error {
	c.service = nil
	return nil
}

func (c *Client) ensureConnected() error {
	if c.service == nil {
		return fmt.Errorf("YouTube client not connected")
	}
	return nil
}

// apiError maps a 404 from the API onto extractor.ErrNotFound.
func apiError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, extractor.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// enrich fetches durations and statistics for the video items in one batched call.
// Failure is logged; the items keep their snippet data.
func (c *Client) enrich(ctx context.Context, items []*videoItem) {
	if len(items) == 0 {
		return
	}

	byID := make(map[string][]*videoItem, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.id == "" {
			continue
		}
		if _, seen := byID[item.id]; !seen {
			ids = append(ids, item.id)
		}
		byID[item.id] = append(byID[item.id], item)
	}
	if len(ids) == 0 {
		return
	}

	resp, err := c.service.Videos.List([]string{"contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		log.Warn().Err(err).Strs("video_ids", ids).Msg("Failed to get video statistics, continuing with snippets only")
		return
	}

	for _, v := range resp.Items {
		for _, item := range byID[v.Id] {
			item.details = v
		}
	}
}

// Video
// *********************************************

// Video looks up one video with snippet, duration and statistics.
func (c *Client) Video(ctx context.Context, videoID string) (extractor.VideoPage, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	log.Info().Str("video_id", videoID).Msg("Fetching YouTube video")

	resp, err := c.service.Videos.List(videoParts).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, apiError("failed to get video from YouTube API", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, extractor.ErrNotFound)
	}

	return &videoPage{videoItem: videoFromVideo(resp.Items[0]), video: resp.Items[0]}, nil
}

// Channel
// *********************************************

// Channel fetches the channel and one page of its uploads playlist.
func (c *Client) Channel(ctx context.Context, channelID, pageToken string) (extractor.ChannelPage, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	log.Info().Str("channel_id", channelID).Bool("continuation", pageToken != "").Msg("Fetching YouTube channel")

	call := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails", "brandingSettings"})
	if strings.HasPrefix(channelID, "@") {
		call = call.ForHandle(channelID)
	} else {
		call = call.Id(channelID)
	}

	resp, err := call.MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, apiError("failed to get channel from YouTube API", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, extractor.ErrNotFound)
	}

	channel := resp.Items[0]
	page := &channelPage{channel: channel}

	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		log.Warn().Str("channel_id", channel.Id).Msg("Channel has no uploads playlist")
		return page, nil
	}

	uploads, err := c.playlistItems(ctx, channel.ContentDetails.RelatedPlaylists.Uploads, pageToken)
	if err != nil {
		return nil, err
	}
	page.items, page.next = uploads.items, uploads.next

	log.Info().
		Str("channel_id", channel.Id).
		Int("video_count", len(page.items)).
		Msg("Retrieved videos from YouTube channel")

	return page, nil
}

type itemPage struct {
	items []extractor.RawItem
	next  string
}

// playlistItems fetches one page of a playlist and enriches its videos.
func (c *Client) playlistItems(ctx context.Context, playlistID, pageToken string) (itemPage, error) {
	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(c.maxResults).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return itemPage{}, apiError("failed to get videos from playlist", err)
	}

	videos := make([]*videoItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, videoFromPlaylistItem(item))
	}
	c.enrich(ctx, videos)

	items := make([]extractor.RawItem, 0, len(videos))
	for _, v := range videos {
		items = append(items, extractor.StreamRaw(v))
	}
	return itemPage{items: items, next: resp.NextPageToken}, nil
}

// Playlist
// *********************************************

// Playlist fetches playlist metadata and one page of entries concurrently.
func (c *Client) Playlist(ctx context.Context, playlistID, pageToken string) (extractor.PlaylistPage, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	log.Info().Str("playlist_id", playlistID).Bool("continuation", pageToken != "").Msg("Fetching YouTube playlist")

	var playlist *ytapi.Playlist
	var entries itemPage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.service.Playlists.List([]string{"snippet", "contentDetails"}).Id(playlistID).Context(gctx).Do()
		if err != nil {
			return apiError("failed to get playlist from YouTube API", err)
		}
		if len(resp.Items) == 0 {
			return fmt.Errorf("playlist %s: %w", playlistID, extractor.ErrNotFound)
		}
		playlist = resp.Items[0]
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = c.playlistItems(gctx, playlistID, pageToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &playlistPage{playlist: playlist, items: entries.items, next: entries.next}, nil
}

// Search
// *********************************************

// Search runs a mixed video/channel/playlist query.
func (c *Client) Search(ctx context.Context, query, pageToken string) (extractor.SearchPage, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", extractor.ErrInvalidID)
	}

	log.Info().Str("query", query).Bool("continuation", pageToken != "").Msg("Searching YouTube")

	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video", "channel", "playlist").
		MaxResults(c.maxResults).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("failed to search YouTube API", err)
	}

	items := make([]extractor.RawItem, 0, len(resp.Items))
	var videos []*videoItem
	for _, result := range resp.Items {
		if result.Id == nil {
			continue
		}
		switch result.Id.Kind {
		case "youtube#video":
			v := videoFromSearch(result)
			videos = append(videos, v)
			items = append(items, extractor.StreamRaw(v))
		case "youtube#channel":
			items = append(items, extractor.ChannelRaw(&channelItem{result: result}))
		case "youtube#playlist":
			items = append(items, extractor.PlaylistRaw(&playlistItem{result: result}))
		default:
			log.Debug().Str("kind", result.Id.Kind).Msg("Skipping unknown search result kind")
		}
	}
	c.enrich(ctx, videos)

	return &searchPage{items: items, next: resp.NextPageToken}, nil
}

// Trending
// *********************************************

// Trending lists the most popular videos for the configured region.
func (c *Client) Trending(ctx context.Context) (extractor.TrendingPage, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	log.Info().Str("region", c.region).Msg("Fetching YouTube trending")

	call := c.service.Videos.List(videoParts).
		Chart("mostPopular").
		MaxResults(c.maxResults).
		Context(ctx)
	if c.region != "" {
		call = call.RegionCode(c.region)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, apiError("failed to get trending videos", err)
	}

	items := make([]extractor.RawItem, 0, len(resp.Items))
	for _, v := range resp.Items {
		items = append(items, extractor.StreamRaw(videoFromVideo(v)))
	}
	return &trendingPage{items: items}, nil
}
