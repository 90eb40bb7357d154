package aggregator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

// Service answers catalog queries by calling the source and aggregating its records.
type Service struct {
	source   extractor.Source
	resolver extractor.StreamResolver
}

// NewService creates a query service. resolver may be nil, in which case video lookups carry no streams.
func NewService(source extractor.Source, resolver extractor.StreamResolver) *Service {
	return &Service{source: source, resolver: resolver}
}

// lookupError translates a source failure into the result error taxonomy.
func lookupError(op string, err error) error {
	switch {
	case errors.Is(err, extractor.ErrNotFound):
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case errors.Is(err, extractor.ErrInvalidID):
		return fmt.Errorf("%s: %w: %v", op, model.ErrInvalidInput, err)
	default:
		return &model.ExtractionError{Op: op, Err: err}
	}
}

// Video looks up one video and the renditions the relay can serve.
func (s *Service) Video(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	var page extractor.VideoPage
	var streams []model.StreamCandidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.source.Video(gctx, videoID)
		return err
	})
	if s.resolver != nil {
		g.Go(func() error {
			set, err := s.resolver.Streams(gctx, videoID)
			if err != nil {
				// streams are optional on the video result
				log.Warn().Err(err).Str("video_id", videoID).Msg("Failed to resolve streams")
				return nil
			}
			streams = Fetchable(AdaptiveCandidates(set))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, lookupError("video", err)
	}

	video, err := VideoFromStream(page)
	if err != nil {
		return nil, withOp("video", err)
	}

	if streams == nil {
		streams = []model.StreamCandidate{}
	}

	return &model.VideoDetails{
		Video:       video,
		Description: tryOptional(page.Description),
		LikeCount:   tryOptional(page.LikeCount),
		ChannelID:   tryOptional(page.ChannelID),
		Streams:     streams,
	}, nil
}

// Channel returns the channel header and one page of its videos.
func (s *Service) Channel(ctx context.Context, channelID, pageToken string) (*model.ChannelResult, error) {
	page, err := s.source.Channel(ctx, channelID, pageToken)
	if err != nil {
		return nil, lookupError("channel", err)
	}

	res, err := channelResult(page)
	if err != nil {
		return nil, withOp("channel", err)
	}
	return res, nil
}

func channelResult(page extractor.ChannelPage) (*model.ChannelResult, error) {
	name, err := required("name", page.Name)
	if err != nil {
		return nil, err
	}
	url, err := required("url", page.URL)
	if err != nil {
		return nil, err
	}
	id, err := required("channel_id", page.ChannelID)
	if err != nil {
		return nil, err
	}
	raw, err := required("videos", page.Items)
	if err != nil {
		return nil, err
	}
	videos, err := aggregate(raw)
	if err != nil {
		return nil, err
	}

	return &model.ChannelResult{
		Name:        name,
		ChannelID:   id,
		URL:         url,
		Description: tryOptional(page.Description),
		Subscribers: tryOptional(page.SubscriberCount),
		Avatars:     thumbnails(page.Avatars),
		Banners:     thumbnails(page.Banners),
		Videos:      videos,
		NextPage:    nextPage(page.NextPage),
	}, nil
}

// Playlist returns the playlist header and one page of its videos.
func (s *Service) Playlist(ctx context.Context, playlistID, pageToken string) (*model.PlaylistResult, error) {
	page, err := s.source.Playlist(ctx, playlistID, pageToken)
	if err != nil {
		return nil, lookupError("playlist", err)
	}

	res, err := playlistResult(page)
	if err != nil {
		return nil, withOp("playlist", err)
	}
	return res, nil
}

func playlistResult(page extractor.PlaylistPage) (*model.PlaylistResult, error) {
	name, err := required("name", page.Name)
	if err != nil {
		return nil, err
	}
	url, err := required("url", page.URL)
	if err != nil {
		return nil, err
	}
	id, err := required("playlist_id", page.PlaylistID)
	if err != nil {
		return nil, err
	}
	raw, err := required("videos", page.Items)
	if err != nil {
		return nil, err
	}
	videos, err := aggregate(raw)
	if err != nil {
		return nil, err
	}

	return &model.PlaylistResult{
		Name:            name,
		PlaylistID:      id,
		URL:             url,
		UploaderName:    tryOptional(page.UploaderName),
		UploaderURL:     tryOptional(page.UploaderURL),
		UploaderAvatars: thumbnails(page.UploaderAvatars),
		Thumbnails:      thumbnails(page.Thumbnails),
		VideosCount:     tryOptional(page.StreamCount),
		Videos:          videos,
		NextPage:        nextPage(page.NextPage),
	}, nil
}

// Search returns one page of mixed results.
func (s *Service) Search(ctx context.Context, query, pageToken string) (*model.SearchResult, error) {
	page, err := s.source.Search(ctx, query, pageToken)
	if err != nil {
		return nil, lookupError("search", err)
	}

	raw, err := required("result", page.Items)
	if err != nil {
		return nil, withOp("search", err)
	}
	items, err := aggregate(raw)
	if err != nil {
		return nil, withOp("search", err)
	}

	return &model.SearchResult{
		Suggestion: tryOptional(page.Suggestion).FlatMap(mo.EmptyableToOption[string]),
		Result:     items,
		NextPage:   nextPage(page.NextPage),
	}, nil
}

// Trending returns the current trending list.
func (s *Service) Trending(ctx context.Context) (*model.TrendingResult, error) {
	page, err := s.source.Trending(ctx)
	if err != nil {
		return nil, lookupError("trending", err)
	}

	raw, err := required("videos", page.Items)
	if err != nil {
		return nil, withOp("trending", err)
	}
	items, err := aggregate(raw)
	if err != nil {
		return nil, withOp("trending", err)
	}
	return &model.TrendingResult{Videos: items}, nil
}

// channelSummary reads a channel page as a single channel record; the avatars serve as thumbnails.
type channelSummary struct {
	extractor.ChannelPage
}

func (c channelSummary) Thumbnails() ([]extractor.Thumbnail, error) {
	return c.Avatars()
}

func (c channelSummary) StreamCount() (int64, error) {
	return 0, extractor.ErrUnavailable
}

// Single looks up one item by kind and id and applies the same field policy as Aggregate.
func (s *Service) Single(ctx context.Context, kind model.MediaType, id string) (model.MediaItem, error) {
	op := string(kind)

	var item model.MediaItem
	var err error

	switch kind {
	case model.MediaTypeVideo:
		page, lerr := s.source.Video(ctx, id)
		if lerr != nil {
			return nil, lookupError(op, lerr)
		}
		item, err = VideoFromStream(page)
	case model.MediaTypeChannel:
		page, lerr := s.source.Channel(ctx, id, "")
		if lerr != nil {
			return nil, lookupError(op, lerr)
		}
		item, err = ChannelFromInfo(channelSummary{page})
	case model.MediaTypePlaylist:
		page, lerr := s.source.Playlist(ctx, id, "")
		if lerr != nil {
			return nil, lookupError(op, lerr)
		}
		item, err = PlaylistFromInfo(page)
	default:
		return nil, fmt.Errorf("%w: unknown media type %q", model.ErrInvalidInput, kind)
	}

	if err != nil {
		return nil, withOp(op, err)
	}
	return item, nil
}
