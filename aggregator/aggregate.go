// Package aggregator normalizes raw extractor records into the result model
// and serves the catalog queries on top of an extractor.Source.
package aggregator

import (
	"errors"
	"fmt"

	"github.com/samber/mo"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

// tryOptional is the single fallback point for optional fields: a failing accessor becomes None.
func tryOptional[T any](fn func() (T, error)) mo.Option[T] {
	v, err := fn()
	if err != nil {
		return mo.None[T]()
	}
	return mo.Some(v)
}

// tryFlag reads a classification flag; undeterminable means false.
func tryFlag(fn func() (bool, error)) bool {
	return tryOptional(fn).OrElse(false)
}

// nextPage surfaces a continuation handle verbatim. Empty or unreadable means no further page.
func nextPage(fn func() (string, error)) mo.Option[string] {
	return tryOptional(fn).FlatMap(mo.EmptyableToOption[string])
}

// required reads a field the result cannot exist without.
func required[T any](field string, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err != nil {
		var zero T
		return zero, &model.ExtractionError{Field: field, Err: err}
	}
	return v, nil
}

// withOp names the query on an ExtractionError that does not carry one yet.
func withOp(op string, err error) error {
	var ee *model.ExtractionError
	if errors.As(err, &ee) && ee.Op == "" {
		ee.Op = op
	}
	return err
}

// Aggregate converts raw records into MediaItems, keeping their order.
// One record missing a required field fails the whole batch.
func Aggregate(items []extractor.RawItem) ([]model.MediaItem, error) {
	out, err := aggregate(items)
	if err != nil {
		return nil, withOp("aggregate", err)
	}
	return out, nil
}

func aggregate(items []extractor.RawItem) ([]model.MediaItem, error) {
	out := make([]model.MediaItem, 0, len(items))
	for i, raw := range items {
		item, err := mediaItem(raw)
		if err != nil {
			var ee *model.ExtractionError
			if errors.As(err, &ee) {
				ee.Field = fmt.Sprintf("items[%d].%s", i, ee.Field)
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// mediaItem is the only place raw tags are matched to result variants.
func mediaItem(raw extractor.RawItem) (model.MediaItem, error) {
	switch raw.Tag() {
	case extractor.TagStream:
		if s, ok := raw.Stream(); ok {
			return VideoFromStream(s)
		}
	case extractor.TagChannel:
		if c, ok := raw.Channel(); ok {
			return ChannelFromInfo(c)
		}
	case extractor.TagPlaylist:
		if p, ok := raw.Playlist(); ok {
			return PlaylistFromInfo(p)
		}
	}
	return nil, &model.ExtractionError{Field: "tag", Err: fmt.Errorf("unusable raw item with %s", raw.Tag())}
}

// VideoFromStream builds a VideoItem. Name, URL and video id are required.
func VideoFromStream(s extractor.StreamInfoItem) (model.VideoItem, error) {
	name, err := required("name", s.Name)
	if err != nil {
		return model.VideoItem{}, err
	}
	url, err := required("url", s.URL)
	if err != nil {
		return model.VideoItem{}, err
	}
	id, err := required("video_id", s.VideoID)
	if err != nil {
		return model.VideoItem{}, err
	}

	return model.VideoItem{
		Name:           name,
		URL:            url,
		VideoID:        id,
		IsAd:           tryFlag(s.IsAd),
		IsPremiumVideo: tryFlag(s.IsPremiumVideo),
		IsLive:         tryFlag(s.IsLive),
		Duration:       tryOptional(s.Duration),
		UploaderName:   tryOptional(s.UploaderName),
		UploaderURL:    tryOptional(s.UploaderURL),
		UploadDate:     tryOptional(s.TextualUploadDate),
		ViewCount:      tryOptional(s.ViewCount),
		Thumbnails:     thumbnails(s.Thumbnails),
	}, nil
}

// ChannelFromInfo builds a ChannelItem. Name, URL and channel id are required.
func ChannelFromInfo(c extractor.ChannelInfoItem) (model.ChannelItem, error) {
	name, err := required("name", c.Name)
	if err != nil {
		return model.ChannelItem{}, err
	}
	url, err := required("url", c.URL)
	if err != nil {
		return model.ChannelItem{}, err
	}
	id, err := required("channel_id", c.ChannelID)
	if err != nil {
		return model.ChannelItem{}, err
	}

	return model.ChannelItem{
		Name:        name,
		ChannelID:   id,
		URL:         url,
		Subscribers: tryOptional(c.SubscriberCount),
		Videos:      tryOptional(c.StreamCount),
		Description: tryOptional(c.Description),
		Thumbnails:  thumbnails(c.Thumbnails),
	}, nil
}

// PlaylistFromInfo builds a PlaylistItem. Name, URL and playlist id are required.
func PlaylistFromInfo(p extractor.PlaylistInfoItem) (model.PlaylistItem, error) {
	name, err := required("name", p.Name)
	if err != nil {
		return model.PlaylistItem{}, err
	}
	url, err := required("url", p.URL)
	if err != nil {
		return model.PlaylistItem{}, err
	}
	id, err := required("playlist_id", p.PlaylistID)
	if err != nil {
		return model.PlaylistItem{}, err
	}

	return model.PlaylistItem{
		Name:         name,
		PlaylistID:   id,
		URL:          url,
		UploaderName: tryOptional(p.UploaderName),
		Videos:       tryOptional(p.StreamCount),
		Thumbnails:   thumbnails(p.Thumbnails),
	}, nil
}
