// Package extractor defines the boundary to the content-extraction engine:
// lazily evaluated accessor interfaces over raw catalog records, the closed RawItem
// variant, page containers, and the Source / StreamResolver operations.
package extractor

import (
	"context"
)

// Thumbnail is an image as reported by the source, before URL canonicalization.
type Thumbnail struct {
	URL    string
	Width  int64
	Height int64
}

// StreamInfoItem is a raw video record. Every accessor may fail independently.
type StreamInfoItem interface {
	// Name returns the video title
	Name() (string, error)

	// URL returns the canonical watch URL
	URL() (string, error)

	// VideoID returns the 11 character video id
	VideoID() (string, error)

	IsAd() (bool, error)
	IsPremiumVideo() (bool, error)
	IsLive() (bool, error)

	// Duration returns the length in seconds
	Duration() (int, error)

	UploaderName() (string, error)
	UploaderURL() (string, error)

	// TextualUploadDate returns the upload date as the source renders it ("3 days ago", "2024-01-02")
	TextualUploadDate() (string, error)

	ViewCount() (int64, error)
	Thumbnails() ([]Thumbnail, error)
}

// ChannelInfoItem is a raw channel record.
type ChannelInfoItem interface {
	Name() (string, error)
	URL() (string, error)
	ChannelID() (string, error)
	Thumbnails() ([]Thumbnail, error)
	SubscriberCount() (int64, error)

	// StreamCount returns the number of videos on the channel
	StreamCount() (int64, error)

	Description() (string, error)
}

// PlaylistInfoItem is a raw playlist record.
type PlaylistInfoItem interface {
	Name() (string, error)
	URL() (string, error)
	PlaylistID() (string, error)
	Thumbnails() ([]Thumbnail, error)
	UploaderName() (string, error)

	// StreamCount returns the number of videos in the playlist
	StreamCount() (int64, error)
}

// Page containers
// *********************************************

// VideoPage is the result of a single video lookup.
type VideoPage interface {
	StreamInfoItem
	Description() (string, error)
	LikeCount() (int64, error)
	ChannelID() (string, error)
}

// ChannelPage is a channel header plus one page of its uploads.
type ChannelPage interface {
	Name() (string, error)
	URL() (string, error)
	ChannelID() (string, error)
	Avatars() ([]Thumbnail, error)
	Banners() ([]Thumbnail, error)
	Description() (string, error)
	SubscriberCount() (int64, error)
	Items() ([]RawItem, error)

	// NextPage returns the continuation handle, empty when there are no further pages
	NextPage() (string, error)
}

// PlaylistPage is a playlist header plus one page of its entries.
type PlaylistPage interface {
	Name() (string, error)
	URL() (string, error)
	PlaylistID() (string, error)
	UploaderName() (string, error)
	UploaderURL() (string, error)
	UploaderAvatars() ([]Thumbnail, error)
	Thumbnails() ([]Thumbnail, error)
	StreamCount() (int64, error)
	Items() ([]RawItem, error)
	NextPage() (string, error)
}

// SearchPage is one page of mixed search results.
type SearchPage interface {
	Suggestion() (string, error)
	Items() ([]RawItem, error)
	NextPage() (string, error)
}

// TrendingPage is the trending list.
type TrendingPage interface {
	Items() ([]RawItem, error)
}

// Operations
// *********************************************

// Source performs catalog lookups against an extraction backend.
// Page tokens are opaque and passed back verbatim; an empty token requests the first page.
type Source interface {
	Video(ctx context.Context, videoID string) (VideoPage, error)
	Channel(ctx context.Context, channelID, pageToken string) (ChannelPage, error)
	Playlist(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error)
	Search(ctx context.Context, query, pageToken string) (SearchPage, error)
	Trending(ctx context.Context) (TrendingPage, error)
}

// Stream is a raw stream rendition. URL is empty when the source could not resolve
// a playable address (e.g. a ciphered signature).
type Stream struct {
	Itag       int
	URL        string
	Bitrate    int64
	Resolution string
	MimeType   string
}

// StreamSet holds the three independent rendition lists of a video.
type StreamSet struct {
	Combined  []Stream
	VideoOnly []Stream
	AudioOnly []Stream
}

// StreamResolver lists the stream renditions of a video.
type StreamResolver interface {
	Streams(ctx context.Context, videoID string) (StreamSet, error)
}

// Backend is a Source that can also resolve streams.
type Backend interface {
	Source
	StreamResolver
}
