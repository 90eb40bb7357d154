// Package model contains the request-scoped result model returned by the gateway:
// the closed MediaItem variant set, thumbnails, stream candidates and the page containers.
package model

import (
	"encoding/json"

	"github.com/samber/mo"
)

// MediaType discriminates the MediaItem variants on the wire.
type MediaType string

const (
	MediaTypeVideo    MediaType = "video"
	MediaTypePlaylist MediaType = "playlist"
	MediaTypeChannel  MediaType = "channel"
)

// MediaItem is one of VideoItem, PlaylistItem or ChannelItem.
// The set is closed: only types in this package implement it.
type MediaItem interface {
	MediaType() MediaType
	isMediaItem()
}

// Thumbnail is an image rendition with a canonical, directly fetchable URL.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoItem is a single video entry of a catalog result.
type VideoItem struct {
	Name           string            `json:"name"`
	URL            string            `json:"url"`
	VideoID        string            `json:"video_id"`
	IsAd           bool              `json:"is_ad"`
	IsPremiumVideo bool              `json:"is_premium_video"`
	IsLive         bool              `json:"is_live"`
	Duration       mo.Option[int]    `json:"duration"`
	UploaderName   mo.Option[string] `json:"uploader_name"`
	UploaderURL    mo.Option[string] `json:"uploader_url"`
	UploadDate     mo.Option[string] `json:"upload_date"`
	ViewCount      mo.Option[int64]  `json:"view_count"`
	Thumbnails     []Thumbnail       `json:"thumbnail"`
}

// PlaylistItem is a playlist entry of a catalog result.
type PlaylistItem struct {
	Name         string            `json:"name"`
	PlaylistID   string            `json:"playlist_id"`
	URL          string            `json:"url"`
	UploaderName mo.Option[string] `json:"uploader_name"`
	Videos       mo.Option[int64]  `json:"videos"`
	Thumbnails   []Thumbnail       `json:"thumbnail"`
}

// ChannelItem is a channel entry of a catalog result.
type ChannelItem struct {
	Name        string            `json:"name"`
	ChannelID   string            `json:"channel_id"`
	URL         string            `json:"url"`
	Subscribers mo.Option[int64]  `json:"subscribers"`
	Videos      mo.Option[int64]  `json:"videos"`
	Description mo.Option[string] `json:"description"`
	Thumbnails  []Thumbnail       `json:"thumbnail"`
}

func (VideoItem) MediaType() MediaType    { return MediaTypeVideo }
func (PlaylistItem) MediaType() MediaType { return MediaTypePlaylist }
func (ChannelItem) MediaType() MediaType  { return MediaTypeChannel }

func (VideoItem) isMediaItem()    {}
func (PlaylistItem) isMediaItem() {}
func (ChannelItem) isMediaItem()  {}

// MarshalJSON adds the "type" discriminator.
func (v VideoItem) MarshalJSON() ([]byte, error) {
	type plain VideoItem
	return json.Marshal(struct {
		Type MediaType `json:"type"`
		plain
	}{MediaTypeVideo, plain(v)})
}

// MarshalJSON adds the "type" discriminator.
func (p PlaylistItem) MarshalJSON() ([]byte, error) {
	type plain PlaylistItem
	return json.Marshal(struct {
		Type MediaType `json:"type"`
		plain
	}{MediaTypePlaylist, plain(p)})
}

// MarshalJSON adds the "type" discriminator.
func (c ChannelItem) MarshalJSON() ([]byte, error) {
	type plain ChannelItem
	return json.Marshal(struct {
		Type MediaType `json:"type"`
		plain
	}{MediaTypeChannel, plain(c)})
}

// StreamKind describes which tracks a stream rendition carries.
type StreamKind string

const (
	StreamKindVideoAudio StreamKind = "video+audio"
	StreamKindVideoOnly  StreamKind = "video-only"
	StreamKindAudioOnly  StreamKind = "audio-only"
)

// StreamCandidate is one rendition of a video that the relay may serve.
// URL is absent when the source could not resolve a playable address.
type StreamCandidate struct {
	Itag       int               `json:"itag"`
	URL        mo.Option[string] `json:"-"`
	Bitrate    int64             `json:"bitrate"`
	Resolution mo.Option[string] `json:"resolution"`
	MimeType   string            `json:"mime_type,omitempty"`
	Kind       StreamKind        `json:"kind"`
}

// Fetchable reports whether the candidate has an origin URL.
func (s StreamCandidate) Fetchable() bool {
	return s.URL.IsPresent()
}

// Containers
// *********************************************

// VideoDetails is the result of a single video lookup.
type VideoDetails struct {
	Video       VideoItem         `json:"video"`
	Description mo.Option[string] `json:"description"`
	LikeCount   mo.Option[int64]  `json:"like_count"`
	ChannelID   mo.Option[string] `json:"channel_id"`
	// Streams lists the video-only and audio-only candidates with an origin URL,
	// i.e. the itags /vid/{videoId}/{itag} serves.
	Streams []StreamCandidate `json:"streams"`
}

// ChannelResult is a channel header plus one page of its videos.
type ChannelResult struct {
	Name        string            `json:"name"`
	ChannelID   string            `json:"channel_id"`
	URL         string            `json:"url"`
	Description mo.Option[string] `json:"description"`
	Subscribers mo.Option[int64]  `json:"subscribers"`
	Avatars     []Thumbnail       `json:"avatars"`
	Banners     []Thumbnail       `json:"banners"`
	Videos      []MediaItem       `json:"videos"`
	NextPage    mo.Option[string] `json:"next_page_url"`
}

// PlaylistResult is a playlist header plus one page of its videos.
type PlaylistResult struct {
	Name            string            `json:"name"`
	PlaylistID      string            `json:"playlist_id"`
	URL             string            `json:"url"`
	UploaderName    mo.Option[string] `json:"uploader_name"`
	UploaderURL     mo.Option[string] `json:"uploader_url"`
	UploaderAvatars []Thumbnail       `json:"uploader_avatars"`
	Thumbnails      []Thumbnail       `json:"thumbnails"`
	VideosCount     mo.Option[int64]  `json:"videos_count"`
	Videos          []MediaItem       `json:"videos"`
	NextPage        mo.Option[string] `json:"next_page_url"`
}

// SearchResult is one page of mixed search results.
type SearchResult struct {
	Suggestion mo.Option[string] `json:"suggestion"`
	Result     []MediaItem       `json:"result"`
	NextPage   mo.Option[string] `json:"next_page_url"`
}

// TrendingResult is the current trending list.
type TrendingResult struct {
	Videos []MediaItem `json:"videos"`
}
