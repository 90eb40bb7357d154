package dataapi

import (
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

const baseWebURL = "https://www.youtube.com"

func watchURL(videoID string) string {
	return baseWebURL + "/watch?v=" + videoID
}

func channelURL(channelID string) string {
	return baseWebURL + "/channel/" + channelID
}

func playlistURL(playlistID string) string {
	return baseWebURL + "/playlist?list=" + playlistID
}

// parseThumbnails orders the API's named sizes from smallest to largest.
func parseThumbnails(details *ytapi.ThumbnailDetails) []extractor.Thumbnail {
	if details == nil {
		return nil
	}

	var thumbs []extractor.Thumbnail
	for _, t := range []*ytapi.Thumbnail{details.Default, details.Medium, details.High, details.Standard, details.Maxres} {
		if t == nil || t.Url == "" {
			continue
		}
		thumbs = append(thumbs, extractor.Thumbnail{URL: t.Url, Width: t.Width, Height: t.Height})
	}
	return thumbs
}

// Videos
// *********************************************

// videoItem is a video built from a search hit, playlist entry or video resource.
// details is filled in by the batched enrichment call when it succeeds.
type videoItem struct {
	id           string
	title        string
	channelID    string
	channelTitle string
	publishedAt  string
	liveContent  string
	thumbnails   *ytapi.ThumbnailDetails
	details      *ytapi.Video
}

func videoFromSearch(r *ytapi.SearchResult) *videoItem {
	v := &videoItem{id: r.Id.VideoId}
	if s := r.Snippet; s != nil {
		v.title = s.Title
		v.channelID = s.ChannelId
		v.channelTitle = s.ChannelTitle
		v.publishedAt = s.PublishedAt
		v.liveContent = s.LiveBroadcastContent
		v.thumbnails = s.Thumbnails
	}
	return v
}

func videoFromPlaylistItem(item *ytapi.PlaylistItem) *videoItem {
	v := &videoItem{}
	if cd := item.ContentDetails; cd != nil {
		v.id = cd.VideoId
		v.publishedAt = cd.VideoPublishedAt
	}
	if s := item.Snippet; s != nil {
		if v.id == "" && s.ResourceId != nil {
			v.id = s.ResourceId.VideoId
		}
		v.title = s.Title
		v.channelID = s.VideoOwnerChannelId
		v.channelTitle = s.VideoOwnerChannelTitle
		v.thumbnails = s.Thumbnails
	}
	return v
}

func videoFromVideo(video *ytapi.Video) *videoItem {
	v := &videoItem{id: video.Id, details: video}
	if s := video.Snippet; s != nil {
		v.title = s.Title
		v.channelID = s.ChannelId
		v.channelTitle = s.ChannelTitle
		v.publishedAt = s.PublishedAt
		v.liveContent = s.LiveBroadcastContent
		v.thumbnails = s.Thumbnails
	}
	return v
}

func (v *videoItem) Name() (string, error) {
	if v.title == "" {
		return "", extractor.Missing("title")
	}
	return v.title, nil
}

func (v *videoItem) VideoID() (string, error) {
	if v.id == "" {
		return "", extractor.Missing("videoId")
	}
	return v.id, nil
}

func (v *videoItem) URL() (string, error) {
	id, err := v.VideoID()
	if err != nil {
		return "", err
	}
	return watchURL(id), nil
}

func (v *videoItem) IsAd() (bool, error) {
	return false, nil
}

// The Data API does not expose membership restrictions
func (v *videoItem) IsPremiumVideo() (bool, error) {
	return false, extractor.ErrUnavailable
}

func (v *videoItem) IsLive() (bool, error) {
	return v.liveContent == "live", nil
}

func (v *videoItem) Duration() (int, error) {
	if v.details == nil || v.details.ContentDetails == nil || v.details.ContentDetails.Duration == "" {
		return 0, extractor.Missing("duration")
	}
	return parseISODuration(v.details.ContentDetails.Duration)
}

func (v *videoItem) UploaderName() (string, error) {
	if v.channelTitle == "" {
		return "", extractor.Missing("channelTitle")
	}
	return v.channelTitle, nil
}

func (v *videoItem) UploaderURL() (string, error) {
	if v.channelID == "" {
		return "", extractor.Missing("channelId")
	}
	return channelURL(v.channelID), nil
}

func (v *videoItem) TextualUploadDate() (string, error) {
	if v.publishedAt == "" {
		return "", extractor.Missing("publishedAt")
	}
	return v.publishedAt, nil
}

func (v *videoItem) ViewCount() (int64, error) {
	if v.details == nil || v.details.Statistics == nil {
		return 0, extractor.Missing("viewCount")
	}
	return int64(v.details.Statistics.ViewCount), nil
}

func (v *videoItem) Thumbnails() ([]extractor.Thumbnail, error) {
	return parseThumbnails(v.thumbnails), nil
}

// videoPage adds the single-video fields to a videoItem.
type videoPage struct {
	*videoItem
	video *ytapi.Video
}

func (p *videoPage) Description() (string, error) {
	if p.video.Snippet == nil || p.video.Snippet.Description == "" {
		return "", extractor.Missing("description")
	}
	return p.video.Snippet.Description, nil
}

func (p *videoPage) LikeCount() (int64, error) {
	// likeCount is omitted when the owner hides it
	if p.video.Statistics == nil || p.video.Statistics.LikeCount == 0 {
		return 0, extractor.Missing("likeCount")
	}
	return int64(p.video.Statistics.LikeCount), nil
}

func (p *videoPage) ChannelID() (string, error) {
	if p.channelID == "" {
		return "", extractor.Missing("channelId")
	}
	return p.channelID, nil
}

// Channels
// *********************************************

// channelItem is a channel search hit.
type channelItem struct {
	result *ytapi.SearchResult
}

func (c *channelItem) snippet() *ytapi.SearchResultSnippet {
	if c.result.Snippet == nil {
		return &ytapi.SearchResultSnippet{}
	}
	return c.result.Snippet
}

func (c *channelItem) Name() (string, error) {
	if title := c.snippet().Title; title != "" {
		return title, nil
	}
	return "", extractor.Missing("title")
}

func (c *channelItem) ChannelID() (string, error) {
	if id := c.result.Id.ChannelId; id != "" {
		return id, nil
	}
	return "", extractor.Missing("channelId")
}

func (c *channelItem) URL() (string, error) {
	id, err := c.ChannelID()
	if err != nil {
		return "", err
	}
	return channelURL(id), nil
}

func (c *channelItem) Thumbnails() ([]extractor.Thumbnail, error) {
	return parseThumbnails(c.snippet().Thumbnails), nil
}

func (c *channelItem) SubscriberCount() (int64, error) {
	return 0, extractor.ErrUnavailable
}

func (c *channelItem) StreamCount() (int64, error) {
	return 0, extractor.ErrUnavailable
}

func (c *channelItem) Description() (string, error) {
	if desc := c.snippet().Description; desc != "" {
		return desc, nil
	}
	return "", extractor.Missing("description")
}

type channelPage struct {
	channel *ytapi.Channel
	items   []extractor.RawItem
	next    string
}

func (p *channelPage) snippet() *ytapi.ChannelSnippet {
	if p.channel.Snippet == nil {
		return &ytapi.ChannelSnippet{}
	}
	return p.channel.Snippet
}

func (p *channelPage) Name() (string, error) {
	if title := p.snippet().Title; title != "" {
		return title, nil
	}
	return "", extractor.Missing("title")
}

func (p *channelPage) ChannelID() (string, error) {
	if p.channel.Id == "" {
		return "", extractor.Missing("channelId")
	}
	return p.channel.Id, nil
}

func (p *channelPage) URL() (string, error) {
	if handle := p.snippet().CustomUrl; handle != "" {
		return baseWebURL + "/" + handle, nil
	}
	id, err := p.ChannelID()
	if err != nil {
		return "", err
	}
	return channelURL(id), nil
}

func (p *channelPage) Avatars() ([]extractor.Thumbnail, error) {
	return parseThumbnails(p.snippet().Thumbnails), nil
}

func (p *channelPage) Banners() ([]extractor.Thumbnail, error) {
	b := p.channel.BrandingSettings
	if b == nil || b.Image == nil || b.Image.BannerExternalUrl == "" {
		return nil, nil
	}
	return []extractor.Thumbnail{{URL: b.Image.BannerExternalUrl}}, nil
}

func (p *channelPage) Description() (string, error) {
	if desc := p.snippet().Description; desc != "" {
		return desc, nil
	}
	return "", extractor.Missing("description")
}

func (p *channelPage) SubscriberCount() (int64, error) {
	stats := p.channel.Statistics
	if stats == nil || stats.HiddenSubscriberCount {
		return 0, extractor.Missing("subscriberCount")
	}
	return int64(stats.SubscriberCount), nil
}

func (p *channelPage) Items() ([]extractor.RawItem, error) {
	return p.items, nil
}

func (p *channelPage) NextPage() (string, error) {
	return p.next, nil
}

// Playlists
// *********************************************

// playlistItem is a playlist search hit.
type playlistItem struct {
	result *ytapi.SearchResult
}

func (p *playlistItem) snippet() *ytapi.SearchResultSnippet {
	if p.result.Snippet == nil {
		return &ytapi.SearchResultSnippet{}
	}
	return p.result.Snippet
}

func (p *playlistItem) Name() (string, error) {
	if title := p.snippet().Title; title != "" {
		return title, nil
	}
	return "", extractor.Missing("title")
}

func (p *playlistItem) PlaylistID() (string, error) {
	if id := p.result.Id.PlaylistId; id != "" {
		return id, nil
	}
	return "", extractor.Missing("playlistId")
}

func (p *playlistItem) URL() (string, error) {
	id, err := p.PlaylistID()
	if err != nil {
		return "", err
	}
	return playlistURL(id), nil
}

func (p *playlistItem) Thumbnails() ([]extractor.Thumbnail, error) {
	return parseThumbnails(p.snippet().Thumbnails), nil
}

func (p *playlistItem) UploaderName() (string, error) {
	if name := p.snippet().ChannelTitle; name != "" {
		return name, nil
	}
	return "", extractor.Missing("channelTitle")
}

func (p *playlistItem) StreamCount() (int64, error) {
	return 0, extractor.ErrUnavailable
}

type playlistPage struct {
	playlist *ytapi.Playlist
	items    []extractor.RawItem
	next     string
}

func (p *playlistPage) snippet() *ytapi.PlaylistSnippet {
	if p.playlist.Snippet == nil {
		return &ytapi.PlaylistSnippet{}
	}
	return p.playlist.Snippet
}

func (p *playlistPage) Name() (string, error) {
	if title := p.snippet().Title; title != "" {
		return title, nil
	}
	return "", extractor.Missing("title")
}

func (p *playlistPage) PlaylistID() (string, error) {
	if p.playlist.Id == "" {
		return "", extractor.Missing("playlistId")
	}
	return p.playlist.Id, nil
}

func (p *playlistPage) URL() (string, error) {
	id, err := p.PlaylistID()
	if err != nil {
		return "", err
	}
	return playlistURL(id), nil
}

func (p *playlistPage) UploaderName() (string, error) {
	if name := p.snippet().ChannelTitle; name != "" {
		return name, nil
	}
	return "", extractor.Missing("channelTitle")
}

func (p *playlistPage) UploaderURL() (string, error) {
	if id := p.snippet().ChannelId; id != "" {
		return channelURL(id), nil
	}
	return "", extractor.Missing("channelId")
}

func (p *playlistPage) UploaderAvatars() ([]extractor.Thumbnail, error) {
	return nil, nil
}

func (p *playlistPage) Thumbnails() ([]extractor.Thumbnail, error) {
	return parseThumbnails(p.snippet().Thumbnails), nil
}

func (p *playlistPage) StreamCount() (int64, error) {
	if p.playlist.ContentDetails == nil {
		return 0, extractor.Missing("itemCount")
	}
	return p.playlist.ContentDetails.ItemCount, nil
}

func (p *playlistPage) Items() ([]extractor.RawItem, error) {
	return p.items, nil
}

func (p *playlistPage) NextPage() (string, error) {
	return p.next, nil
}

// Search and trending
// *********************************************

type searchPage struct {
	items []extractor.RawItem
	next  string
}

// The Data API has no spelling suggestions
func (p *searchPage) Suggestion() (string, error) {
	return "", extractor.ErrUnavailable
}

func (p *searchPage) Items() ([]extractor.RawItem, error) {
	return p.items, nil
}

func (p *searchPage) NextPage() (string, error) {
	return p.next, nil
}

type trendingPage struct {
	items []extractor.RawItem
}

func (p *trendingPage) Items() ([]extractor.RawItem, error) {
	return p.items, nil
}
