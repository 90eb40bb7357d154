package aggregator

import (
	"context"
	"errors"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

var errBoom = errors.New("boom")

// fakeFields backs the accessor fakes; a field listed in fail returns errBoom.
type fakeFields struct {
	fail map[string]bool
}

func (f fakeFields) err(field string) error {
	if f.fail[field] {
		return errBoom
	}
	return nil
}

func failing(fields ...string) fakeFields {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return fakeFields{fail: m}
}

type fakeStream struct {
	fakeFields
	name, url, id string
	live          bool
	thumbs        []extractor.Thumbnail
}

func (s *fakeStream) Name() (string, error)         { return s.name, s.err("name") }
func (s *fakeStream) URL() (string, error)          { return s.url, s.err("url") }
func (s *fakeStream) VideoID() (string, error)      { return s.id, s.err("id") }
func (s *fakeStream) IsAd() (bool, error)           { return false, s.err("ad") }
func (s *fakeStream) IsPremiumVideo() (bool, error) { return true, s.err("premium") }
func (s *fakeStream) IsLive() (bool, error)         { return s.live, s.err("live") }
func (s *fakeStream) Duration() (int, error)        { return 212, s.err("duration") }
func (s *fakeStream) UploaderName() (string, error) { return "Rick Astley", s.err("uploader") }
func (s *fakeStream) UploaderURL() (string, error) {
	return "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", s.err("uploader_url")
}
func (s *fakeStream) TextualUploadDate() (string, error) { return "15 years ago", s.err("date") }
func (s *fakeStream) ViewCount() (int64, error)          { return 1500, s.err("views") }
func (s *fakeStream) Thumbnails() ([]extractor.Thumbnail, error) {
	return s.thumbs, s.err("thumbnails")
}

func newStream(id string) *fakeStream {
	return &fakeStream{name: "Video " + id, url: "https://www.youtube.com/watch?v=" + id, id: id}
}

type fakeChannel struct {
	fakeFields
	name, url, id string
}

func (c *fakeChannel) Name() (string, error)      { return c.name, c.err("name") }
func (c *fakeChannel) URL() (string, error)       { return c.url, c.err("url") }
func (c *fakeChannel) ChannelID() (string, error) { return c.id, c.err("id") }
func (c *fakeChannel) Thumbnails() ([]extractor.Thumbnail, error) {
	return []extractor.Thumbnail{{URL: "//yt3.ggpht.com/a=s88", Width: 88, Height: 88}}, c.err("thumbnails")
}
func (c *fakeChannel) SubscriberCount() (int64, error) { return 1200, c.err("subscribers") }
func (c *fakeChannel) StreamCount() (int64, error)     { return 34, c.err("videos") }
func (c *fakeChannel) Description() (string, error)    { return "about", c.err("description") }

func newChannel(id string) *fakeChannel {
	return &fakeChannel{name: "Channel " + id, url: "https://www.youtube.com/channel/" + id, id: id}
}

type fakePlaylist struct {
	fakeFields
	name, url, id string
}

func (p *fakePlaylist) Name() (string, error)       { return p.name, p.err("name") }
func (p *fakePlaylist) URL() (string, error)        { return p.url, p.err("url") }
func (p *fakePlaylist) PlaylistID() (string, error) { return p.id, p.err("id") }
func (p *fakePlaylist) Thumbnails() ([]extractor.Thumbnail, error) {
	return nil, p.err("thumbnails")
}
func (p *fakePlaylist) UploaderName() (string, error) { return "Carol", p.err("uploader") }
func (p *fakePlaylist) StreamCount() (int64, error)   { return 3, p.err("videos") }

func newPlaylist(id string) *fakePlaylist {
	return &fakePlaylist{name: "Playlist " + id, url: "https://www.youtube.com/playlist?list=" + id, id: id}
}

// Pages
// *********************************************

type fakeVideoPage struct {
	*fakeStream
}

func (p fakeVideoPage) Description() (string, error) { return "", extractor.Missing("description") }
func (p fakeVideoPage) LikeCount() (int64, error)    { return 10, nil }
func (p fakeVideoPage) ChannelID() (string, error)   { return "UCuAXFkgsw1L7xaCfnd5JJOw", nil }

type fakeChannelPage struct {
	*fakeChannel
	items []extractor.RawItem
	next  string
}

func (p *fakeChannelPage) Avatars() ([]extractor.Thumbnail, error) { return p.fakeChannel.Thumbnails() }
func (p *fakeChannelPage) Banners() ([]extractor.Thumbnail, error) {
	return []extractor.Thumbnail{{URL: "http://yt3.ggpht.com/banner", Width: 2560, Height: -1}}, nil
}
func (p *fakeChannelPage) Items() ([]extractor.RawItem, error) { return p.items, p.err("items") }
func (p *fakeChannelPage) NextPage() (string, error)           { return p.next, nil }

type fakePlaylistPage struct {
	*fakePlaylist
	items []extractor.RawItem
	next  string
}

func (p *fakePlaylistPage) UploaderURL() (string, error) {
	return "", extractor.Missing("uploader_url")
}
func (p *fakePlaylistPage) UploaderAvatars() ([]extractor.Thumbnail, error) {
	return nil, extractor.ErrUnavailable
}
func (p *fakePlaylistPage) Items() ([]extractor.RawItem, error) { return p.items, p.err("items") }
func (p *fakePlaylistPage) NextPage() (string, error)           { return p.next, p.err("next") }

type fakeSearchPage struct {
	suggestion string
	items      []extractor.RawItem
	next       string
}

func (p *fakeSearchPage) Suggestion() (string, error)         { return p.suggestion, nil }
func (p *fakeSearchPage) Items() ([]extractor.RawItem, error) { return p.items, nil }
func (p *fakeSearchPage) NextPage() (string, error)           { return p.next, nil }

type fakeTrendingPage struct {
	items []extractor.RawItem
}

func (p *fakeTrendingPage) Items() ([]extractor.RawItem, error) { return p.items, nil }

// fakeSource returns fixed pages and records the page tokens it was given.
type fakeSource struct {
	video    extractor.VideoPage
	channel  extractor.ChannelPage
	playlist extractor.PlaylistPage
	search   extractor.SearchPage
	trending extractor.TrendingPage
	err      error

	tokens []string
}

func (s *fakeSource) Video(ctx context.Context, videoID string) (extractor.VideoPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.video, nil
}

func (s *fakeSource) Channel(ctx context.Context, channelID, pageToken string) (extractor.ChannelPage, error) {
	s.tokens = append(s.tokens, pageToken)
	if s.err != nil {
		return nil, s.err
	}
	return s.channel, nil
}

func (s *fakeSource) Playlist(ctx context.Context, playlistID, pageToken string) (extractor.PlaylistPage, error) {
	s.tokens = append(s.tokens, pageToken)
	if s.err != nil {
		return nil, s.err
	}
	return s.playlist, nil
}

func (s *fakeSource) Search(ctx context.Context, query, pageToken string) (extractor.SearchPage, error) {
	s.tokens = append(s.tokens, pageToken)
	if s.err != nil {
		return nil, s.err
	}
	return s.search, nil
}

func (s *fakeSource) Trending(ctx context.Context) (extractor.TrendingPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.trending, nil
}

type fakeResolver struct {
	set extractor.StreamSet
	err error
}

func (r *fakeResolver) Streams(ctx context.Context, videoID string) (extractor.StreamSet, error) {
	return r.set, r.err
}
