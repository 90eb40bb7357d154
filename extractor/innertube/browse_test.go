package innertube

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

const testChannelID = "UC1234567890123456789012"

const channelFixture = `{
  "header": {"c4TabbedHeaderRenderer": {
    "channelId": "UC1234567890123456789012",
    "title": "Gophers",
    "subscriberCountText": {"simpleText": "1.2M subscribers"},
    "avatar": {"thumbnails": [{"url": "https://yt3.ggpht.com/a=s48", "width": 48, "height": 48}, {"url": "https://yt3.ggpht.com/a=s88", "width": 88, "height": 88}]},
    "banner": {"thumbnails": [{"url": "https://yt3.ggpht.com/b=w1060", "width": 1060, "height": 175}]}
  }},
  "metadata": {"channelMetadataRenderer": {
    "title": "Gophers",
    "externalId": "UC1234567890123456789012",
    "description": "All things Go",
    "channelUrl": "https://www.youtube.com/channel/UC1234567890123456789012"
  }},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
    {"tabRenderer": {"title": "Home", "content": {"sectionListRenderer": {"contents": [
      {"itemSectionRenderer": {"contents": [{"videoRenderer": {"videoId": "homevideo01", "title": {"simpleText": "Home tab"}}}]}}
    ]}}}},
    {"tabRenderer": {"title": "Videos", "selected": true, "content": {"richGridRenderer": {"contents": [
      {"richItemRenderer": {"content": {"videoRenderer": {"videoId": "chanvideo01", "title": {"simpleText": "First upload"}}}}},
      {"richItemRenderer": {"content": {"videoRenderer": {"videoId": "chanvideo02", "title": {"simpleText": "Second upload"}}}}},
      {"continuationItemRenderer": {"continuationEndpoint": {"continuationCommand": {"token": "4qmFsgKlARIYVUM"}}}}
    ]}}}}
  ]}}
}`

const pageHeaderChannelFixture = `{
  "header": {"pageHeaderRenderer": {"content": {"pageHeaderViewModel": {
    "title": {"dynamicTextViewModel": {"text": {"content": "New Layout"}}},
    "metadata": {"contentMetadataViewModel": {"metadataRows": [
      {"metadataParts": [{"text": {"content": "@newlayout"}}]},
      {"metadataParts": [{"text": {"content": "3.4K subscribers"}}, {"text": {"content": "12 videos"}}]}
    ]}},
    "image": {"decoratedAvatarViewModel": {"avatar": {"avatarViewModel": {"image": {"sources": [{"url": "https://yt3.ggpht.com/new=s72", "width": 72, "height": 72}]}}}}},
    "banner": {"imageBannerViewModel": {"image": {"sources": [{"url": "https://yt3.ggpht.com/newbanner", "width": 2560, "height": 424}]}}}
  }}}},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": []}}
}`

const channelContinuationFixture = `{
  "onResponseReceivedActions": [{"appendContinuationItemsAction": {"continuationItems": [
    {"richItemRenderer": {"content": {"videoRenderer": {"videoId": "chanvideo03", "title": {"simpleText": "Third upload"}}}}},
    {"continuationItemRenderer": {"continuationEndpoint": {"continuationCommand": {"token": "nextnexttoken"}}}}
  ]}}]
}`

func TestChannel(t *testing.T) {
	c, fake := newTestClient(t, func(method string, payload map[string]interface{}) (int, string) {
		return http.StatusOK, channelFixture
	})

	page, err := c.Channel(context.Background(), testChannelID, "")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.callCount())
	assert.Equal(t, testChannelID, fake.payload(t, 0)["browseId"])
	assert.Equal(t, channelVideosParams, fake.payload(t, 0)["params"])

	name, _ := page.Name()
	assert.Equal(t, "Gophers", name)
	id, _ := page.ChannelID()
	assert.Equal(t, testChannelID, id)
	url, _ := page.URL()
	assert.Equal(t, "https://www.youtube.com/channel/"+testChannelID, url)
	desc, _ := page.Description()
	assert.Equal(t, "All things Go", desc)
	subs, err := page.SubscriberCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1200000), subs)

	avatars, _ := page.Avatars()
	assert.Len(t, avatars, 2)
	banners, _ := page.Banners()
	require.Len(t, banners, 1)
	assert.Equal(t, int64(1060), banners[0].Width)

	// Only the selected Videos tab contributes items
	items, _ := page.Items()
	require.Len(t, items, 2)
	first, ok := items[0].Stream()
	require.True(t, ok)
	firstID, _ := first.VideoID()
	assert.Equal(t, "chanvideo01", firstID)

	next, _ := page.NextPage()
	assert.Equal(t, "4qmFsgKlARIYVUM", next)
}

func TestChannelPageHeaderLayout(t *testing.T) {
	c, _ := newTestClient(t, func(string, map[string]interface{}) (int, string) {
		return http.StatusOK, pageHeaderChannelFixture
	})

	page, err := c.Channel(context.Background(), testChannelID, "")
	require.NoError(t, err)

	name, _ := page.Name()
	assert.Equal(t, "New Layout", name)
	id, _ := page.ChannelID()
	assert.Equal(t, testChannelID, id)
	subs, err := page.SubscriberCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3400), subs)
	avatars, _ := page.Avatars()
	require.Len(t, avatars, 1)
	assert.Equal(t, "https://yt3.ggpht.com/new=s72", avatars[0].URL)
	banners, _ := page.Banners()
	require.Len(t, banners, 1)
	_, err = page.Description()
	assert.Error(t, err)
	items, _ := page.Items()
	assert.Empty(t, items)
}

func TestChannelWithPageToken(t *testing.T) {
	c, fake := newTestClient(t, func(method string, payload map[string]interface{}) (int, string) {
		if _, ok := payload["continuation"]; ok {
			return http.StatusOK, channelContinuationFixture
		}
		return http.StatusOK, channelFixture
	})

	page, err := c.Channel(context.Background(), testChannelID, "4qmFsgKlARIYVUM")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.callCount())

	// Header still comes from the first page
	name, _ := page.Name()
	assert.Equal(t, "Gophers", name)

	items, _ := page.Items()
	require.Len(t, items, 1)
	v, _ := items[0].Stream()
	id, _ := v.VideoID()
	assert.Equal(t, "chanvideo03", id)

	next, _ := page.NextPage()
	assert.Equal(t, "nextnexttoken", next)
}

func TestChannelContinuationFailure(t *testing.T) {
	c, _ := newTestClient(t, func(method string, payload map[string]interface{}) (int, string) {
		if _, ok := payload["continuation"]; ok {
			return http.StatusBadRequest, `{"error": {"code": 400}}`
		}
		return http.StatusOK, channelFixture
	})

	_, err := c.Channel(context.Background(), testChannelID, "stale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continuation")
}

func TestChannelHandle(t *testing.T) {
	c, fake := newTestClient(t, func(method string, payload map[string]interface{}) (int, string) {
		if method == "navigation/resolve_url" {
			return http.StatusOK, `{"endpoint": {"browseEndpoint": {"browseId": "UC1234567890123456789012"}}}`
		}
		return http.StatusOK, channelFixture
	})

	page, err := c.Channel(context.Background(), "@gophers", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"navigation/resolve_url", "browse"}, fake.methods())
	assert.Equal(t, "https://www.youtube.com/@gophers", fake.payload(t, 0)["url"])
	assert.Equal(t, testChannelID, fake.payload(t, 1)["browseId"])

	id, _ := page.ChannelID()
	assert.Equal(t, testChannelID, id)
}

func TestChannelHandleNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(method string, payload map[string]interface{}) (int, string) {
		return http.StatusOK, `{"endpoint": {"urlEndpoint": {"url": "https://www.youtube.com/"}}}`
	})

	_, err := c.Channel(context.Background(), "@nobody", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, extractor.ErrNotFound))
}

const playlistFixture = `{
  "header": {"playlistHeaderRenderer": {
    "playlistId": "PLBCF2DAC6FFB574DE",
    "title": {"simpleText": "Go talks"},
    "numVideosText": {"runs": [{"text": "3"}, {"text": " videos"}]},
    "ownerText": {"runs": [{"text": "Gopher", "navigationEndpoint": {"browseEndpoint": {"browseId": "UC1234567890123456789012", "canonicalBaseUrl": "/@gopher"}}}]}
  }},
  "sidebar": {"playlistSidebarRenderer": {"items": [
    {"playlistSidebarPrimaryInfoRenderer": {
      "stats": [{"runs": [{"text": "3"}, {"text": " videos"}]}],
      "thumbnailRenderer": {"playlistVideoThumbnailRenderer": {"thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/x/hqdefault.jpg", "width": 336, "height": 188}]}}}
    }},
    {"playlistSidebarSecondaryInfoRenderer": {"videoOwner": {"videoOwnerRenderer": {
      "thumbnail": {"thumbnails": [{"url": "https://yt3.ggpht.com/owner=s48", "width": 48, "height": 48}]},
      "title": {"runs": [{"text": "Gopher"}]}
    }}}}
  ]}},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"selected": true, "content": {"sectionListRenderer": {"contents": [
    {"itemSectionRenderer": {"contents": [{"playlistVideoListRenderer": {"contents": [
      {"playlistVideoRenderer": {"videoId": "plvideo0001", "title": {"runs": [{"text": "Talk one"}]}, "lengthSeconds": "1800",
        "shortBylineText": {"runs": [{"text": "Gopher"}]}}},
      {"playlistVideoRenderer": {"videoId": "plvideo0002", "title": {"runs": [{"text": "Talk two"}]}, "lengthText": {"simpleText": "1:00:00"}}}
    ]}}]}}
  ]}}}}]}}
}`

func TestPlaylist(t *testing.T) {
	c, fake := newTestClient(t, func(string, map[string]interface{}) (int, string) {
		return http.StatusOK, playlistFixture
	})

	page, err := c.Playlist(context.Background(), "PLBCF2DAC6FFB574DE", "")
	require.NoError(t, err)
	assert.Equal(t, "VLPLBCF2DAC6FFB574DE", fake.payload(t, 0)["browseId"])

	name, _ := page.Name()
	assert.Equal(t, "Go talks", name)
	url, _ := page.URL()
	assert.Equal(t, "https://www.youtube.com/playlist?list=PLBCF2DAC6FFB574DE", url)
	count, _ := page.StreamCount()
	assert.Equal(t, int64(3), count)
	uploader, _ := page.UploaderName()
	assert.Equal(t, "Gopher", uploader)
	uploaderURL, _ := page.UploaderURL()
	assert.Equal(t, "https://www.youtube.com/@gopher", uploaderURL)
	avatars, _ := page.UploaderAvatars()
	assert.Len(t, avatars, 1)
	thumbs, _ := page.Thumbnails()
	require.Len(t, thumbs, 1)
	assert.Equal(t, int64(336), thumbs[0].Width)

	items, _ := page.Items()
	require.Len(t, items, 2)
	v, _ := items[0].Stream()
	dur, _ := v.Duration()
	assert.Equal(t, 1800, dur)
	v, _ = items[1].Stream()
	dur, _ = v.Duration()
	assert.Equal(t, 3600, dur)

	next, _ := page.NextPage()
	assert.Empty(t, next)
}

func TestPlaylistNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(string, map[string]interface{}) (int, string) {
		return http.StatusNotFound, `{}`
	})

	_, err := c.Playlist(context.Background(), "PLBCF2DAC6FFB574DE", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, extractor.ErrNotFound))
}

func TestTrending(t *testing.T) {
	c, fake := newTestClient(t, func(string, map[string]interface{}) (int, string) {
		return http.StatusOK, `{"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"selected": true, "content": {"sectionListRenderer": {"contents": [
			{"itemSectionRenderer": {"contents": [{"shelfRenderer": {"content": {"expandedShelfContentsRenderer": {"items": [
				{"videoRenderer": {"videoId": "trending001", "title": {"simpleText": "Hot"}}},
				{"videoRenderer": {"videoId": "trending002", "title": {"simpleText": "Hotter"}}}
			]}}}}]}}
		]}}}}]}}}`
	})

	page, err := c.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trendingBrowseID, fake.payload(t, 0)["browseId"])

	items, _ := page.Items()
	require.Len(t, items, 2)
	v, _ := items[1].Stream()
	name, _ := v.Name()
	assert.Equal(t, "Hotter", name)
}
