package innertube

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

const (
	// Selects the Videos tab of a channel
	channelVideosParams = "EgZ2aWRlb3PyBgQKAjoA"

	trendingBrowseID = "FEtrending"
)

// listing holds the items and continuation shared by every paged container.
type listing struct {
	items []extractor.RawItem
	next  string
}

func (l *listing) Items() ([]extractor.RawItem, error) {
	return l.items, nil
}

func (l *listing) NextPage() (string, error) {
	return l.next, nil
}

func newListing(c collected) listing {
	return listing{items: c.items, next: c.continuation}
}

// browse calls the browse endpoint for browseID, or for a continuation when token is set.
func (c *Client) browse(ctx context.Context, browseID, params, token string) (map[string]interface{}, error) {
	payload := map[string]any{}
	if token != "" {
		payload["continuation"] = token
	} else {
		payload["browseId"] = browseID
		if params != "" {
			payload["params"] = params
		}
	}

	data, err := c.post(ctx, "browse", payload, false)
	if err != nil {
		return nil, err
	}
	if err := alertError(data); err != nil {
		return nil, err
	}
	return data, nil
}

// browsePaged fetches the header page of browseID and, if token is set, the continuation page concurrently.
// The returned listing comes from the continuation when one was requested.
func (c *Client) browsePaged(ctx context.Context, browseID, params, token string) (map[string]interface{}, listing, error) {
	var header, cont map[string]interface{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		header, err = c.browse(gctx, browseID, params, "")
		return err
	})
	if token != "" {
		g.Go(func() error {
			var err error
			cont, err = c.browse(gctx, "", "", token)
			if err != nil {
				return fmt.Errorf("continuation: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, listing{}, err
	}

	if token != "" {
		return header, newListing(collectItems(continuationRoot(cont))), nil
	}
	return header, newListing(collectItems(selectedTabContent(header))), nil
}

// selectedTabContent returns the content of the selected tab, falling back to the first tab with content.
func selectedTabContent(data map[string]interface{}) interface{} {
	tabs, ok := getSlice(data, "contents", "twoColumnBrowseResultsRenderer", "tabs")
	if !ok {
		content, _ := dig(data, "contents")
		return content
	}

	var first interface{}
	for _, tab := range tabs {
		content, ok := dig(tab, "tabRenderer", "content")
		if !ok {
			if content, ok = dig(tab, "expandableTabRenderer", "content"); !ok {
				continue
			}
		}
		if selected, _ := getBool(tab, "tabRenderer", "selected"); selected {
			return content
		}
		if first == nil {
			first = content
		}
	}
	return first
}

// continuationRoot returns the subtrees of a continuation response that carry appended items.
func continuationRoot(data map[string]interface{}) interface{} {
	return []interface{}{
		data["onResponseReceivedActions"],
		data["onResponseReceivedCommands"],
		data["onResponseReceivedEndpoints"],
		data["continuationContents"],
	}
}

// resolveHandle maps an @handle to its UC channel id.
func (c *Client) resolveHandle(ctx context.Context, handle string) (string, error) {
	data, err := c.post(ctx, "navigation/resolve_url", map[string]any{"url": baseWebURL + "/" + handle}, false)
	if err != nil {
		return "", fmt.Errorf("failed to resolve handle %s: %w", handle, err)
	}
	id, ok := getString(data, "endpoint", "browseEndpoint", "browseId")
	if !ok || !strings.HasPrefix(id, channelIDPrefix) {
		return "", fmt.Errorf("handle %s: %w", handle, extractor.ErrNotFound)
	}
	return id, nil
}

// Channel
// *********************************************

// Channel fetches a channel header and one page of its uploads.
func (c *Client) Channel(ctx context.Context, channelID, pageToken string) (extractor.ChannelPage, error) {
	if err := validateChannelID(channelID); err != nil {
		return nil, fmt.Errorf("%w: channel ID: %w", extractor.ErrInvalidID, err)
	}

	log.Info().Str("channel_id", channelID).Bool("continuation", pageToken != "").Msg("Fetching YouTube channel via InnerTube")

	browseID := channelID
	if strings.HasPrefix(channelID, "@") {
		resolved, err := c.resolveHandle(ctx, channelID)
		if err != nil {
			return nil, err
		}
		browseID = resolved
	}

	header, list, err := c.browsePaged(ctx, browseID, channelVideosParams, pageToken)
	if err != nil {
		return nil, fmt.Errorf("failed to browse channel %s: %w", channelID, err)
	}

	log.Debug().
		Str("channel_id", browseID).
		Int("items", len(list.items)).
		Bool("has_next", list.next != "").
		Msg("Parsed channel page from InnerTube")

	return &channelPage{data: header, browseID: browseID, listing: list}, nil
}

// channelPage reads the channel header from the browse response. YouTube serves both the
// legacy c4TabbedHeaderRenderer and the newer pageHeaderViewModel, so each accessor tries both.
type channelPage struct {
	listing
	data     map[string]interface{}
	browseID string
}

func (p *channelPage) meta() map[string]interface{} {
	m, _ := getMap(p.data, "metadata", "channelMetadataRenderer")
	return m
}

func (p *channelPage) c4() map[string]interface{} {
	m, _ := getMap(p.data, "header", "c4TabbedHeaderRenderer")
	return m
}

func (p *channelPage) pageHeader() map[string]interface{} {
	if m, ok := getMap(p.data, "header", "pageHeaderRenderer", "content", "pageHeaderViewModel"); ok {
		return m
	}
	m, _ := getMap(p.data, "header", "pageHeaderViewModel")
	return m
}

func (p *channelPage) Name() (string, error) {
	if name, ok := getString(p.meta(), "title"); ok {
		return name, nil
	}
	if name, ok := textAt(p.c4(), "title"); ok {
		return name, nil
	}
	if name, ok := textAt(p.pageHeader(), "title", "dynamicTextViewModel", "text"); ok {
		return name, nil
	}
	return "", extractor.Missing("name")
}

func (p *channelPage) ChannelID() (string, error) {
	if id, ok := getString(p.meta(), "externalId"); ok {
		return id, nil
	}
	if id, ok := getString(p.c4(), "channelId"); ok {
		return id, nil
	}
	if strings.HasPrefix(p.browseID, channelIDPrefix) {
		return p.browseID, nil
	}
	return "", extractor.Missing("channelId")
}

func (p *channelPage) URL() (string, error) {
	if url, ok := getString(p.meta(), "channelUrl"); ok {
		return url, nil
	}
	id, err := p.ChannelID()
	if err != nil {
		return "", err
	}
	return channelURL(id), nil
}

func (p *channelPage) Avatars() ([]extractor.Thumbnail, error) {
	if node, ok := dig(p.meta(), "avatar"); ok {
		return parseThumbnails(node), nil
	}
	if node, ok := dig(p.c4(), "avatar"); ok {
		return parseThumbnails(node), nil
	}
	node, _ := dig(p.pageHeader(), "image", "decoratedAvatarViewModel", "avatar", "avatarViewModel", "image")
	return parseThumbnails(node), nil
}

func (p *channelPage) Banners() ([]extractor.Thumbnail, error) {
	if node, ok := dig(p.c4(), "banner"); ok {
		return parseThumbnails(node), nil
	}
	node, _ := dig(p.pageHeader(), "banner", "imageBannerViewModel", "image")
	return parseThumbnails(node), nil
}

func (p *channelPage) Description() (string, error) {
	if desc, ok := getString(p.meta(), "description"); ok {
		return desc, nil
	}
	return "", extractor.Missing("description")
}

func (p *channelPage) SubscriberCount() (int64, error) {
	if v, ok := dig(p.c4(), "subscriberCountText"); ok {
		if count, ok := parseCount(v); ok {
			return count, nil
		}
	}

	// pageHeaderViewModel lists "1.2M subscribers" among untyped metadata parts
	rows, _ := getSlice(p.pageHeader(), "metadata", "contentMetadataViewModel", "metadataRows")
	for _, row := range rows {
		parts, _ := getSlice(row, "metadataParts")
		for _, part := range parts {
			content, ok := textAt(part, "text")
			if ok && strings.Contains(strings.ToLower(content), "subscriber") {
				if count, ok := parseCountFromText(content); ok {
					return count, nil
				}
			}
		}
	}
	return 0, extractor.Missing("subscriberCount")
}

// Playlist
// *********************************************

// Playlist fetches a playlist header and one page of its entries.
func (c *Client) Playlist(ctx context.Context, playlistID, pageToken string) (extractor.PlaylistPage, error) {
	if err := validatePlaylistID(playlistID); err != nil {
		return nil, fmt.Errorf("%w: playlist ID: %w", extractor.ErrInvalidID, err)
	}

	log.Info().Str("playlist_id", playlistID).Bool("continuation", pageToken != "").Msg("Fetching YouTube playlist via InnerTube")

	header, list, err := c.browsePaged(ctx, "VL"+playlistID, "", pageToken)
	if err != nil {
		return nil, fmt.Errorf("failed to browse playlist %s: %w", playlistID, err)
	}

	return &playlistPage{data: header, playlistID: playlistID, listing: list}, nil
}

type playlistPage struct {
	listing
	data       map[string]interface{}
	playlistID string
}

func (p *playlistPage) header() map[string]interface{} {
	m, _ := getMap(p.data, "header", "playlistHeaderRenderer")
	return m
}

// sidebar returns the named renderer from the playlist sidebar.
func (p *playlistPage) sidebar(name string) map[string]interface{} {
	items, _ := getSlice(p.data, "sidebar", "playlistSidebarRenderer", "items")
	for _, item := range items {
		if m, ok := getMap(item, name); ok {
			return m
		}
	}
	return nil
}

func (p *playlistPage) ownerRun() (interface{}, bool) {
	if run, ok := dig(p.header(), "ownerText", "runs", "0"); ok {
		return run, true
	}
	return dig(p.sidebar("playlistSidebarSecondaryInfoRenderer"), "videoOwner", "videoOwnerRenderer", "title", "runs", "0")
}

func (p *playlistPage) Name() (string, error) {
	if name, ok := getString(p.data, "metadata", "playlistMetadataRenderer", "title"); ok {
		return name, nil
	}
	if name, ok := textAt(p.header(), "title"); ok {
		return name, nil
	}
	if name, ok := textAt(p.data, "header", "pageHeaderRenderer", "pageTitle"); ok {
		return name, nil
	}
	return "", extractor.Missing("name")
}

func (p *playlistPage) PlaylistID() (string, error) {
	if id, ok := getString(p.header(), "playlistId"); ok {
		return id, nil
	}
	return p.playlistID, nil
}

func (p *playlistPage) URL() (string, error) {
	id, err := p.PlaylistID()
	if err != nil {
		return "", err
	}
	return playlistURL(id), nil
}

func (p *playlistPage) UploaderName() (string, error) {
	if run, ok := p.ownerRun(); ok {
		if name, ok := getString(run, "text"); ok {
			return name, nil
		}
	}
	return "", extractor.Missing("uploaderName")
}

func (p *playlistPage) UploaderURL() (string, error) {
	if run, ok := p.ownerRun(); ok {
		if url, ok := navigationURL(run); ok {
			return url, nil
		}
	}
	return "", extractor.Missing("uploaderUrl")
}

func (p *playlistPage) UploaderAvatars() ([]extractor.Thumbnail, error) {
	node, _ := dig(p.sidebar("playlistSidebarSecondaryInfoRenderer"), "videoOwner", "videoOwnerRenderer", "thumbnail")
	return parseThumbnails(node), nil
}

func (p *playlistPage) Thumbnails() ([]extractor.Thumbnail, error) {
	if node, ok := dig(p.sidebar("playlistSidebarPrimaryInfoRenderer"), "thumbnailRenderer", "playlistVideoThumbnailRenderer", "thumbnail"); ok {
		return parseThumbnails(node), nil
	}
	if node, ok := dig(p.header(), "playlistHeaderBanner", "heroPlaylistThumbnailRenderer", "thumbnail"); ok {
		return parseThumbnails(node), nil
	}
	node, _ := dig(p.data, "microformat", "microformatDataRenderer", "thumbnail")
	return parseThumbnails(node), nil
}

func (p *playlistPage) StreamCount() (int64, error) {
	if v, ok := dig(p.header(), "numVideosText"); ok {
		if count, ok := parseCount(v); ok {
			return count, nil
		}
	}
	if v, ok := dig(p.sidebar("playlistSidebarPrimaryInfoRenderer"), "stats", "0"); ok {
		if count, ok := parseCount(v); ok {
			return count, nil
		}
	}
	return 0, extractor.Missing("videoCount")
}

// Trending
// *********************************************

type trendingPage struct {
	items []extractor.RawItem
}

func (p *trendingPage) Items() ([]extractor.RawItem, error) {
	return p.items, nil
}

// Trending fetches the trending feed.
func (c *Client) Trending(ctx context.Context) (extractor.TrendingPage, error) {
	log.Info().Msg("Fetching YouTube trending via InnerTube")

	data, err := c.browse(ctx, trendingBrowseID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to browse trending: %w", err)
	}

	found := collectItems(selectedTabContent(data))
	log.Debug().Int("items", len(found.items)).Msg("Parsed trending page from InnerTube")
	return &trendingPage{items: found.items}, nil
}
