package innertube

import (
	"strconv"
	"strings"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

// Renderer keys that hold a single catalog record
var (
	videoRendererKeys = map[string]bool{
		"videoRenderer":         true,
		"gridVideoRenderer":     true,
		"compactVideoRenderer":  true,
		"playlistVideoRenderer": true,
		"promotedVideoRenderer": true,
	}

	channelRendererKeys = map[string]bool{
		"channelRenderer":     true,
		"gridChannelRenderer": true,
	}

	playlistRendererKeys = map[string]bool{
		"playlistRenderer":     true,
		"gridPlaylistRenderer": true,
		"radioRenderer":        true,
	}
)

// collected is the outcome of walking a content tree.
type collected struct {
	items        []extractor.RawItem
	continuation string
	suggestion   string
}

// collectItems walks node depth first and gathers renderers in document order.
// Recognized renderers are not descended into.
func collectItems(node interface{}) collected {
	var out collected
	walk(node, &out)
	return out
}

func walk(node interface{}, out *collected) {
	switch v := node.(type) {
	case []interface{}:
		for _, child := range v {
			walk(child, out)
		}
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			child := v[key]
			renderer, isMap := child.(map[string]interface{})

			switch {
			case isMap && videoRendererKeys[key]:
				out.items = append(out.items, extractor.StreamRaw(&videoRenderer{data: renderer, ad: key == "promotedVideoRenderer"}))
			case isMap && channelRendererKeys[key]:
				out.items = append(out.items, extractor.ChannelRaw(&channelRenderer{data: renderer}))
			case isMap && playlistRendererKeys[key]:
				out.items = append(out.items, extractor.PlaylistRaw(&playlistRenderer{data: renderer}))
			case isMap && key == "continuationItemRenderer":
				if token, ok := getString(renderer, "continuationEndpoint", "continuationCommand", "token"); ok {
					out.continuation = token
				}
			case isMap && (key == "didYouMeanRenderer" || key == "showingResultsForRenderer"):
				if out.suggestion == "" {
					out.suggestion, _ = textAt(renderer, "correctedQuery")
				}
			default:
				walk(child, out)
			}
		}
	}
}

// Video renderers
// *********************************************

// videoRenderer reads a video record lazily from one of the video renderer shapes.
type videoRenderer struct {
	data map[string]interface{}
	ad   bool
}

func (r *videoRenderer) Name() (string, error) {
	if name, ok := textAt(r.data, "title"); ok {
		return name, nil
	}
	if name, ok := textAt(r.data, "headline"); ok {
		return name, nil
	}
	return "", extractor.Missing("name")
}

func (r *videoRenderer) VideoID() (string, error) {
	if id, ok := getString(r.data, "videoId"); ok {
		return id, nil
	}
	return "", extractor.Missing("videoId")
}

func (r *videoRenderer) URL() (string, error) {
	id, err := r.VideoID()
	if err != nil {
		return "", err
	}
	return watchURL(id), nil
}

func (r *videoRenderer) IsAd() (bool, error) {
	return r.ad, nil
}

func (r *videoRenderer) IsPremiumVideo() (bool, error) {
	return hasBadge(r.data, func(style, label string) bool {
		return style == "BADGE_STYLE_TYPE_MEMBERS_ONLY" ||
			strings.EqualFold(label, "Premium") ||
			strings.EqualFold(label, "Members only")
	}), nil
}

func (r *videoRenderer) IsLive() (bool, error) {
	if hasBadge(r.data, func(style, _ string) bool { return style == "BADGE_STYLE_TYPE_LIVE_NOW" }) {
		return true, nil
	}
	overlays, _ := getSlice(r.data, "thumbnailOverlays")
	for _, overlay := range overlays {
		if style, ok := getString(overlay, "thumbnailOverlayTimeStatusRenderer", "style"); ok && style == "LIVE" {
			return true, nil
		}
	}
	return false, nil
}

func (r *videoRenderer) Duration() (int, error) {
	if secs, ok := getInt(r.data, "lengthSeconds"); ok {
		return int(secs), nil
	}
	if text, ok := textAt(r.data, "lengthText"); ok {
		if secs, ok := parseClockDuration(text); ok {
			return secs, nil
		}
		return 0, &extractor.ParsingError{Field: "duration", Reason: "unrecognized length " + strconv.Quote(text)}
	}
	overlays, _ := getSlice(r.data, "thumbnailOverlays")
	for _, overlay := range overlays {
		if text, ok := textAt(overlay, "thumbnailOverlayTimeStatusRenderer", "text"); ok {
			if secs, ok := parseClockDuration(text); ok {
				return secs, nil
			}
		}
	}
	return 0, extractor.Missing("duration")
}

// bylineRun returns the first run of the owner byline, which names and links the uploader.
func (r *videoRenderer) bylineRun() (interface{}, bool) {
	for _, key := range []string{"ownerText", "longBylineText", "shortBylineText"} {
		if run, ok := dig(r.data, key, "runs", "0"); ok {
			return run, true
		}
	}
	return nil, false
}

func (r *videoRenderer) UploaderName() (string, error) {
	if run, ok := r.bylineRun(); ok {
		if name, ok := getString(run, "text"); ok {
			return name, nil
		}
	}
	return "", extractor.Missing("uploaderName")
}

func (r *videoRenderer) UploaderURL() (string, error) {
	if run, ok := r.bylineRun(); ok {
		if url, ok := navigationURL(run); ok {
			return url, nil
		}
	}
	return "", extractor.Missing("uploaderUrl")
}

func (r *videoRenderer) TextualUploadDate() (string, error) {
	if text, ok := textAt(r.data, "publishedTimeText"); ok {
		return text, nil
	}
	return "", extractor.Missing("publishedTimeText")
}

func (r *videoRenderer) ViewCount() (int64, error) {
	for _, key := range []string{"viewCountText", "shortViewCountText"} {
		if v, ok := dig(r.data, key); ok {
			if count, ok := parseCount(v); ok {
				return count, nil
			}
		}
	}
	return 0, extractor.Missing("viewCount")
}

func (r *videoRenderer) Thumbnails() ([]extractor.Thumbnail, error) {
	node, _ := dig(r.data, "thumbnail")
	return parseThumbnails(node), nil
}

// hasBadge reports whether any metadata badge on the renderer satisfies match.
func hasBadge(data map[string]interface{}, match func(style, label string) bool) bool {
	for _, key := range []string{"badges", "ownerBadges"} {
		badges, _ := getSlice(data, key)
		for _, badge := range badges {
			style, _ := getString(badge, "metadataBadgeRenderer", "style")
			label, _ := getString(badge, "metadataBadgeRenderer", "label")
			if match(style, label) {
				return true
			}
		}
	}
	return false
}

// Channel renderers
// *********************************************

type channelRenderer struct {
	data map[string]interface{}
}

func (r *channelRenderer) Name() (string, error) {
	if name, ok := textAt(r.data, "title"); ok {
		return name, nil
	}
	return "", extractor.Missing("name")
}

func (r *channelRenderer) ChannelID() (string, error) {
	if id, ok := getString(r.data, "channelId"); ok {
		return id, nil
	}
	return "", extractor.Missing("channelId")
}

func (r *channelRenderer) URL() (string, error) {
	if url, ok := navigationURL(r.data); ok {
		return url, nil
	}
	id, err := r.ChannelID()
	if err != nil {
		return "", err
	}
	return channelURL(id), nil
}

func (r *channelRenderer) Thumbnails() ([]extractor.Thumbnail, error) {
	node, _ := dig(r.data, "thumbnail")
	return parseThumbnails(node), nil
}

// countText finds the count text mentioning word. Newer layouts move the subscriber
// count into videoCountText and put the handle in subscriberCountText.
func (r *channelRenderer) countText(word string) (int64, bool) {
	for _, key := range []string{"subscriberCountText", "videoCountText"} {
		text, ok := textAt(r.data, key)
		if !ok || !strings.Contains(strings.ToLower(text), word) {
			continue
		}
		return parseCount(text)
	}
	return 0, false
}

func (r *channelRenderer) SubscriberCount() (int64, error) {
	if count, ok := r.countText("subscriber"); ok {
		return count, nil
	}
	return 0, extractor.Missing("subscriberCount")
}

func (r *channelRenderer) StreamCount() (int64, error) {
	if count, ok := r.countText("video"); ok {
		return count, nil
	}
	return 0, extractor.Missing("videoCount")
}

func (r *channelRenderer) Description() (string, error) {
	if text, ok := textAt(r.data, "descriptionSnippet"); ok {
		return text, nil
	}
	return "", extractor.Missing("description")
}

// Playlist renderers
// *********************************************

type playlistRenderer struct {
	data map[string]interface{}
}

func (r *playlistRenderer) Name() (string, error) {
	if name, ok := textAt(r.data, "title"); ok {
		return name, nil
	}
	return "", extractor.Missing("name")
}

func (r *playlistRenderer) PlaylistID() (string, error) {
	if id, ok := getString(r.data, "playlistId"); ok {
		return id, nil
	}
	return "", extractor.Missing("playlistId")
}

func (r *playlistRenderer) URL() (string, error) {
	id, err := r.PlaylistID()
	if err != nil {
		return "", err
	}
	return playlistURL(id), nil
}

func (r *playlistRenderer) Thumbnails() ([]extractor.Thumbnail, error) {
	// playlistRenderer nests one thumbnail set per preview
	if node, ok := dig(r.data, "thumbnails", "0"); ok {
		return parseThumbnails(node), nil
	}
	node, _ := dig(r.data, "thumbnail")
	return parseThumbnails(node), nil
}

func (r *playlistRenderer) UploaderName() (string, error) {
	for _, key := range []string{"longBylineText", "shortBylineText"} {
		if name, ok := getString(r.data, key, "runs", "0", "text"); ok {
			return name, nil
		}
	}
	return "", extractor.Missing("uploaderName")
}

func (r *playlistRenderer) StreamCount() (int64, error) {
	if count, ok := getInt(r.data, "videoCount"); ok {
		return count, nil
	}
	for _, key := range []string{"videoCountText", "videoCountShortText"} {
		if v, ok := dig(r.data, key); ok {
			if count, ok := parseCount(v); ok {
				return count, nil
			}
		}
	}
	return 0, extractor.Missing("videoCount")
}
