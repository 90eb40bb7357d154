package innertube

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

// Video fetches the player and next responses concurrently. The next response only feeds
// optional fields, so its failure is logged and tolerated.
func (c *Client) Video(ctx context.Context, videoID string) (extractor.VideoPage, error) {
	if err := validateVideoID(videoID); err != nil {
		return nil, fmt.Errorf("%w: video ID: %w", extractor.ErrInvalidID, err)
	}

	log.Info().Str("video_id", videoID).Msg("Fetching YouTube video via InnerTube")

	var player, next map[string]interface{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		player, err = c.player(gctx, videoID)
		return err
	})
	g.Go(func() error {
		var err error
		next, err = c.post(gctx, "next", map[string]any{"videoId": videoID}, false)
		if err != nil {
			log.Warn().Err(err).Str("video_id", videoID).Msg("Failed to fetch watch metadata, continuing without it")
			next = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}

	if _, ok := getMap(player, "videoDetails"); !ok {
		return nil, fmt.Errorf("video %s has no details: %w", videoID, extractor.ErrNotFound)
	}

	return &videoPage{videoID: videoID, player: player, next: next}, nil
}

// findFirst returns the first value stored under key anywhere in node, in stable traversal order.
func findFirst(node interface{}, key string) (interface{}, bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		if found, ok := v[key]; ok {
			return found, true
		}
		for _, k := range sortedKeys(v) {
			if found, ok := findFirst(v[k], key); ok {
				return found, true
			}
		}
	case []interface{}:
		for _, child := range v {
			if found, ok := findFirst(child, key); ok {
				return found, true
			}
		}
	}
	return nil, false
}

type videoPage struct {
	videoID string
	player  map[string]interface{}
	next    map[string]interface{}
}

func (p *videoPage) details() map[string]interface{} {
	m, _ := getMap(p.player, "videoDetails")
	return m
}

func (p *videoPage) primary() map[string]interface{} {
	v, _ := findFirst(p.next, "videoPrimaryInfoRenderer")
	m, _ := v.(map[string]interface{})
	return m
}

func (p *videoPage) owner() map[string]interface{} {
	v, _ := findFirst(p.next, "videoOwnerRenderer")
	m, _ := v.(map[string]interface{})
	return m
}

func (p *videoPage) Name() (string, error) {
	if title, ok := getString(p.details(), "title"); ok {
		return title, nil
	}
	if title, ok := textAt(p.primary(), "title"); ok {
		return title, nil
	}
	return "", extractor.Missing("title")
}

func (p *videoPage) VideoID() (string, error) {
	if id, ok := getString(p.details(), "videoId"); ok {
		return id, nil
	}
	return p.videoID, nil
}

func (p *videoPage) URL() (string, error) {
	id, err := p.VideoID()
	if err != nil {
		return "", err
	}
	return watchURL(id), nil
}

func (p *videoPage) IsAd() (bool, error) {
	return false, nil
}

func (p *videoPage) IsPremiumVideo() (bool, error) {
	primary := p.primary()
	if primary == nil {
		return false, extractor.Missing("badges")
	}
	return hasBadge(primary, func(style, label string) bool {
		return style == "BADGE_STYLE_TYPE_MEMBERS_ONLY" || label == "Premium"
	}), nil
}

func (p *videoPage) IsLive() (bool, error) {
	if live, ok := getBool(p.details(), "isLive"); ok {
		return live, nil
	}
	return false, nil
}

func (p *videoPage) Duration() (int, error) {
	if secs, ok := getInt(p.details(), "lengthSeconds"); ok {
		return int(secs), nil
	}
	return 0, extractor.Missing("lengthSeconds")
}

func (p *videoPage) UploaderName() (string, error) {
	if author, ok := getString(p.details(), "author"); ok {
		return author, nil
	}
	if name, ok := textAt(p.owner(), "title"); ok {
		return name, nil
	}
	return "", extractor.Missing("author")
}

func (p *videoPage) UploaderURL() (string, error) {
	if run, ok := dig(p.owner(), "title", "runs", "0"); ok {
		if url, ok := navigationURL(run); ok {
			return url, nil
		}
	}
	if id, ok := getString(p.details(), "channelId"); ok {
		return channelURL(id), nil
	}
	return "", extractor.Missing("uploaderUrl")
}

func (p *videoPage) TextualUploadDate() (string, error) {
	if date, ok := textAt(p.primary(), "dateText"); ok {
		return date, nil
	}
	return "", extractor.Missing("dateText")
}

func (p *videoPage) ViewCount() (int64, error) {
	if views, ok := getInt(p.details(), "viewCount"); ok {
		return views, nil
	}
	return 0, extractor.Missing("viewCount")
}

func (p *videoPage) Thumbnails() ([]extractor.Thumbnail, error) {
	node, _ := dig(p.details(), "thumbnail")
	return parseThumbnails(node), nil
}

func (p *videoPage) Description() (string, error) {
	if desc, ok := getString(p.details(), "shortDescription"); ok {
		return desc, nil
	}
	if v, ok := findFirst(p.next, "attributedDescription"); ok {
		if desc := extractText(v); desc != "" {
			return desc, nil
		}
	}
	return "", extractor.Missing("description")
}

func (p *videoPage) LikeCount() (int64, error) {
	if v, ok := findFirst(p.next, "likeButtonViewModel"); ok {
		title, ok := getString(v, "likeButtonViewModel", "toggleButtonViewModel", "toggleButtonViewModel",
			"defaultButtonViewModel", "buttonViewModel", "title")
		if ok {
			if count, ok := parseCountFromText(title); ok {
				return count, nil
			}
		}
	}
	if v, ok := findFirst(p.next, "segmentedLikeDislikeButtonRenderer"); ok {
		if label, ok := getString(v, "likeButton", "toggleButtonRenderer", "defaultText", "accessibility", "accessibilityData", "label"); ok {
			if count, ok := parseCountFromText(label); ok {
				return count, nil
			}
		}
	}
	return 0, extractor.Missing("likeCount")
}

func (p *videoPage) ChannelID() (string, error) {
	if id, ok := getString(p.details(), "channelId"); ok {
		return id, nil
	}
	return "", extractor.Missing("channelId")
}
