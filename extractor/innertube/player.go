package innertube

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

// player calls the player endpoint with the ANDROID client and checks playability.
func (c *Client) player(ctx context.Context, videoID string) (map[string]interface{}, error) {
	data, err := c.post(ctx, "player", map[string]any{"videoId": videoID}, true)
	if err != nil {
		return nil, err
	}

	status, _ := getString(data, "playabilityStatus", "status")
	reason, _ := getString(data, "playabilityStatus", "reason")
	switch status {
	case "OK", "":
		return data, nil
	case "ERROR":
		return nil, fmt.Errorf("video %s: %s: %w", videoID, reason, extractor.ErrNotFound)
	default:
		log.Warn().Str("video_id", videoID).Str("status", status).Str("reason", reason).Msg("Video is not playable")
		return data, nil
	}
}

// Streams lists the renditions of a video. Formats that only carry a signature cipher
// are kept with an empty URL.
func (c *Client) Streams(ctx context.Context, videoID string) (extractor.StreamSet, error) {
	if err := validateVideoID(videoID); err != nil {
		return extractor.StreamSet{}, fmt.Errorf("%w: video ID: %w", extractor.ErrInvalidID, err)
	}

	data, err := c.player(ctx, videoID)
	if err != nil {
		return extractor.StreamSet{}, fmt.Errorf("failed to fetch player for %s: %w", videoID, err)
	}

	set := parseStreamingData(data)

	log.Debug().
		Str("video_id", videoID).
		Int("combined", len(set.Combined)).
		Int("video_only", len(set.VideoOnly)).
		Int("audio_only", len(set.AudioOnly)).
		Msg("Parsed streaming data")

	return set, nil
}

func parseStreamingData(data map[string]interface{}) extractor.StreamSet {
	var set extractor.StreamSet

	formats, _ := getSlice(data, "streamingData", "formats")
	for _, f := range formats {
		if s, ok := parseFormat(f); ok {
			set.Combined = append(set.Combined, s)
		}
	}

	adaptive, _ := getSlice(data, "streamingData", "adaptiveFormats")
	for _, f := range adaptive {
		s, ok := parseFormat(f)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(s.MimeType, "video/"):
			set.VideoOnly = append(set.VideoOnly, s)
		case strings.HasPrefix(s.MimeType, "audio/"):
			set.AudioOnly = append(set.AudioOnly, s)
		}
	}

	return set
}

func parseFormat(node interface{}) (extractor.Stream, bool) {
	itag, ok := getInt(node, "itag")
	if !ok {
		return extractor.Stream{}, false
	}

	s := extractor.Stream{Itag: int(itag)}
	s.URL, _ = getString(node, "url")
	s.MimeType, _ = getString(node, "mimeType")
	s.Bitrate, _ = getInt(node, "bitrate")
	s.Resolution, _ = getString(node, "qualityLabel")
	return s, true
}
