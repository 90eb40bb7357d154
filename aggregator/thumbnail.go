package aggregator

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

// Host used for root-relative image paths such as /vi/<id>/hqdefault.jpg
const defaultImageHost = "i.ytimg.com"

// CanonicalThumbnailURL turns the abbreviated forms a source may emit into an absolute https URL:
//
//	//i.ytimg.com/vi/x/default.jpg  -> https://i.ytimg.com/vi/x/default.jpg
//	http://i.ytimg.com/...          -> https://i.ytimg.com/...
//	i.ytimg.com/vi/x/default.jpg    -> https://i.ytimg.com/vi/x/default.jpg
//	/vi/x/default.jpg               -> https://i.ytimg.com/vi/x/default.jpg
//
// Anything else is returned trimmed. Applying it twice gives the same result as applying it once.
func CanonicalThumbnailURL(raw string) string {
	u := strings.TrimSpace(raw)

	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "http://"):
		return "https://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return "https://" + defaultImageHost + u
	}

	if strings.Contains(u, "://") {
		return u
	}

	host, _, _ := strings.Cut(u, "/")
	if strings.Contains(host, ".") && !strings.ContainsAny(host, " ?#") {
		return "https://" + u
	}
	return u
}

// clampDimension maps a source width/height onto a non-negative int.
func clampDimension(v int64) int {
	if v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// convertThumbnails canonicalizes every URL once and keeps the source order.
func convertThumbnails(thumbs []extractor.Thumbnail) []model.Thumbnail {
	return lo.Map(thumbs, func(t extractor.Thumbnail, _ int) model.Thumbnail {
		return model.Thumbnail{
			URL:    CanonicalThumbnailURL(t.URL),
			Width:  clampDimension(t.Width),
			Height: clampDimension(t.Height),
		}
	})
}

// thumbnails reads a thumbnail accessor; a failing accessor yields an empty list.
func thumbnails(fn func() ([]extractor.Thumbnail, error)) []model.Thumbnail {
	return convertThumbnails(tryOptional(fn).OrEmpty())
}
