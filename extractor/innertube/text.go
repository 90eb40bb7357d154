package innertube

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

// Pre-compiled regex patterns for parsing (compiled once, reused many times)
var (
	// A number with optional grouping and an optional K/M/B suffix: "43.2M", "1,234", "12 K"
	countPattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([KkMmBb])?(?:[^A-Za-z]|$)`)

	// Clock style durations: "4:13", "1:02:03"
	clockPattern = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})$`)
)

// dig walks a decoded JSON tree along path. Numeric path elements index arrays.
func dig(node interface{}, path ...string) (interface{}, bool) {
	cur := node
	for _, key := range path {
		switch v := cur.(type) {
		case map[string]interface{}:
			next, ok := v[key]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func getMap(node interface{}, path ...string) (map[string]interface{}, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

func getSlice(node interface{}, path ...string) ([]interface{}, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]interface{})
	return s, ok
}

func getString(node interface{}, path ...string) (string, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func getBool(node interface{}, path ...string) (bool, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// getInt reads numbers that InnerTube encodes either as JSON numbers or as decimal strings.
func getInt(node interface{}, path ...string) (int64, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// sortedKeys gives map traversal a stable order.
func sortedKeys(m map[string]interface{}) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// extractText extracts text from InnerTube text object (simpleText, runs or content format)
func extractText(textObj interface{}) string {
	if textObj == nil {
		return ""
	}

	// Handle direct string
	if str, ok := textObj.(string); ok {
		return str
	}

	textMap, ok := textObj.(map[string]interface{})
	if !ok {
		return ""
	}

	if simpleText, ok := textMap["simpleText"].(string); ok {
		return simpleText
	}

	// View models carry plain content
	if content, ok := textMap["content"].(string); ok {
		return content
	}

	if runs, ok := textMap["runs"].([]interface{}); ok {
		var parts []string
		for _, run := range runs {
			if runMap, ok := run.(map[string]interface{}); ok {
				if text, ok := runMap["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, "")
	}

	return ""
}

// textAt extracts the text object found at path.
func textAt(node interface{}, path ...string) (string, bool) {
	v, ok := dig(node, path...)
	if !ok {
		return "", false
	}
	text := strings.TrimSpace(extractText(v))
	return text, text != ""
}

// parseCountFromText converts formatted text like "43.2M subscribers" or "1,234 videos" to int64.
// ok is false when the text holds no number at all ("No views").
func parseCountFromText(text string) (int64, bool) {
	m := countPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	var multiplier float64 = 1
	switch strings.ToUpper(m[2]) {
	case "K":
		multiplier = 1e3
	case "M":
		multiplier = 1e6
	case "B":
		multiplier = 1e9
	}

	return int64(num*multiplier + 0.5), true
}

// parseCount extracts count from InnerTube text object (simpleText or runs format)
func parseCount(countObj interface{}) (int64, bool) {
	text := extractText(countObj)
	if text == "" {
		return 0, false
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "no ") {
		return 0, true
	}
	return parseCountFromText(text)
}

// parseClockDuration converts "1:02:03" or "4:13" to seconds.
func parseClockDuration(text string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	var hours int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	return hours*3600 + minutes*60 + seconds, true
}

// parseThumbnails reads a {"thumbnails": [...]} object, a bare list, or a view model {"sources": [...]}.
// Entries without a url are skipped; order is preserved.
func parseThumbnails(node interface{}) []extractor.Thumbnail {
	list, ok := node.([]interface{})
	if !ok {
		if l, found := getSlice(node, "thumbnails"); found {
			list = l
		} else if l, found := getSlice(node, "sources"); found {
			list = l
		}
	}

	thumbs := make([]extractor.Thumbnail, 0, len(list))
	for _, entry := range list {
		url, ok := getString(entry, "url")
		if !ok {
			continue
		}
		width, _ := getInt(entry, "width")
		height, _ := getInt(entry, "height")
		thumbs = append(thumbs, extractor.Thumbnail{URL: url, Width: width, Height: height})
	}
	return thumbs
}

// absoluteURL turns a youtube.com relative path into an absolute URL.
func absoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseWebURL + path
}

// navigationURL resolves the target of a run or endpoint carrying commandMetadata or a browseEndpoint.
func navigationURL(node interface{}) (string, bool) {
	if url, ok := getString(node, "navigationEndpoint", "commandMetadata", "webCommandMetadata", "url"); ok {
		return absoluteURL(url), true
	}
	if base, ok := getString(node, "navigationEndpoint", "browseEndpoint", "canonicalBaseUrl"); ok {
		return absoluteURL(base), true
	}
	if id, ok := getString(node, "navigationEndpoint", "browseEndpoint", "browseId"); ok {
		return channelURL(id), true
	}
	return "", false
}

func watchURL(videoID string) string {
	return baseWebURL + "/watch?v=" + videoID
}

func channelURL(channelID string) string {
	if strings.HasPrefix(channelID, "@") {
		return baseWebURL + "/" + channelID
	}
	return baseWebURL + "/channel/" + channelID
}

func playlistURL(playlistID string) string {
	return baseWebURL + "/playlist?list=" + playlistID
}
