package innertube

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	// YouTube channel IDs are 24 characters starting with UC
	channelIDLength = 24
	channelIDPrefix = "UC"

	// YouTube video IDs are 11 characters
	videoIDLength = 11
)

// Regular expressions for validation
var (
	// Channel ID: UC followed by 22 alphanumeric/underscore/dash characters
	channelIDPattern = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

	// Video ID: 11 alphanumeric/underscore/dash characters
	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	// Handle format: @ followed by alphanumeric/underscore/period/dash
	handlePattern = regexp.MustCompile(`^@[a-zA-Z0-9._-]+$`)

	// Playlist ID: a known list prefix followed by the id body. Mixes (RD) vary in length.
	playlistIDPattern = regexp.MustCompile(`^(PL|UU|LL|FL|OL|RD|UL|PU|OLAK5uy_)[a-zA-Z0-9_-]{8,}$`)
)

// validateChannelID validates a YouTube channel ID format
// Valid formats:
// - UC followed by 22 characters (standard channel ID)
// - @handle (resolved through navigation/resolve_url)
func validateChannelID(channelID string) error {
	if channelID == "" {
		return fmt.Errorf("channel ID cannot be empty")
	}

	if strings.HasPrefix(channelID, "@") {
		if !handlePattern.MatchString(channelID) {
			return fmt.Errorf("invalid channel handle format: %s", channelID)
		}
		return nil
	}

	if len(channelID) != channelIDLength {
		return fmt.Errorf("channel ID must be %d characters, got %d: %s",
			channelIDLength, len(channelID), channelID)
	}

	if !strings.HasPrefix(channelID, channelIDPrefix) {
		return fmt.Errorf("channel ID must start with %s (or use @handle format), got: %s",
			channelIDPrefix, channelID)
	}

	if !channelIDPattern.MatchString(channelID) {
		return fmt.Errorf("invalid channel ID format (must be UC + 22 alphanumeric/underscore/dash chars): %s",
			channelID)
	}

	return nil
}

// validateVideoID validates a YouTube video ID format
// Video IDs are 11 alphanumeric characters with underscore and dash allowed
func validateVideoID(videoID string) error {
	if videoID == "" {
		return fmt.Errorf("video ID cannot be empty")
	}

	if len(videoID) != videoIDLength {
		return fmt.Errorf("video ID must be %d characters, got %d: %s",
			videoIDLength, len(videoID), videoID)
	}

	if !videoIDPattern.MatchString(videoID) {
		return fmt.Errorf("invalid video ID format (must be 11 alphanumeric/underscore/dash chars): %s",
			videoID)
	}

	return nil
}

// validatePlaylistID validates a YouTube playlist ID format
func validatePlaylistID(playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("playlist ID cannot be empty")
	}

	if !playlistIDPattern.MatchString(playlistID) {
		return fmt.Errorf("invalid playlist ID format: %s", playlistID)
	}

	return nil
}

// ValidateVideoID reports whether videoID is a well formed video id.
func ValidateVideoID(videoID string) error {
	return validateVideoID(videoID)
}
