package extractor

import "fmt"

// Tag identifies which record a RawItem holds.
type Tag int

const (
	TagStream Tag = iota + 1
	TagChannel
	TagPlaylist
)

func (t Tag) String() string {
	switch t {
	case TagStream:
		return "stream"
	case TagChannel:
		return "channel"
	case TagPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// RawItem is an unprocessed, source-tagged catalog record.
// It can only be built through StreamRaw, ChannelRaw and PlaylistRaw.
type RawItem struct {
	tag      Tag
	stream   StreamInfoItem
	channel  ChannelInfoItem
	playlist PlaylistInfoItem
}

// StreamRaw tags a video record.
func StreamRaw(item StreamInfoItem) RawItem {
	return RawItem{tag: TagStream, stream: item}
}

// ChannelRaw tags a channel record.
func ChannelRaw(item ChannelInfoItem) RawItem {
	return RawItem{tag: TagChannel, channel: item}
}

// PlaylistRaw tags a playlist record.
func PlaylistRaw(item PlaylistInfoItem) RawItem {
	return RawItem{tag: TagPlaylist, playlist: item}
}

// Tag returns the record kind. The zero RawItem has no valid tag.
func (r RawItem) Tag() Tag {
	return r.tag
}

// Stream returns the video record; ok is false for other tags.
func (r RawItem) Stream() (StreamInfoItem, bool) {
	return r.stream, r.tag == TagStream && r.stream != nil
}

// Channel returns the channel record; ok is false for other tags.
func (r RawItem) Channel() (ChannelInfoItem, bool) {
	return r.channel, r.tag == TagChannel && r.channel != nil
}

// Playlist returns the playlist record; ok is false for other tags.
func (r RawItem) Playlist() (PlaylistInfoItem, bool) {
	return r.playlist, r.tag == TagPlaylist && r.playlist != nil
}
