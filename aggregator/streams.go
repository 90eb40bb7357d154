package aggregator

import (
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/model"
)

func candidate(kind model.StreamKind) func(extractor.Stream, int) model.StreamCandidate {
	return func(s extractor.Stream, _ int) model.StreamCandidate {
		return model.StreamCandidate{
			Itag:       s.Itag,
			URL:        mo.EmptyableToOption(s.URL),
			Bitrate:    s.Bitrate,
			Resolution: mo.EmptyableToOption(s.Resolution),
			MimeType:   s.MimeType,
			Kind:       kind,
		}
	}
}

// StreamCandidates lists combined, then video-only, then audio-only renditions.
func StreamCandidates(set extractor.StreamSet) []model.StreamCandidate {
	return append(
		lo.Map(set.Combined, candidate(model.StreamKindVideoAudio)),
		AdaptiveCandidates(set)...,
	)
}

// AdaptiveCandidates lists video-only then audio-only renditions. Combined streams are left out.
func AdaptiveCandidates(set extractor.StreamSet) []model.StreamCandidate {
	return append(
		lo.Map(set.VideoOnly, candidate(model.StreamKindVideoOnly)),
		lo.Map(set.AudioOnly, candidate(model.StreamKindAudioOnly))...,
	)
}

// Fetchable drops candidates without an origin URL.
func Fetchable(candidates []model.StreamCandidate) []model.StreamCandidate {
	return lo.Filter(candidates, func(c model.StreamCandidate, _ int) bool {
		return c.Fetchable()
	})
}
