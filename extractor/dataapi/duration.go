package dataapi

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

// Data API durations are ISO-8601: PT4M13S, PT1H2M3S, P1DT2H, P0D for live streams
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO-8601 duration to whole seconds.
func parseISODuration(s string) (int, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, &extractor.ParsingError{Field: "duration", Reason: fmt.Sprintf("invalid ISO-8601 duration %q", s)}
	}

	units := []int{86400, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, &extractor.ParsingError{Field: "duration", Reason: err.Error()}
		}
		total += n * unit
	}
	return total, nil
}
