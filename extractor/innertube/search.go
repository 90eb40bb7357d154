package innertube

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

type searchPage struct {
	listing
	suggestion string
}

func (p *searchPage) Suggestion() (string, error) {
	if p.suggestion == "" {
		return "", extractor.Missing("suggestion")
	}
	return p.suggestion, nil
}

// Search runs a query, or fetches a further page of results when pageToken is set.
func (c *Client) Search(ctx context.Context, query, pageToken string) (extractor.SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" && pageToken == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", extractor.ErrInvalidID)
	}

	log.Info().Str("query", query).Bool("continuation", pageToken != "").Msg("Searching YouTube via InnerTube")

	payload := map[string]any{}
	if pageToken != "" {
		payload["continuation"] = pageToken
	} else {
		payload["query"] = query
	}

	data, err := c.post(ctx, "search", payload, false)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	var found collected
	if pageToken != "" {
		found = collectItems(continuationRoot(data))
	} else {
		root, _ := dig(data, "contents", "twoColumnSearchResultsRenderer", "primaryContents")
		found = collectItems(root)
	}

	log.Debug().
		Str("query", query).
		Int("items", len(found.items)).
		Str("suggestion", found.suggestion).
		Msg("Parsed search page from InnerTube")

	return &searchPage{listing: newListing(found), suggestion: found.suggestion}, nil
}
