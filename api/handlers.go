package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/researchaccelerator-hub/media-gateway/model"
)

// Catalog is the query surface served under /api.
type Catalog interface {
	Video(ctx context.Context, videoID string) (*model.VideoDetails, error)
	Channel(ctx context.Context, channelID, pageToken string) (*model.ChannelResult, error)
	Playlist(ctx context.Context, playlistID, pageToken string) (*model.PlaylistResult, error)
	Search(ctx context.Context, query, pageToken string) (*model.SearchResult, error)
	Trending(ctx context.Context) (*model.TrendingResult, error)
	Single(ctx context.Context, kind model.MediaType, id string) (model.MediaItem, error)
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"message":"internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps the result error taxonomy onto HTTP. Extraction details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := hlog.FromRequest(r)

	switch {
	case errors.Is(err, model.ErrNotFound):
		logger.Info().Err(err).Msg("Not found")
		writeJSON(w, r, http.StatusNotFound, errorResponse{Message: "not found"})
	case errors.Is(err, model.ErrInvalidInput):
		logger.Info().Err(err).Msg("Invalid request")
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Message: "invalid request", Error: err.Error()})
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("Request canceled by client")
	case model.IsExtractionFailed(err):
		logger.Error().Err(err).Msg("Extraction failed")
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Message: "extraction failed"})
	default:
		logger.Error().Err(err).Msg("Request failed")
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

type catalogHandlers struct {
	catalog Catalog
}

func (h *catalogHandlers) video(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Video(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *catalogHandlers) channel(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Channel(r.Context(), r.PathValue("id"), r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *catalogHandlers) playlist(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Playlist(r.Context(), r.PathValue("id"), r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *catalogHandlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Message: "invalid request", Error: "missing query parameter q"})
		return
	}

	res, err := h.catalog.Search(r.Context(), query, q.Get("page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *catalogHandlers) trending(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Trending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// summary answers with the bare MediaItem for a video, channel or playlist id.
func (h *catalogHandlers) summary(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Single(r.Context(), model.MediaType(r.PathValue("kind")), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
