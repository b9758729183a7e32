package search

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gamelog/internal/httpx"
	"gamelog/internal/platform/igdb"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /search?q=&limit=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	games, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	httpx.JSONSuccess(w, games, map[string]any{"count": len(games)})
}

// Details handles GET /search/games/{id}
func (h *HTTPHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid game id", nil)
		return
	}

	g, err := h.service.Details(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	if g == nil {
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Game not found in catalog", nil)
		return
	}

	httpx.JSONSuccess(w, g, nil)
}

// writeCatalogError keeps "no results" and "catalog down" distinct and
// never leaks transport detail to the client.
func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyQuery):
		httpx.JSONError(w, http.StatusBadRequest, "EMPTY_QUERY", "Search query is required", nil)
	case errors.Is(err, igdb.ErrCredentialsMissing):
		httpx.JSONError(w, http.StatusServiceUnavailable, "CREDENTIALS_MISSING",
			"Catalog API credentials are not configured", nil)
	case errors.Is(err, igdb.ErrAuthFailed):
		httpx.JSONError(w, http.StatusBadGateway, "AUTH_FAILED",
			"Failed to authenticate with the catalog API", nil)
	case errors.Is(err, igdb.ErrUnavailable):
		httpx.JSONError(w, http.StatusBadGateway, "CATALOG_UNAVAILABLE",
			"The game catalog is currently unavailable", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
