package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"gamelog/internal/game"
	"gamelog/internal/httpx"
)

type HTTPHandler struct {
	importer *Importer
}

func NewHTTPHandler(importer *Importer) *HTTPHandler {
	return &HTTPHandler{importer: importer}
}

type addGameReq struct {
	GameData string `json:"game_data" validate:"required"`
	Status   string `json:"status"`
}

// AddGame handles POST /collection
func (h *HTTPHandler) AddGame(w http.ResponseWriter, r *http.Request) {
	var req addGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	result, err := h.importer.AddGame(r.Context(), req.GameData, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedPayload):
			httpx.JSONError(w, http.StatusBadRequest, "MALFORMED_PAYLOAD", "Invalid game data format", nil)
		case errors.Is(err, game.ErrDuplicate):
			httpx.JSONError(w, http.StatusConflict, "DUPLICATE_GAME", "Game already exists in your collection", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "PERSISTENCE_FAILURE", "Failed to add game", nil)
		}
		return
	}

	httpx.JSONSuccessCreated(w, result)
}
