package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/lobby"
	"github.com/DoyleJ11/lol-draft-companion/internal/share"
	"github.com/DoyleJ11/lol-draft-companion/internal/store"
	"github.com/DoyleJ11/lol-draft-companion/internal/types"
)

var (
	errLobbyNotFound = errors.New("lobby not found")
	errBadRequest    = errors.New("bad request")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, types.ServerMessage{Type: types.MsgError, Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errLobbyNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, share.ErrInvalidCode):
		return http.StatusBadRequest, "invalid_share_code"
	case errors.Is(err, hub.ErrClosed), errors.Is(err, lobby.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	}

	code := engine.ErrorCode(err)
	switch code {
	case "internal":
		return http.StatusInternalServerError, code
	case "invalid_snapshot", "invalid_champion", "unknown_team", "unknown_role",
		"unknown_format", "unknown_side", "invalid_slot", "unsupported_command":
		return http.StatusBadRequest, code
	default:
		// the request was well formed but the draft's state refuses it
		return http.StatusConflict, code
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
