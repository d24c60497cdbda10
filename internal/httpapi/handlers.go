package httpapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DoyleJ11/lol-draft-companion/internal/catalog"
	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/lobby"
	"github.com/DoyleJ11/lol-draft-companion/internal/share"
	"github.com/DoyleJ11/lol-draft-companion/internal/types"
)

const maxCodeAttempts = 10

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createLobbyRequest struct {
	Format       string `json:"format"`
	StartingSide string `json:"starting_side"`
	ShareCode    string `json:"share_code,omitempty"`
}

type lobbyResponse struct {
	Code    string      `json:"code"`
	Version int         `json:"version"`
	View    engine.View `json:"view"`
	Events  []eventJSON `json:"events,omitempty"`
}

type eventJSON struct {
	Type       engine.EventType  `json:"type"`
	Team       engine.Team       `json:"team,omitempty"`
	Role       engine.Role       `json:"role,omitempty"`
	BanIndex   *int              `json:"ban_index,omitempty"`
	ChampionID engine.ChampionID `json:"champion_id,omitempty"`
	Cursor     int               `json:"cursor"`
}

func toEventJSON(e engine.Event) eventJSON {
	out := eventJSON{Type: e.Type, Team: e.Team, Role: e.Role, ChampionID: e.ChampionID, Cursor: e.Cursor}
	if e.Type == engine.EvtChampionBanned || (e.Type == engine.EvtSlotCleared && e.Role == "") {
		i := e.BanIndex
		out.BanIndex = &i
	}
	return out
}

// newDraft builds the draft a new lobby starts from: a decoded share code
// when given, otherwise an empty draft (ranked, team A on blue by default).
func newDraft(req createLobbyRequest) (*engine.Draft, error) {
	if req.ShareCode != "" {
		snap, err := share.Decode(req.ShareCode)
		if err != nil {
			return nil, err
		}
		return share.Load(snap)
	}

	format, side := engine.FormatRanked, engine.SideABlue
	if req.Format != "" {
		f, err := engine.ParseFormat(req.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if req.StartingSide != "" {
		s, err := engine.ParseStartingSide(req.StartingSide)
		if err != nil {
			return nil, err
		}
		side = s
	}
	return engine.New(format, side)
}

func CreateLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLobbyRequest
		if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, err)
			return
		}

		d, err := newDraft(req)
		if err != nil {
			writeError(w, err)
			return
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := GenerateCode()
			if err != nil {
				writeError(w, fmt.Errorf("generate code: %w", err))
				return
			}
			lb, err := h.Create(r.Context(), code, d)
			if err != nil {
				writeError(w, err)
				return
			}
			if lb == nil {
				continue // collision on code, regenerate
			}
			writeJSON(w, http.StatusCreated, struct {
				Code string `json:"code"`
			}{Code: lb.Code()})
			return
		}
		writeError(w, errors.New("failed to allocate lobby code"))
	}
}

func lookupLobby(ctx context.Context, h *hub.Hub, code string) (*lobby.Lobby, error) {
	lb, err := h.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, fmt.Errorf("%w: %s", errLobbyNotFound, code)
	}
	return lb, nil
}

func GetLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		lb, err := lookupLobby(r.Context(), h, code)
		if err != nil {
			writeError(w, err)
			return
		}
		v, err := lb.State(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lobbyResponse{Code: code, Version: v.Version, View: v.Draft})
	}
}

// PostCommand applies one command and answers with the resulting view. A
// rejected command answers with the error and changes nothing.
func PostCommand(h *hub.Hub, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		var msg types.ClientMessage
		if err := decodeBody(w, r, &msg); err != nil {
			writeError(w, err)
			return
		}
		cmd, err := types.ToCommand(msg)
		if err == nil {
			err = cat.Validate(cmd.ChampionID)
		}
		if err != nil {
			writeError(w, err)
			return
		}

		lb, err := lookupLobby(r.Context(), h, code)
		if err != nil {
			writeError(w, err)
			return
		}
		res, err := lb.Do(r.Context(), "http:"+middleware.GetReqID(r.Context()), cmd)
		if err == nil {
			err = res.Err
		}
		if err != nil {
			writeError(w, err)
			return
		}

		resp := lobbyResponse{Code: code, Version: res.Snapshot.Version, View: res.Snapshot.View}
		for _, e := range res.Events {
			resp.Events = append(resp.Events, toEventJSON(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// DeleteLobby stops the lobby and disconnects its clients.
func DeleteLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		ok, err := h.Remove(r.Context(), code)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			writeError(w, fmt.Errorf("%w: %s", errLobbyNotFound, code))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ShareLobby encodes the lobby's current draft as a share code.
func ShareLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := lookupLobby(r.Context(), h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		v, err := lb.State(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		sc, err := share.Encode(v.Snapshot)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			ShareCode string `json:"share_code"`
		}{sc})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
