package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
	"github.com/DoyleJ11/lol-draft-companion/internal/share"
	"github.com/DoyleJ11/lol-draft-companion/internal/store"
)

type saveRequest struct {
	Label string `json:"label"`
}

type savedResponse struct {
	*store.SavedDraft
	ShareCode string `json:"share_code"`
}

func withShareCode(d *store.SavedDraft) (savedResponse, error) {
	snap, err := d.Snapshot()
	if err != nil {
		return savedResponse{}, err
	}
	sc, err := share.Encode(snap)
	if err != nil {
		return savedResponse{}, err
	}
	return savedResponse{SavedDraft: d, ShareCode: sc}, nil
}

// SaveLobby stores the lobby's current draft. Saving an unchanged draft
// again only updates its label.
func SaveLobby(h *hub.Hub, s store.Store, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
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

		saved, err := store.NewSavedDraft(req.Label, v.Snapshot)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Save(r.Context(), saved); err != nil {
			writeError(w, err)
			return
		}
		m.IncSaved()

		resp, err := withShareCode(saved)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func ListSaved(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, errBadRequest)
				return
			}
			limit = n
		}
		list, err := s.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []store.SavedDraft{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetSaved(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		resp, err := withShareCode(d)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func DeleteSaved(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
