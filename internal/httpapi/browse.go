package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/lol-draft-companion/internal/catalog"
	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
)

type flowResponse struct {
	Format       engine.Format       `json:"format"`
	StartingSide engine.StartingSide `json:"starting_side"`
	Turns        engine.Flow         `json:"turns"`
}

// GetFlow returns the turn order for ?format=&starting_side=, defaulting to
// ranked with team A on blue.
func GetFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, side := engine.FormatRanked, engine.SideABlue
	if v := q.Get("format"); v != "" {
		f, err := engine.ParseFormat(v)
		if err != nil {
			writeError(w, err)
			return
		}
		format = f
	}
	if v := q.Get("starting_side"); v != "" {
		s, err := engine.ParseStartingSide(v)
		if err != nil {
			writeError(w, err)
			return
		}
		side = s
	}
	writeJSON(w, http.StatusOK, flowResponse{Format: format, StartingSide: side, Turns: engine.GenerateFlow(format, side)})
}

// ListChampions lists the catalog filtered by ?role=. With ?lobby= the
// champions claimed in that lobby are marked unavailable.
func ListChampions(h *hub.Hub, cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			writeJSON(w, http.StatusOK, []catalog.Entry{})
			return
		}
		q := r.URL.Query()

		var role engine.Role
		if v := q.Get("role"); v != "" {
			parsed, err := engine.ParseRole(v)
			if err != nil {
				writeError(w, err)
				return
			}
			role = parsed
		}

		var claimed []engine.ChampionID
		if code := q.Get("lobby"); code != "" {
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
			claimed = v.Draft.Claimed
		}

		writeJSON(w, http.StatusOK, cat.Filter(role, claimed))
	}
}
