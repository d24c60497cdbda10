package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-draft-companion/internal/catalog"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/lobby"
	"github.com/DoyleJ11/lol-draft-companion/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 5 * time.Minute
	outboxSize   = 16
)

type Options struct {
	// OriginPatterns are passed to websocket.Accept; empty means same origin only.
	OriginPatterns []string
	// Catalog, when set, rejects champion ids it does not know.
	Catalog        *catalog.Catalog
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb, err := h.Lookup(r.Context(), code)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.String("lobby", code), zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := log.With(zap.String("lobby", code), zap.String("client", clientID))

		out := make(chan lobby.Snapshot, outboxSize)
		if err := lb.Send(r.Context(), lobby.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "lobby closed")
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = lb.Send(ctx, lobby.Leave{ClientID: clientID})
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		c := &client{conn: conn, log: log}

		// Writer goroutine: the lobby closes out when it stops or drops us.
		go func() {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						conn.Close(websocket.StatusGoingAway, "lobby closed")
						return
					}
					if err := c.write(ctx, types.Snapshot(snap.Version, snap.View)); err != nil {
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			readCtx, readCancel := context.WithTimeout(ctx, readTimeout)
			_, data, err := conn.Read(readCtx)
			readCancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = c.write(ctx, types.ServerMessage{Type: types.MsgError, Error: "bad json", Code: "bad_request"})
				continue
			}

			cmd, err := types.ToCommand(cm)
			if err == nil {
				err = opts.Catalog.Validate(cmd.ChampionID)
			}
			if err != nil {
				_ = c.write(ctx, types.Error(err))
				continue
			}

			res, err := lb.Do(ctx, clientID, cmd)
			if err != nil {
				return
			}
			// accepted commands reach this client through the broadcast
			if res.Err != nil {
				msg := types.Error(res.Err)
				msg.Version = res.Snapshot.Version
				_ = c.write(ctx, msg)
			}
		}
	}
}
