package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/lobby"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
)

type HubMsg interface{ isHubMsg() }

// CreateLobby registers a new lobby for Code. Reply gets nil when Code is
// already taken.
type CreateLobby struct {
	Code  string
	Draft *engine.Draft
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code  string
	Draft *engine.Draft // only used if creation happens
	Reply chan *lobby.Lobby
}

// RemoveLobby stops the lobby and forgets it. Reply, when set, reports
// whether a lobby existed.
type RemoveLobby struct {
	Code  string
	Reply chan bool
}

type ShutdownHub struct{}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	log     *zap.Logger
	metrics metrics.Metrics
}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

func NewHub(parent context.Context, log *zap.Logger, m metrics.Metrics) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.Nop{}
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
		metrics: m,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub and all of its lobbies have stopped.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if h.lobbies[msg.Code] != nil {
					msg.Reply <- nil
					break
				}
				msg.Reply <- h.ensure(msg.Code, msg.Draft)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code, msg.Draft)

			case RemoveLobby:
				lb := h.lobbies[msg.Code]
				if lb != nil {
					stop(lb)
					delete(h.lobbies, msg.Code)
					h.metrics.SetActiveLobbies(len(h.lobbies))
					h.log.Info("lobby removed", zap.String("lobby", msg.Code))
				}
				if msg.Reply != nil {
					msg.Reply <- lb != nil
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string, draft *engine.Draft) *lobby.Lobby {
	if lb := h.lobbies[code]; lb != nil {
		return lb
	}
	if draft == nil {
		return nil
	}

	lb := lobby.NewLobby(h.ctx, code, draft, h.log, h.metrics)
	h.lobbies[code] = lb
	h.metrics.IncLobbiesCreated()
	h.metrics.SetActiveLobbies(len(h.lobbies))
	h.log.Info("lobby created",
		zap.String("lobby", code),
		zap.String("format", string(draft.Format())),
		zap.String("starting_side", string(draft.StartingSide())),
	)
	return lb
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		stop(lb)
	}
	for _, lb := range h.lobbies {
		<-lb.Done()
	}
	clear(h.lobbies)
	h.metrics.SetActiveLobbies(0)
	h.cancel()
	h.log.Info("hub stopped")
}

func stop(lb *lobby.Lobby) {
	select {
	case lb.Inbox() <- lobby.Shutdown{}:
	case <-lb.Done():
	}
}

// Lookup returns the lobby for code, or nil.
func (h *Hub) Lookup(ctx context.Context, code string) (*lobby.Lobby, error) {
	return h.ask(ctx, func(reply chan *lobby.Lobby) HubMsg {
		return GetLobby{Code: code, Reply: reply}
	})
}

// Create starts a lobby around draft under code. It returns nil when code is
// already taken.
func (h *Hub) Create(ctx context.Context, code string, draft *engine.Draft) (*lobby.Lobby, error) {
	return h.ask(ctx, func(reply chan *lobby.Lobby) HubMsg {
		return CreateLobby{Code: code, Draft: draft, Reply: reply}
	})
}

// Remove stops the lobby for code and reports whether it existed.
func (h *Hub) Remove(ctx context.Context, code string) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case h.inbox <- RemoveLobby{Code: code, Reply: reply}:
	case <-h.done:
		return false, ErrClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-h.done:
		return false, ErrClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Ensure returns the lobby for code, starting one around draft if needed.
func (h *Hub) Ensure(ctx context.Context, code string, draft *engine.Draft) (*lobby.Lobby, error) {
	return h.ask(ctx, func(reply chan *lobby.Lobby) HubMsg {
		return EnsureLobby{Code: code, Draft: draft, Reply: reply}
	})
}

func (h *Hub) ask(ctx context.Context, build func(chan *lobby.Lobby) HubMsg) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	select {
	case h.inbox <- build(reply):
	case <-h.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case lb := <-reply:
		return lb, nil
	case <-h.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the hub down and waits for every lobby to stop. It returns
// immediately when the hub has already stopped.
func (h *Hub) Stop(ctx context.Context) error {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
