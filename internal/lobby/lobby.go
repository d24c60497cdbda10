package lobby

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
)

type Msg interface{ isLobbyMsg() }

// FromClient carries one command. Reply, when set, must be buffered; it
// receives exactly one Result.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
	Reply    chan Result
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// Snapshot is what clients receive after every accepted command.
type Snapshot struct {
	Version int
	View    engine.View
}

// Result answers a FromClient. On error the lobby did not change and
// Snapshot holds the current, unchanged version.
type Result struct {
	Snapshot Snapshot
	Events   []engine.Event
	Err      error
}

type View struct {
	Version    int
	NumClients int
	Draft      engine.View
	Snapshot   engine.Snapshot
}

type Lobby struct {
	code    string
	inbox   chan Msg
	draft   *engine.Draft
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	log     *zap.Logger
	metrics metrics.Metrics
}

// NewLobby starts the actor that owns draft. A nil logger or metrics sink
// disables that output.
func NewLobby(parent context.Context, code string, draft *engine.Draft, log *zap.Logger, m metrics.Metrics) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.Nop{}
	}

	l := &Lobby{
		code:    code,
		inbox:   make(chan Msg, 64), // Small buffer
		draft:   draft,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log.With(zap.String("lobby", code)),
		metrics: m,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				l.deliver(msg.ClientID, msg.Outbox, l.snapshot())
				l.log.Debug("client joined", zap.String("client", msg.ClientID), zap.Int("clients", len(l.clients)))

			case Leave:
				delete(l.clients, msg.ClientID)
				l.log.Debug("client left", zap.String("client", msg.ClientID), zap.Int("clients", len(l.clients)))

			case FromClient:
				l.handleCommand(msg)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					Draft:      l.draft.View(),
					Snapshot:   l.draft.Snapshot(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handleCommand(msg FromClient) {
	events, err := l.draft.Apply(msg.Cmd)
	if err != nil {
		code := engine.ErrorCode(err)
		l.metrics.IncCommandRejected(code)
		l.log.Debug("command rejected",
			zap.String("client", msg.ClientID),
			zap.String("type", string(msg.Cmd.Type)),
			zap.String("reason", code),
		)
		l.reply(msg, Result{Snapshot: l.snapshot(), Err: err})
		return
	}

	l.metrics.IncCommand(string(msg.Cmd.Type))
	if len(events) == 0 {
		// nothing changed, e.g. cancelling a swap that was never armed
		l.reply(msg, Result{Snapshot: l.snapshot()})
		return
	}
	if engine.ContainsEvent(events, engine.EvtDraftCompleted) {
		l.metrics.IncDraftsCompleted()
		l.log.Info("draft completed", zap.Int("version", l.version+1))
	}

	l.version++
	snap := l.snapshot()
	l.broadcast(snap)
	l.reply(msg, Result{Snapshot: snap, Events: events})
}

func (l *Lobby) reply(msg FromClient, res Result) {
	if msg.Reply == nil {
		return
	}
	select {
	case msg.Reply <- res:
	default:
		l.log.Warn("dropped command reply", zap.String("client", msg.ClientID))
	}
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.version, View: l.draft.View()}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
	l.log.Debug("lobby stopped")
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		l.deliver(id, ch, snap)
	}
}

// deliver never blocks the actor. Slow clients are dropped.
func (l *Lobby) deliver(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		//ok
	default:
		close(ch)
		delete(l.clients, id)
		l.log.Info("dropped slow client", zap.String("client", id))
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) Code() string { return l.code }

// Done is closed once the actor has stopped.
func (l *Lobby) Done() <-chan struct{} { return l.done }

// Send delivers msg unless the lobby stops or ctx ends first.
func (l *Lobby) Send(ctx context.Context, msg Msg) error {
	select {
	case l.inbox <- msg:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do applies cmd and waits for the outcome. The returned error is only set
// when the lobby could not be reached; command rejections arrive in
// Result.Err.
func (l *Lobby) Do(ctx context.Context, clientID string, cmd engine.Command) (Result, error) {
	reply := make(chan Result, 1)
	if err := l.Send(ctx, FromClient{ClientID: clientID, Cmd: cmd, Reply: reply}); err != nil {
		return Result{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-l.done:
		select {
		case res := <-reply:
			return res, nil
		default:
			return Result{}, ErrClosed
		}
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (l *Lobby) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return View{}, ErrClosed
		}
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
