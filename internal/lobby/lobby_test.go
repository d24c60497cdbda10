package lobby

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvNoSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			// channel closed → that's fine; no further snapshots possible
			return
		}
		t.Fatalf("expected no snapshot within %v, but got: %+v", within, s)
	case <-time.After(within):
		// good: no snapshot
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func recvResult(t *testing.T, ch <-chan Result, within time.Duration) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(within):
		t.Fatalf("timed out waiting for result")
		return Result{} // unreachable
	}
}

func newRankedLobby(t *testing.T, ctx context.Context, m metrics.Metrics) *Lobby {
	t.Helper()
	d, err := engine.New(engine.FormatRanked, engine.SideABlue)
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	return NewLobby(ctx, "ZED123", d, nil, m)
}

// commandFor builds the command that fills the draft's current turn.
func commandFor(turn engine.Turn, id engine.ChampionID) engine.Command {
	typ := engine.CmdLockPick
	if turn.Action == engine.ActionBan {
		typ = engine.CmdBanChampion
	}
	return engine.Command{Type: typ, Team: turn.Team, ChampionID: id}
}

func TestLobby_Ban_BroadcastsSnapshotAndVersionIncrements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newRankedLobby(t, ctx, nil)

	clientOut := make(chan Snapshot, 2) // small buffer so broadcast doesn’t block
	l.Inbox() <- Join{ClientID: "ch1", Outbox: clientOut}

	// on join, lobby should immediately send the current snapshot (version 0, nothing claimed)
	first := recvSnapshot(t, clientOut, 100*time.Millisecond)
	if first.Version != 0 {
		t.Fatalf("after join: want version=0, got %d", first.Version)
	}
	if len(first.View.Claimed) != 0 {
		t.Fatalf("after join: expected nothing claimed, got %+v", first.View.Claimed)
	}

	cmd := engine.Command{Type: engine.CmdBanChampion, Team: engine.TeamA, ChampionID: "Aatrox"}
	l.Inbox() <- FromClient{ClientID: "ch1", Cmd: cmd}

	next := recvSnapshot(t, clientOut, 100*time.Millisecond)
	if next.Version != 1 {
		t.Fatalf("after ban: want version=1, got %d", next.Version)
	}
	if got := next.View.Blue.Bans[0].ChampionID; got != "Aatrox" {
		t.Fatalf("after ban: expected blue ban Aatrox, got %q", got)
	}
	if next.View.Cursor != 1 || next.View.CurrentTurn == nil || next.View.CurrentTurn.Team != engine.TeamB {
		t.Fatalf("after ban: expected team B on turn 1, got %+v", next.View.CurrentTurn)
	}

	l.Inbox() <- Shutdown{}
}

func TestLobby_RejectedCommand_RepliesErrorWithoutBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.NewService(reg)
	l := newRankedLobby(t, ctx, m)

	out := make(chan Snapshot, 2)
	l.Inbox() <- Join{ClientID: "ch1", Outbox: out}
	_ = recvSnapshot(t, out, 100*time.Millisecond)

	// team B tries to ban on team A's turn
	reply := make(chan Result, 1)
	l.Inbox() <- FromClient{
		ClientID: "ch1",
		Cmd:      engine.Command{Type: engine.CmdBanChampion, Team: engine.TeamB, ChampionID: "Ahri"},
		Reply:    reply,
	}
	res := recvResult(t, reply, 100*time.Millisecond)
	if res.Err != engine.ErrWrongTurn {
		t.Fatalf("want ErrWrongTurn, got %v", res.Err)
	}
	if res.Snapshot.Version != 0 {
		t.Fatalf("rejected command must not bump version, got %d", res.Snapshot.Version)
	}
	recvNoSnapshot(t, out, 50*time.Millisecond)

	if got := testutil.ToFloat64(m.CommandsRejected.WithLabelValues("wrong_turn")); got != 1 {
		t.Fatalf("want 1 rejected command metric, got %v", got)
	}
}

func TestLobby_NoOpCommand_KeepsVersion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newRankedLobby(t, ctx, nil)

	res, err := l.Do(ctx, "ch1", engine.Command{Type: engine.CmdCancelSwap})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.Err != nil || res.Snapshot.Version != 0 || len(res.Events) != 0 {
		t.Fatalf("cancel without pending swap should be a no-op, got %+v", res)
	}
}

func TestLobby_DropSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newRankedLobby(t, ctx, nil)

	clientOut := make(chan Snapshot, 1)
	l.Inbox() <- Join{ClientID: "ch1", Outbox: clientOut}

	// the join snapshot fills the buffer; the broadcast finds it full
	cmd := engine.Command{Type: engine.CmdBanChampion, Team: engine.TeamA, ChampionID: "Aatrox"}
	l.Inbox() <- FromClient{Cmd: cmd}

	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)

	if view.NumClients != 0 {
		t.Fatalf("expected slow client to be dropped; NumClients=%d", view.NumClients)
	}
	if view.Version != 1 {
		t.Fatalf("command should still apply; version=%d", view.Version)
	}
}

func TestLobby_CompletesDraft(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.NewService(reg)
	l := newRankedLobby(t, ctx, m)

	var last Result
	for i := 0; ; i++ {
		v, err := l.State(ctx)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if v.Draft.CurrentTurn == nil {
			break
		}
		last, err = l.Do(ctx, "ch1", commandFor(*v.Draft.CurrentTurn, engine.ChampionID(fmt.Sprintf("C%02d", i))))
		if err != nil || last.Err != nil {
			t.Fatalf("turn %d: %v %v", i, err, last.Err)
		}
	}

	if !last.Snapshot.View.Complete || last.Snapshot.Version != 20 {
		t.Fatalf("want completed draft at version 20, got %+v", last.Snapshot)
	}
	if !engine.ContainsEvent(last.Events, engine.EvtDraftCompleted) {
		t.Fatalf("last command should report completion, got %+v", last.Events)
	}
	if got := testutil.ToFloat64(m.DraftsCompleted); got != 1 {
		t.Fatalf("want 1 completed draft, got %v", got)
	}

	v, err := l.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if v.Snapshot.Filled() != 20 {
		t.Fatalf("snapshot should hold 20 champions, got %d", v.Snapshot.Filled())
	}
}

func TestLobby_Shutdown_ClosesOutboxes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newRankedLobby(t, ctx, nil)

	out := make(chan Snapshot, 2)
	l.Inbox() <- Join{ClientID: "c1", Outbox: out}
	_ = recvSnapshot(t, out, 500*time.Millisecond) // drain join snapshot

	l.Inbox() <- Shutdown{}

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatalf("lobby did not stop")
	}
	if _, ok := <-out; ok {
		t.Fatalf("expected outbox to be closed")
	}
	if _, err := l.Do(ctx, "c1", engine.Command{Type: engine.CmdUndo}); err != ErrClosed {
		t.Fatalf("want ErrClosed after shutdown, got %v", err)
	}
}

func TestLobby_ParentCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := newRankedLobby(t, ctx, nil)

	cancel()
	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatalf("lobby did not stop after parent cancel")
	}
}
