package engine

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

type PickRecord struct {
	Role       Role       `json:"role" msgpack:"r"`
	ChampionID ChampionID `json:"champion_id" msgpack:"c"`
}

// TeamSnapshot lists a team's picks in role order and its bans by position.
// Empty ban positions are kept as "" so positions survive a round trip.
type TeamSnapshot struct {
	Picks []PickRecord `json:"picks" msgpack:"p"`
	Bans  []ChampionID `json:"bans" msgpack:"b"`
}

// Snapshot is the externally serializable form of a draft.
type Snapshot struct {
	Format       Format       `json:"format" msgpack:"f"`
	StartingSide StartingSide `json:"starting_side" msgpack:"s"`
	Cursor       int          `json:"cursor" msgpack:"n"`
	A            TeamSnapshot `json:"a" msgpack:"a"`
	B            TeamSnapshot `json:"b" msgpack:"b"`
}

func (s Snapshot) team(t Team) TeamSnapshot {
	if t == TeamB {
		return s.B
	}
	return s.A
}

// Filled counts the non-empty champions in the snapshot.
func (s Snapshot) Filled() int {
	n := 0
	for _, ts := range []TeamSnapshot{s.A, s.B} {
		for _, p := range ts.Picks {
			if p.ChampionID != "" {
				n++
			}
		}
		for _, b := range ts.Bans {
			if b != "" {
				n++
			}
		}
	}
	return n
}

func (d *Draft) Snapshot() Snapshot {
	return Snapshot{
		Format:       d.state.Format,
		StartingSide: d.state.StartingSide,
		Cursor:       d.state.Cursor,
		A:            snapshotBoard(d.state.A),
		B:            snapshotBoard(d.state.B),
	}
}

func snapshotBoard(b Board) TeamSnapshot {
	ts := TeamSnapshot{Picks: []PickRecord{}, Bans: []ChampionID{}}
	for _, p := range b.Picks {
		if p.ChampionID != "" {
			ts.Picks = append(ts.Picks, PickRecord{Role: p.Role, ChampionID: p.ChampionID})
		}
	}
	last := -1
	for i, ban := range b.Bans {
		if ban.ChampionID != "" {
			last = i
		}
	}
	for _, ban := range b.Bans[:last+1] {
		ts.Bans = append(ts.Bans, ban.ChampionID)
	}
	return ts
}

// Replay rebuilds a draft by committing the snapshot's selections in flow
// order, so the result carries undo history. It fails when the selections do
// not reproduce the snapshot's slots and cursor, e.g. after slots were
// cleared.
func Replay(s Snapshot) (*Draft, error) {
	d, err := New(s.Format, s.StartingSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	type queue struct {
		picks []PickRecord
		bans  []ChampionID
	}
	queues := map[Team]*queue{}
	for _, t := range []Team{TeamA, TeamB} {
		ts := s.team(t)
		q := &queue{}
		for _, p := range ts.Picks {
			if p.ChampionID != "" {
				q.picks = append(q.picks, p)
			}
		}
		for _, b := range ts.Bans {
			if b != "" {
				q.bans = append(q.bans, b)
			}
		}
		queues[t] = q
	}

	for {
		turn, ok := d.CurrentTurn()
		if !ok {
			break
		}
		q := queues[turn.Team]
		var id ChampionID
		var role Role
		if turn.Action == ActionBan {
			if len(q.bans) == 0 {
				break
			}
			id, q.bans = q.bans[0], q.bans[1:]
		} else {
			if len(q.picks) == 0 {
				break
			}
			id, role = q.picks[0].ChampionID, q.picks[0].Role
			q.picks = q.picks[1:]
		}
		if err := d.CommitSelection(id, role); err != nil {
			return nil, fmt.Errorf("%w: replay %q at turn %d: %w", ErrInvalidSnapshot, id, d.Cursor(), err)
		}
	}

	if d.Cursor() != s.Cursor {
		return nil, fmt.Errorf("%w: replay stopped at turn %d, snapshot is at %d", ErrInvalidSnapshot, d.Cursor(), s.Cursor)
	}
	for _, t := range []Team{TeamA, TeamB} {
		q := queues[t]
		if len(q.picks) > 0 || len(q.bans) > 0 {
			return nil, fmt.Errorf("%w: team %s has selections outside the flow order", ErrInvalidSnapshot, t)
		}
		got, want := snapshotBoard(d.state.Board(t)), normalize(s.team(t))
		if !slices.Equal(got.Picks, want.Picks) || !slices.Equal(got.Bans, want.Bans) {
			return nil, fmt.Errorf("%w: team %s slots differ after replay", ErrInvalidSnapshot, t)
		}
	}
	return d, nil
}

// normalize puts a team snapshot in the form Snapshot produces: picks in role
// order without empties, bans without trailing empties.
func normalize(ts TeamSnapshot) TeamSnapshot {
	out := TeamSnapshot{Picks: []PickRecord{}, Bans: []ChampionID{}}
	for _, p := range ts.Picks {
		if p.ChampionID != "" {
			out.Picks = append(out.Picks, p)
		}
	}
	slices.SortStableFunc(out.Picks, func(a, b PickRecord) int {
		ai, _ := a.Role.Index()
		bi, _ := b.Role.Index()
		return cmp.Compare(ai, bi)
	})
	last := -1
	for i, id := range ts.Bans {
		if id != "" {
			last = i
		}
	}
	out.Bans = append(out.Bans, ts.Bans[:last+1]...)
	return out
}

// Restore assigns the snapshot's slots directly after checking the draft
// invariants. The restored draft has no history.
func Restore(s Snapshot) (*Draft, error) {
	d, err := New(s.Format, s.StartingSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if s.Cursor < 0 || s.Cursor > len(d.flow) {
		return nil, fmt.Errorf("%w: cursor %d out of range", ErrInvalidSnapshot, s.Cursor)
	}

	st := NewState(s.Format, s.StartingSide)
	st.Cursor = s.Cursor
	claim := func(id ChampionID) error {
		if st.Claimed[id] {
			return fmt.Errorf("%w: champion %q appears twice", ErrInvalidSnapshot, id)
		}
		st.Claimed[id] = true
		return nil
	}

	for _, t := range []Team{TeamA, TeamB} {
		ts := s.team(t)
		b := st.board(t)
		if len(ts.Bans) > BansPerTeam {
			return nil, fmt.Errorf("%w: team %s has %d bans", ErrInvalidSnapshot, t, len(ts.Bans))
		}

		picks := 0
		for _, p := range ts.Picks {
			if p.ChampionID == "" {
				continue
			}
			i, ok := p.Role.Index()
			if !ok {
				return nil, fmt.Errorf("%w: %w %q", ErrInvalidSnapshot, ErrUnknownRole, p.Role)
			}
			if b.Picks[i].ChampionID != "" {
				return nil, fmt.Errorf("%w: team %s role %s filled twice", ErrInvalidSnapshot, t, p.Role)
			}
			if err := claim(p.ChampionID); err != nil {
				return nil, err
			}
			b.Picks[i].ChampionID = p.ChampionID
			picks++
		}

		bans := 0
		for i, id := range ts.Bans {
			if id == "" {
				continue
			}
			if err := claim(id); err != nil {
				return nil, err
			}
			b.Bans[i].ChampionID = id
			bans++
		}

		// Clears may leave fewer filled slots than consumed turns, never more.
		if picks > d.flow.Count(t, ActionPick, s.Cursor) || bans > d.flow.Count(t, ActionBan, s.Cursor) {
			return nil, fmt.Errorf("%w: team %s has more selections than turns before cursor %d", ErrInvalidSnapshot, t, s.Cursor)
		}
	}

	d.state = st
	return d, nil
}
