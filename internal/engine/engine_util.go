package engine

import "errors"

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func (s State) roleOf(team Team, id ChampionID) Role {
	for _, p := range s.Board(team).Picks {
		if p.ChampionID == id {
			return p.Role
		}
	}
	return ""
}

func (s State) banIndexOf(team Team, id ChampionID) int {
	for i, b := range s.Board(team).Bans {
		if b.ChampionID == id {
			return i
		}
	}
	return -1
}

type TeamView struct {
	Team  Team                 `json:"team"`
	Color Color                `json:"color"`
	Picks [RoleCount]PickSlot  `json:"picks"`
	Bans  [BansPerTeam]BanSlot `json:"bans"`
}

// View is the read model handed to clients for rendering.
type View struct {
	Format       Format       `json:"format"`
	StartingSide StartingSide `json:"starting_side"`
	Cursor       int          `json:"cursor"`
	Phase        string       `json:"phase"`
	CurrentTurn  *Turn        `json:"current_turn,omitempty"`
	Complete     bool         `json:"complete"`
	Flow         Flow         `json:"flow"`
	Blue         TeamView     `json:"blue"`
	Red          TeamView     `json:"red"`
	Claimed      []ChampionID `json:"claimed"`
	PendingSwap  *PendingSwap `json:"pending_swap,omitempty"`
	CanUndo      bool         `json:"can_undo"`
}

func (d *Draft) View() View {
	s := d.state
	side := s.StartingSide
	teamView := func(c Color) TeamView {
		t := side.TeamFor(c)
		b := s.Board(t)
		return TeamView{Team: t, Color: c, Picks: b.Picks, Bans: b.Bans}
	}

	v := View{
		Format:       s.Format,
		StartingSide: side,
		Cursor:       s.Cursor,
		Phase:        d.flow.PhaseAt(s.Cursor),
		Complete:     d.Complete(),
		Flow:         d.Flow(),
		Blue:         teamView(ColorBlue),
		Red:          teamView(ColorRed),
		Claimed:      s.ClaimedList(),
		CanUndo:      len(d.history) > 0,
	}
	if t, ok := d.CurrentTurn(); ok {
		v.CurrentTurn = &t
	}
	if p, ok := d.PendingSwap(); ok {
		v.PendingSwap = &p
	}
	return v
}

// ErrorCode maps engine errors to stable identifiers for clients and metric
// labels.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSnapshot):
		return "invalid_snapshot"
	case errors.Is(err, ErrDuplicateSelection):
		return "duplicate_selection"
	case errors.Is(err, ErrNoActiveTurn):
		return "no_active_turn"
	case errors.Is(err, ErrWrongTurn):
		return "wrong_turn"
	case errors.Is(err, ErrInvalidChampion):
		return "invalid_champion"
	case errors.Is(err, ErrUnknownTeam):
		return "unknown_team"
	case errors.Is(err, ErrUnknownRole):
		return "unknown_role"
	case errors.Is(err, ErrUnknownFormat):
		return "unknown_format"
	case errors.Is(err, ErrUnknownSide):
		return "unknown_side"
	case errors.Is(err, ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, ErrSlotOccupied):
		return "slot_occupied"
	case errors.Is(err, ErrSlotEmpty):
		return "slot_empty"
	case errors.Is(err, ErrEmptyHistory):
		return "empty_history"
	case errors.Is(err, ErrNoPendingSwap):
		return "no_pending_swap"
	case errors.Is(err, ErrInvalidSwapTarget):
		return "invalid_swap_target"
	case errors.Is(err, ErrSwapDuringBan):
		return "swap_during_ban"
	case errors.Is(err, ErrUnsupportedCommand):
		return "unsupported_command"
	default:
		return "internal"
	}
}
