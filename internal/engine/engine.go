package engine

import (
	"errors"
	"maps"
	"slices"
)

var ErrWrongTurn = errors.New("invalid turn")
var ErrDuplicateSelection = errors.New("champion already claimed")
var ErrNoActiveTurn = errors.New("draft already completed")
var ErrInvalidChampion = errors.New("invalid champion")
var ErrUnknownTeam = errors.New("unknown team")
var ErrUnknownRole = errors.New("unknown role")
var ErrInvalidSlot = errors.New("invalid slot")
var ErrSlotOccupied = errors.New("slot occupied")
var ErrSlotEmpty = errors.New("slot empty")
var ErrEmptyHistory = errors.New("nothing to undo")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

func ParseTeam(s string) (Team, error) {
	switch Team(s) {
	case TeamA, TeamB:
		return Team(s), nil
	default:
		return "", ErrUnknownTeam
	}
}

func (t Team) Valid() bool { return t == TeamA || t == TeamB }

func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

type Action string

const (
	ActionBan  Action = "ban"
	ActionPick Action = "pick"
)

type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleBottom  Role = "bottom"
	RoleSupport Role = "support"
)

const (
	RoleCount   = 5
	BansPerTeam = 5
)

// Roles is the display order of pick slots.
var Roles = [RoleCount]Role{RoleTop, RoleJungle, RoleMid, RoleBottom, RoleSupport}

func ParseRole(s string) (Role, error) {
	if _, ok := Role(s).Index(); !ok {
		return "", ErrUnknownRole
	}
	return Role(s), nil
}

// Index returns the slot position of r.
func (r Role) Index() (int, bool) {
	i := slices.Index(Roles[:], r)
	return i, i >= 0
}

// ChampionID is an opaque champion identity. The empty ID marks an empty slot.
type ChampionID string

type PickSlot struct {
	Role       Role       `json:"role"`
	ChampionID ChampionID `json:"champion_id,omitempty"`
}

type BanSlot struct {
	ChampionID ChampionID `json:"champion_id,omitempty"`
}

type Board struct {
	Picks [RoleCount]PickSlot  `json:"picks"`
	Bans  [BansPerTeam]BanSlot `json:"bans"`
}

func newBoard() Board {
	var b Board
	for i, r := range Roles {
		b.Picks[i].Role = r
	}
	return b
}

func (b *Board) firstEmptyBan() int {
	for i, s := range b.Bans {
		if s.ChampionID == "" {
			return i
		}
	}
	return -1
}

// pickTarget resolves the slot a pick lands in. An empty role means the first
// empty slot in role order.
func (b *Board) pickTarget(role Role) (int, error) {
	if role == "" {
		for i, s := range b.Picks {
			if s.ChampionID == "" {
				return i, nil
			}
		}
		return -1, ErrSlotOccupied
	}
	i, ok := role.Index()
	if !ok {
		return -1, ErrUnknownRole
	}
	if b.Picks[i].ChampionID != "" {
		return -1, ErrSlotOccupied
	}
	return i, nil
}

// State is one snapshot of a draft. Boards are arrays so copies are
// independent; Claimed is cloned on every transition.
type State struct {
	Format       Format              `json:"format"`
	StartingSide StartingSide        `json:"starting_side"`
	Cursor       int                 `json:"cursor"`
	A            Board               `json:"a"`
	B            Board               `json:"b"`
	Claimed      map[ChampionID]bool `json:"claimed"`
}

func NewState(format Format, side StartingSide) State {
	return State{
		Format:       format,
		StartingSide: side,
		A:            newBoard(),
		B:            newBoard(),
		Claimed:      map[ChampionID]bool{},
	}
}

// Board returns a copy of team's slots.
func (s State) Board(team Team) Board {
	if team == TeamB {
		return s.B
	}
	return s.A
}

func (s *State) board(team Team) *Board {
	if team == TeamB {
		return &s.B
	}
	return &s.A
}

func (s State) clone() State {
	c := s
	c.Claimed = maps.Clone(s.Claimed)
	if c.Claimed == nil {
		c.Claimed = map[ChampionID]bool{}
	}
	return c
}

// ClaimedList returns the claimed set sorted.
func (s State) ClaimedList() []ChampionID {
	ids := slices.Sorted(maps.Keys(s.Claimed))
	if ids == nil {
		return []ChampionID{}
	}
	return ids
}

// Draft owns the mutable draft: current state, the flow it follows, the undo
// history and any pending role swap. Rejected operations leave it untouched.
type Draft struct {
	flow    Flow
	state   State
	history []State
	swap    *PendingSwap
}

func New(format Format, side StartingSide) (*Draft, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if _, err := ParseStartingSide(string(side)); err != nil {
		return nil, err
	}
	return &Draft{
		flow:  GenerateFlow(format, side),
		state: NewState(format, side),
	}, nil
}

// Flow returns a copy of the draft's turn order.
func (d *Draft) Flow() Flow { return slices.Clone(d.flow) }

// State returns a copy of the current state.
func (d *Draft) State() State { return d.state.clone() }

func (d *Draft) Format() Format { return d.state.Format }

func (d *Draft) StartingSide() StartingSide { return d.state.StartingSide }

func (d *Draft) Cursor() int { return d.state.Cursor }

func (d *Draft) HistoryLen() int { return len(d.history) }

// CurrentTurn returns the next unconsumed turn, or false when complete.
func (d *Draft) CurrentTurn() (Turn, bool) {
	return d.flow.At(d.state.Cursor)
}

func (d *Draft) Complete() bool {
	_, ok := d.CurrentTurn()
	return !ok
}

func (d *Draft) IsClaimed(id ChampionID) bool { return d.state.Claimed[id] }

// CommitSelection fills the current turn with id. Bans take the team's first
// empty ban slot; picks take the slot for role, which must be empty.
func (d *Draft) CommitSelection(id ChampionID, role Role) error {
	turn, ok := d.CurrentTurn()
	if !ok {
		return ErrNoActiveTurn
	}
	if id == "" {
		return ErrInvalidChampion
	}
	if d.state.Claimed[id] {
		return ErrDuplicateSelection
	}

	next := d.state.clone()
	b := next.board(turn.Team)
	switch turn.Action {
	case ActionBan:
		i := b.firstEmptyBan()
		if i < 0 {
			return ErrSlotOccupied
		}
		b.Bans[i].ChampionID = id
	case ActionPick:
		i, err := b.pickTarget(role)
		if err != nil {
			return err
		}
		b.Picks[i].ChampionID = id
	}

	next.Claimed[id] = true
	next.Cursor++
	d.push(next)
	return nil
}

type SlotKind string

const (
	SlotPick SlotKind = "pick"
	SlotBan  SlotKind = "ban"
)

// Slot addresses one pick role or one ban position of a team.
type Slot struct {
	Kind     SlotKind
	Role     Role
	BanIndex int
}

func PickSlotOf(role Role) Slot { return Slot{Kind: SlotPick, Role: role} }

func BanSlotAt(index int) Slot { return Slot{Kind: SlotBan, BanIndex: index} }

// ClearSlot empties a committed slot and releases its champion. The cursor
// does not move.
func (d *Draft) ClearSlot(team Team, slot Slot) (ChampionID, error) {
	if !team.Valid() {
		return "", ErrUnknownTeam
	}

	next := d.state.clone()
	b := next.board(team)
	var cleared ChampionID
	switch slot.Kind {
	case SlotPick:
		i, ok := slot.Role.Index()
		if !ok {
			return "", ErrUnknownRole
		}
		cleared = b.Picks[i].ChampionID
		b.Picks[i].ChampionID = ""
	case SlotBan:
		if slot.BanIndex < 0 || slot.BanIndex >= BansPerTeam {
			return "", ErrInvalidSlot
		}
		cleared = b.Bans[slot.BanIndex].ChampionID
		b.Bans[slot.BanIndex].ChampionID = ""
	default:
		return "", ErrInvalidSlot
	}
	if cleared == "" {
		return "", ErrSlotEmpty
	}

	delete(next.Claimed, cleared)
	d.push(next)
	d.swap = nil
	return cleared, nil
}

// Undo restores the previous snapshot.
func (d *Draft) Undo() error {
	if len(d.history) == 0 {
		return ErrEmptyHistory
	}
	last := len(d.history) - 1
	d.state = d.history[last]
	d.history = d.history[:last]
	d.swap = nil
	return nil
}

// Reset discards everything, history included, and starts a fresh draft.
func (d *Draft) Reset(format Format, side StartingSide) error {
	fresh, err := New(format, side)
	if err != nil {
		return err
	}
	*d = *fresh
	return nil
}

func (d *Draft) push(next State) {
	d.history = append(d.history, d.state)
	d.state = next
}
