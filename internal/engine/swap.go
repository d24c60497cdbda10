package engine

import "errors"

var ErrNoPendingSwap = errors.New("no pending swap")
var ErrInvalidSwapTarget = errors.New("invalid swap target")
var ErrSwapDuringBan = errors.New("cannot swap roles during a ban turn")

type SwapStatus string

const (
	SwapIdle           SwapStatus = "idle"
	SwapAwaitingTarget SwapStatus = "awaiting_target"
)

// PendingSwap is an armed role swap waiting for its second slot.
type PendingSwap struct {
	Team             Team       `json:"team"`
	OriginRole       Role       `json:"origin_role"`
	OriginChampionID ChampionID `json:"origin_champion_id"`
}

func (d *Draft) PendingSwap() (PendingSwap, bool) {
	if d.swap == nil {
		return PendingSwap{}, false
	}
	return *d.swap, true
}

func (d *Draft) SwapStatus() SwapStatus {
	if d.swap == nil {
		return SwapIdle
	}
	return SwapAwaitingTarget
}

// InitiateSwap arms a swap on a filled pick slot. Arming the same origin again
// disarms it, and arming while the other team has a swap pending cancels that
// swap instead. Arming another slot of the same team moves the origin.
func (d *Draft) InitiateSwap(team Team, role Role) (SwapStatus, error) {
	if !team.Valid() {
		return d.SwapStatus(), ErrUnknownTeam
	}
	i, ok := role.Index()
	if !ok {
		return d.SwapStatus(), ErrUnknownRole
	}

	if p := d.swap; p != nil {
		if p.Team != team || p.OriginRole == role {
			d.swap = nil
			return SwapIdle, nil
		}
	}

	if d.banTurn() {
		return d.SwapStatus(), ErrSwapDuringBan
	}
	champ := d.state.Board(team).Picks[i].ChampionID
	if champ == "" {
		return d.SwapStatus(), ErrSlotEmpty
	}

	d.swap = &PendingSwap{Team: team, OriginRole: role, OriginChampionID: champ}
	return SwapAwaitingTarget, nil
}

// CompleteSwap exchanges the champions of the pending origin slot and the
// target slot. A target on the other team cancels the pending swap and
// reports false with no error. Invalid targets leave the swap armed.
func (d *Draft) CompleteSwap(team Team, target Role) (bool, error) {
	if d.swap == nil {
		return false, ErrNoPendingSwap
	}
	if !team.Valid() {
		return false, ErrUnknownTeam
	}
	p := *d.swap
	if team != p.Team {
		d.swap = nil
		return false, nil
	}

	ti, ok := target.Index()
	if !ok {
		return false, ErrUnknownRole
	}
	oi, _ := p.OriginRole.Index()

	next := d.state.clone()
	b := next.board(team)
	if b.Picks[oi].ChampionID != p.OriginChampionID {
		// origin changed underneath the armed swap
		d.swap = nil
		return false, nil
	}
	if ti == oi || b.Picks[ti].ChampionID == "" {
		return false, ErrInvalidSwapTarget
	}
	if d.banTurn() {
		return false, ErrSwapDuringBan
	}

	b.Picks[oi].ChampionID, b.Picks[ti].ChampionID = b.Picks[ti].ChampionID, b.Picks[oi].ChampionID
	d.push(next)
	d.swap = nil
	return true, nil
}

// CancelSwap disarms any pending swap and reports whether one existed.
func (d *Draft) CancelSwap() bool {
	had := d.swap != nil
	d.swap = nil
	return had
}

// SelectSwapSlot handles a click on a pick slot: arm when idle, disarm on the
// origin or on the other team, otherwise complete.
func (d *Draft) SelectSwapSlot(team Team, role Role) (swapped bool, err error) {
	p := d.swap
	if p == nil || p.Team != team || p.OriginRole == role {
		_, err = d.InitiateSwap(team, role)
		return false, err
	}
	return d.CompleteSwap(team, role)
}

func (d *Draft) banTurn() bool {
	t, ok := d.CurrentTurn()
	return ok && t.Action == ActionBan
}
