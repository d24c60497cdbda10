package engine

type CommandType string

const (
	CmdLockPick       CommandType = "LockPick"
	CmdBanChampion    CommandType = "BanChampion"
	CmdClearSlot      CommandType = "ClearSlot"
	CmdUndo           CommandType = "Undo"
	CmdReset          CommandType = "Reset"
	CmdInitiateSwap   CommandType = "InitiateSwap"
	CmdCompleteSwap   CommandType = "CompleteSwap"
	CmdCancelSwap     CommandType = "CancelSwap"
	CmdSelectSwapSlot CommandType = "SelectSwapSlot"
)

/*
	CmdLockPick       -> EvtChampionPicked -> EvtTurnAdvanced (-> EvtDraftCompleted)
	CmdBanChampion    -> EvtChampionBanned -> EvtTurnAdvanced (-> EvtDraftCompleted)
	CmdClearSlot      -> EvtSlotCleared
	CmdUndo           -> EvtUndone
	CmdReset          -> EvtDraftReset
	CmdInitiateSwap   -> EvtSwapArmed | EvtSwapCancelled
	CmdCompleteSwap   -> EvtRolesSwapped | EvtSwapCancelled
	CmdCancelSwap     -> EvtSwapCancelled (only when one was pending)
	CmdSelectSwapSlot -> any of the three swap events
*/

// Command is one user action against a draft. Role selects the pick slot for
// LockPick, ClearSlot and the swap commands; ClearSlot without a Role clears
// the ban at BanIndex. Reset keeps the current format or side when unset.
type Command struct {
	Type         CommandType
	Team         Team
	Role         Role
	BanIndex     int
	ChampionID   ChampionID
	Format       Format
	StartingSide StartingSide
}

type EventType string

const (
	EvtChampionPicked EventType = "ChampionPicked"
	EvtChampionBanned EventType = "ChampionBanned"
	EvtTurnAdvanced   EventType = "TurnAdvanced"
	EvtDraftCompleted EventType = "DraftCompleted"
	EvtSlotCleared    EventType = "SlotCleared"
	EvtUndone         EventType = "Undone"
	EvtDraftReset     EventType = "DraftReset"
	EvtSwapArmed      EventType = "SwapArmed"
	EvtSwapCancelled  EventType = "SwapCancelled"
	EvtRolesSwapped   EventType = "RolesSwapped"
)

// Event reports one change. BanIndex is set for ChampionBanned and for
// SlotCleared on a ban slot (Role empty).
type Event struct {
	Type       EventType
	Team       Team
	Role       Role
	BanIndex   int
	ChampionID ChampionID
	Cursor     int
}

// Apply runs cmd against the draft. On error nothing changed.
func (d *Draft) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdLockPick, CmdBanChampion:
		return d.applySelection(cmd)

	case CmdClearSlot:
		slot := BanSlotAt(cmd.BanIndex)
		if cmd.Role != "" {
			slot = PickSlotOf(cmd.Role)
		}
		cleared, err := d.ClearSlot(cmd.Team, slot)
		if err != nil {
			return nil, err
		}
		evt := Event{Type: EvtSlotCleared, Team: cmd.Team, Role: cmd.Role, ChampionID: cleared, Cursor: d.Cursor()}
		if slot.Kind == SlotBan {
			evt.BanIndex = slot.BanIndex
		}
		return []Event{evt}, nil

	case CmdUndo:
		if err := d.Undo(); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtUndone, Cursor: d.Cursor()}}, nil

	case CmdReset:
		format, side := cmd.Format, cmd.StartingSide
		if format == "" {
			format = d.Format()
		}
		if side == "" {
			side = d.StartingSide()
		}
		if err := d.Reset(format, side); err != nil {
			return nil, err
		}
		return []Event{{Type: EvtDraftReset, Cursor: 0}}, nil

	case CmdInitiateSwap:
		status, err := d.InitiateSwap(cmd.Team, cmd.Role)
		if err != nil {
			return nil, err
		}
		if status == SwapAwaitingTarget {
			return []Event{d.swapArmedEvent()}, nil
		}
		return []Event{{Type: EvtSwapCancelled, Team: cmd.Team, Cursor: d.Cursor()}}, nil

	case CmdCompleteSwap:
		swapped, err := d.CompleteSwap(cmd.Team, cmd.Role)
		return d.swapOutcome(cmd, swapped, err)

	case CmdSelectSwapSlot:
		armedBefore := d.swap != nil
		swapped, err := d.SelectSwapSlot(cmd.Team, cmd.Role)
		if err != nil {
			return nil, err
		}
		if !armedBefore && d.swap != nil {
			return []Event{d.swapArmedEvent()}, nil
		}
		return d.swapOutcome(cmd, swapped, nil)

	case CmdCancelSwap:
		if !d.CancelSwap() {
			return nil, nil
		}
		return []Event{{Type: EvtSwapCancelled, Cursor: d.Cursor()}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}

func (d *Draft) applySelection(cmd Command) ([]Event, error) {
	turn, ok := d.CurrentTurn()
	if !ok {
		return nil, ErrNoActiveTurn
	}

	// Turn must match BOTH team & action
	want := ActionPick
	if cmd.Type == CmdBanChampion {
		want = ActionBan
	}
	if turn.Team != cmd.Team || turn.Action != want {
		return nil, ErrWrongTurn
	}

	if err := d.CommitSelection(cmd.ChampionID, cmd.Role); err != nil {
		return nil, err
	}

	evt := Event{Type: EvtChampionBanned, Team: turn.Team, ChampionID: cmd.ChampionID}
	if want == ActionPick {
		evt.Type = EvtChampionPicked
		evt.Role = d.state.roleOf(turn.Team, cmd.ChampionID)
	} else {
		evt.BanIndex = d.state.banIndexOf(turn.Team, cmd.ChampionID)
	}
	events := []Event{evt, {Type: EvtTurnAdvanced, Cursor: d.Cursor()}}

	if d.Complete() {
		events = append(events, Event{Type: EvtDraftCompleted, Cursor: d.Cursor()})
	}
	return events, nil
}

func (d *Draft) swapArmedEvent() Event {
	p := *d.swap
	return Event{Type: EvtSwapArmed, Team: p.Team, Role: p.OriginRole, ChampionID: p.OriginChampionID, Cursor: d.Cursor()}
}

func (d *Draft) swapOutcome(cmd Command, swapped bool, err error) ([]Event, error) {
	if err != nil {
		return nil, err
	}
	if swapped {
		return []Event{{Type: EvtRolesSwapped, Team: cmd.Team, Role: cmd.Role, Cursor: d.Cursor()}}, nil
	}
	return []Event{{Type: EvtSwapCancelled, Team: cmd.Team, Cursor: d.Cursor()}}, nil
}
