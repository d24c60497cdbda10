// Package types holds the JSON messages exchanged with clients.
//
// Client -> Server (websocket frame or POST /lobbies/{code}/commands body)
//
//	LockPick:       team, champion_id, role (optional, first empty role when unset)
//	BanChampion:    team, champion_id
//	ClearSlot:      team, role | ban_index
//	Undo:           {}
//	Reset:          format, starting_side (optional, current values when unset)
//	InitiateSwap:   team, role
//	CompleteSwap:   team, role
//	CancelSwap:     {}
//	SelectSwapSlot: team, role
//
// team is "A" or "B"; colours follow from the draft's starting_side.
//
// Server -> Client
//
//	StateSnapshot: version, view
//	  view: format, starting_side, cursor, phase, current_turn, complete, flow,
//	        blue/red {team, color, picks[role, champion_id], bans[champion_id]},
//	        claimed, pending_swap, can_undo
//	Error:         error, code, version (websocket only: the unchanged version)
package types
