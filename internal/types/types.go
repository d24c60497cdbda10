package types

import "github.com/DoyleJ11/lol-draft-companion/internal/engine"

// ClientMessage is one command as sent by a client over the websocket or
// to POST /lobbies/{code}/commands. BanIndex selects the ban ClearSlot
// empties when Role is unset.
type ClientMessage struct {
	Type         string `json:"type"`
	Team         string `json:"team,omitempty"`
	Role         string `json:"role,omitempty"`
	BanIndex     int    `json:"ban_index,omitempty"`
	ChampionID   string `json:"champion_id,omitempty"`
	Format       string `json:"format,omitempty"`
	StartingSide string `json:"starting_side,omitempty"`
}

type ServerMessage struct {
	Type    string       `json:"type"` // "StateSnapshot" | "Error"
	Version int          `json:"version"`
	View    *engine.View `json:"view,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"` // stable error identifier
}

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgError         = "Error"
)

func Snapshot(version int, view engine.View) ServerMessage {
	return ServerMessage{Type: MsgStateSnapshot, Version: version, View: &view}
}

func Error(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Error: err.Error(), Code: engine.ErrorCode(err)}
}

// ToCommand validates m and converts it into an engine command.
func ToCommand(m ClientMessage) (engine.Command, error) {
	cmd := engine.Command{
		Type:         engine.CommandType(m.Type),
		Role:         engine.Role(m.Role),
		BanIndex:     m.BanIndex,
		ChampionID:   engine.ChampionID(m.ChampionID),
		Format:       engine.Format(m.Format),
		StartingSide: engine.StartingSide(m.StartingSide),
	}

	switch cmd.Type {
	case engine.CmdLockPick, engine.CmdBanChampion, engine.CmdClearSlot,
		engine.CmdInitiateSwap, engine.CmdCompleteSwap, engine.CmdSelectSwapSlot:
		team, err := engine.ParseTeam(m.Team)
		if err != nil {
			return engine.Command{}, err
		}
		cmd.Team = team
	case engine.CmdUndo, engine.CmdReset, engine.CmdCancelSwap:
	default:
		return engine.Command{}, engine.ErrUnsupportedCommand
	}

	if m.Role != "" {
		if _, err := engine.ParseRole(m.Role); err != nil {
			return engine.Command{}, err
		}
	}
	return cmd, nil
}
