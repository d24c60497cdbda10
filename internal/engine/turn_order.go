package engine

import "errors"

var ErrUnknownFormat = errors.New("unknown draft format")
var ErrUnknownSide = errors.New("unknown starting side")

type Format string

const (
	FormatRanked      Format = "ranked"
	FormatCompetitive Format = "competitive"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatRanked, FormatCompetitive:
		return Format(s), nil
	default:
		return "", ErrUnknownFormat
	}
}

type Color string

const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)

// StartingSide says which colour team A occupies for the whole draft.
type StartingSide string

const (
	SideABlue StartingSide = "a-blue"
	SideARed  StartingSide = "a-red"
)

func ParseStartingSide(s string) (StartingSide, error) {
	switch StartingSide(s) {
	case SideABlue, SideARed:
		return StartingSide(s), nil
	default:
		return "", ErrUnknownSide
	}
}

// TeamFor returns the team sitting in the given colour seat.
func (s StartingSide) TeamFor(c Color) Team {
	if (s == SideABlue) == (c == ColorBlue) {
		return TeamA
	}
	return TeamB
}

// ColorOf returns the seat colour the given team occupies.
func (s StartingSide) ColorOf(t Team) Color {
	if s.TeamFor(ColorBlue) == t {
		return ColorBlue
	}
	return ColorRed
}

const (
	PhaseBan       = "Ban Phase"
	PhasePick      = "Pick Phase"
	PhaseBan1      = "Ban Phase 1"
	PhasePick1     = "Pick Phase 1"
	PhaseBan2      = "Ban Phase 2"
	PhasePick2     = "Pick Phase 2"
	PhaseCompleted = "Complete"
)

type Turn struct {
	Action Action `json:"action"`
	Team   Team   `json:"team"`
	Phase  string `json:"phase"`
}

// Flow is the fixed turn order of one draft.
type Flow []Turn

// At returns the turn at cursor, or false once the flow is exhausted.
func (f Flow) At(cursor int) (Turn, bool) {
	if cursor < 0 || cursor >= len(f) {
		return Turn{}, false
	}
	return f[cursor], true
}

// PhaseAt returns the phase label at cursor, PhaseCompleted past the end.
func (f Flow) PhaseAt(cursor int) string {
	t, ok := f.At(cursor)
	if !ok {
		return PhaseCompleted
	}
	return t.Phase
}

// Count returns how many turns of action belong to team in f[:upTo].
func (f Flow) Count(team Team, action Action, upTo int) int {
	upTo = min(upTo, len(f))
	n := 0
	for _, t := range f[:upTo] {
		if t.Team == team && t.Action == action {
			n++
		}
	}
	return n
}

// A round is a run of turns sharing an action and label. Groups alternate
// colours starting with first; each group is that many back-to-back turns.
type round struct {
	action Action
	label  string
	first  Color
	groups []int
}

var rankedRounds = []round{
	{ActionBan, PhaseBan, ColorBlue, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	{ActionPick, PhasePick, ColorBlue, []int{1, 2, 2, 2, 2, 1}},
}

// Ban Phase 2 opens with red regardless of which team holds red.
var competitiveRounds = []round{
	{ActionBan, PhaseBan1, ColorBlue, []int{1, 1, 1, 1, 1, 1}},
	{ActionPick, PhasePick1, ColorBlue, []int{1, 2, 2, 1}},
	{ActionBan, PhaseBan2, ColorRed, []int{1, 1, 1, 1}},
	{ActionPick, PhasePick2, ColorRed, []int{1, 1, 1, 1}},
}

// GenerateFlow builds the turn order for a format with colours bound to teams
// by side. Unknown formats yield an empty flow.
func GenerateFlow(format Format, side StartingSide) Flow {
	var rounds []round
	switch format {
	case FormatRanked:
		rounds = rankedRounds
	case FormatCompetitive:
		rounds = competitiveRounds
	default:
		return Flow{}
	}

	flow := make(Flow, 0, 20)
	for _, r := range rounds {
		color := r.first
		for _, n := range r.groups {
			for range n {
				flow = append(flow, Turn{Action: r.action, Team: side.TeamFor(color), Phase: r.label})
			}
			color = color.other()
		}
	}
	return flow
}

func (c Color) other() Color {
	if c == ColorBlue {
		return ColorRed
	}
	return ColorBlue
}
