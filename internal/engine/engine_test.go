package engine

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scriptBans = []ChampionID{"Aatrox", "Ahri", "Akali", "Alistar", "Amumu", "Anivia", "Annie", "Ashe", "Azir", "Bard"}
var scriptPicks = []ChampionID{"Blitzcrank", "Brand", "Braum", "Caitlyn", "Camille", "Darius", "Diana", "Draven", "Ekko", "Elise"}

func newDraft(t *testing.T, format Format, side StartingSide) *Draft {
	t.Helper()
	d, err := New(format, side)
	require.NoError(t, err)
	return d
}

// commitAll commits ids in order, letting picks fall into the first empty role.
func commitAll(t *testing.T, d *Draft, ids ...ChampionID) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, d.CommitSelection(id, ""), "commit %s at cursor %d", id, d.Cursor())
	}
}

// assertClaimedMatchesSlots checks that Claimed is exactly the set of filled
// slots and that no champion sits in two slots.
func assertClaimedMatchesSlots(t *testing.T, s State) {
	t.Helper()
	seen := map[ChampionID]bool{}
	for _, team := range []Team{TeamA, TeamB} {
		b := s.Board(team)
		for _, p := range b.Picks {
			if p.ChampionID != "" {
				require.False(t, seen[p.ChampionID], "%s in two slots", p.ChampionID)
				seen[p.ChampionID] = true
			}
		}
		for _, ban := range b.Bans {
			if ban.ChampionID != "" {
				require.False(t, seen[ban.ChampionID], "%s in two slots", ban.ChampionID)
				seen[ban.ChampionID] = true
			}
		}
	}
	assert.Equal(t, seen, s.Claimed)
}

func TestNew_RejectsUnknownInputs(t *testing.T) {
	_, err := New(Format("aram"), SideABlue)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = New(FormatRanked, StartingSide("purple"))
	assert.ErrorIs(t, err, ErrUnknownSide)
}

func TestNew_EmptyDraft(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	s := d.State()

	assert.Equal(t, 0, s.Cursor)
	assert.Empty(t, s.Claimed)
	assert.Equal(t, 0, d.HistoryLen())
	for _, team := range []Team{TeamA, TeamB} {
		b := s.Board(team)
		for i, p := range b.Picks {
			assert.Equal(t, Roles[i], p.Role)
			assert.Empty(t, p.ChampionID)
		}
		for _, ban := range b.Bans {
			assert.Empty(t, ban.ChampionID)
		}
	}

	turn, ok := d.CurrentTurn()
	require.True(t, ok)
	assert.Equal(t, Turn{Action: ActionBan, Team: TeamA, Phase: PhaseBan}, turn)
}

func TestRankedDraft_RunsToCompletion(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, scriptBans...)
	commitAll(t, d, scriptPicks...)

	_, ok := d.CurrentTurn()
	assert.False(t, ok)
	assert.True(t, d.Complete())

	s := d.State()
	assert.Len(t, s.Claimed, 20)
	assert.Equal(t, 20, s.Cursor)
	for _, team := range []Team{TeamA, TeamB} {
		b := s.Board(team)
		for _, p := range b.Picks {
			assert.NotEmpty(t, p.ChampionID, "team %s role %s", team, p.Role)
		}
		for i, ban := range b.Bans {
			assert.NotEmpty(t, ban.ChampionID, "team %s ban %d", team, i)
		}
	}

	// ranked picks: A, BB, AA, BB, AA, B
	assert.Equal(t, ChampionID("Blitzcrank"), s.A.Picks[0].ChampionID)
	assert.Equal(t, ChampionID("Brand"), s.B.Picks[0].ChampionID)
	assert.Equal(t, ChampionID("Braum"), s.B.Picks[1].ChampionID)
	assert.Equal(t, ChampionID("Caitlyn"), s.A.Picks[1].ChampionID)
	assert.Equal(t, ChampionID("Elise"), s.B.Picks[4].ChampionID)
	assertClaimedMatchesSlots(t, s)

	err := d.CommitSelection("Evelynn", "")
	assert.ErrorIs(t, err, ErrNoActiveTurn)
	assert.Equal(t, s, d.State())
}

func TestDuplicatePickIsRejected(t *testing.T) {
	cases := []struct {
		name string
		id   ChampionID
		want error
	}{
		{name: "already picked by the other team", id: "Blitzcrank", want: ErrDuplicateSelection},
		{name: "already banned", id: "Aatrox", want: ErrDuplicateSelection},
		{name: "empty champion", id: "", want: ErrInvalidChampion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDraft(t, FormatRanked, SideABlue)
			commitAll(t, d, scriptBans...)
			commitAll(t, d, "Blitzcrank") // team A's first pick

			turn, _ := d.CurrentTurn()
			require.Equal(t, TeamB, turn.Team)
			before := d.State()
			history := d.HistoryLen()

			err := d.CommitSelection(tc.id, RoleTop)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, d.State())
			assert.Equal(t, before.B, d.State().B)
			assert.Equal(t, history, d.HistoryLen())
		})
	}
}

func TestCommitSelection_PickIsRoleDirected(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, scriptBans...)

	require.NoError(t, d.CommitSelection("LeeSin", RoleJungle))
	s := d.State()
	assert.Equal(t, ChampionID("LeeSin"), s.A.Picks[1].ChampionID)
	assert.Empty(t, s.A.Picks[0].ChampionID)

	// team B picks twice; the second may not reuse the occupied role
	require.NoError(t, d.CommitSelection("Sejuani", RoleJungle))
	before := d.State()
	assert.ErrorIs(t, d.CommitSelection("Viego", RoleJungle), ErrSlotOccupied)
	assert.ErrorIs(t, d.CommitSelection("Viego", Role("roam")), ErrUnknownRole)
	assert.Equal(t, before, d.State())

	require.NoError(t, d.CommitSelection("Viego", RoleSupport))
	assert.Equal(t, ChampionID("Viego"), d.State().B.Picks[4].ChampionID)
}

func TestCommitSelection_BansArePositional(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, "Aatrox", "Ahri", "Akali", "Alistar") // A: Aatrox, Akali

	_, err := d.ClearSlot(TeamA, BanSlotAt(0))
	require.NoError(t, err)

	commitAll(t, d, "Amumu") // A's next ban fills the first empty position
	s := d.State()
	assert.Equal(t, ChampionID("Amumu"), s.A.Bans[0].ChampionID)
	assert.Equal(t, ChampionID("Akali"), s.A.Bans[1].ChampionID)
	assert.Empty(t, s.A.Bans[2].ChampionID)
}

func TestClearSlot(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, scriptBans...)
	require.NoError(t, d.CommitSelection("Blitzcrank", RoleSupport))

	cursor := d.Cursor()
	history := d.HistoryLen()
	cleared, err := d.ClearSlot(TeamA, PickSlotOf(RoleSupport))
	require.NoError(t, err)
	assert.Equal(t, ChampionID("Blitzcrank"), cleared)

	s := d.State()
	assert.Equal(t, cursor, s.Cursor, "clearing never rewinds the cursor")
	assert.False(t, s.Claimed["Blitzcrank"])
	assert.Empty(t, s.A.Picks[4].ChampionID)
	assert.Equal(t, history+1, d.HistoryLen())
	assertClaimedMatchesSlots(t, s)

	// the released champion is selectable again
	require.NoError(t, d.CommitSelection("Blitzcrank", RoleSupport))
	assert.Equal(t, ChampionID("Blitzcrank"), d.State().B.Picks[4].ChampionID)
}

func TestClearSlot_Rejections(t *testing.T) {
	cases := []struct {
		name string
		team Team
		slot Slot
		want error
	}{
		{name: "empty pick", team: TeamA, slot: PickSlotOf(RoleMid), want: ErrSlotEmpty},
		{name: "empty ban", team: TeamB, slot: BanSlotAt(4), want: ErrSlotEmpty},
		{name: "ban index out of range", team: TeamA, slot: BanSlotAt(5), want: ErrInvalidSlot},
		{name: "unknown role", team: TeamA, slot: PickSlotOf("roam"), want: ErrUnknownRole},
		{name: "unknown team", team: Team("C"), slot: BanSlotAt(0), want: ErrUnknownTeam},
		{name: "unknown kind", team: TeamA, slot: Slot{Kind: "hover"}, want: ErrInvalidSlot},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDraft(t, FormatRanked, SideABlue)
			commitAll(t, d, "Aatrox", "Ahri")
			before := d.State()

			_, err := d.ClearSlot(tc.team, tc.slot)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, d.State())
			assert.Equal(t, 2, d.HistoryLen())
		})
	}
}

func TestUndo_RoundTrip(t *testing.T) {
	d := newDraft(t, FormatCompetitive, SideARed)
	all := append(append([]ChampionID{}, scriptBans...), scriptPicks...)

	for _, id := range all {
		before := d.State()
		require.NoError(t, d.CommitSelection(id, ""))
		require.NoError(t, d.Undo())
		assert.Equal(t, before, d.State(), "undo after %s", id)

		require.NoError(t, d.CommitSelection(id, ""))
	}
	assert.True(t, d.Complete())
}

func TestUndo_EmptyHistoryIsNoop(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	before := d.State()

	assert.ErrorIs(t, d.Undo(), ErrEmptyHistory)
	assert.Equal(t, before, d.State())
}

func TestUndo_RevertsClear(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, "Aatrox")
	before := d.State()

	_, err := d.ClearSlot(TeamA, BanSlotAt(0))
	require.NoError(t, err)
	require.NoError(t, d.Undo())
	assert.Equal(t, before, d.State())
	assert.True(t, d.IsClaimed("Aatrox"))
}

func TestReset(t *testing.T) {
	d := newDraft(t, FormatRanked, SideABlue)
	commitAll(t, d, scriptBans[:4]...)

	require.NoError(t, d.Reset(FormatCompetitive, SideARed))
	assert.Equal(t, NewState(FormatCompetitive, SideARed), d.State())
	assert.Equal(t, 0, d.HistoryLen())
	assert.Equal(t, GenerateFlow(FormatCompetitive, SideARed), d.Flow())
	assert.ErrorIs(t, d.Undo(), ErrEmptyHistory)

	assert.ErrorIs(t, d.Reset(Format("urf"), SideABlue), ErrUnknownFormat)
	assert.Equal(t, FormatCompetitive, d.Format())
}

// A seeded random walk over commits, clears and undos must keep the claimed
// set in sync with the slots and the cursor monotone except under undo.
func TestInvariants_RandomWalk(t *testing.T) {
	pool := make([]ChampionID, 30)
	for i := range pool {
		pool[i] = ChampionID(fmt.Sprintf("champ-%02d", i))
	}

	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7))
			d := newDraft(t, FormatCompetitive, SideABlue)

			for step := 0; step < 80; step++ {
				before := d.State()
				var err error
				switch op := rng.IntN(10); {
				case op < 7:
					role := Roles[rng.IntN(RoleCount)]
					err = d.CommitSelection(pool[rng.IntN(len(pool))], role)
					if err == nil {
						assert.Equal(t, before.Cursor+1, d.Cursor())
					}
				case op < 9:
					team := []Team{TeamA, TeamB}[rng.IntN(2)]
					_, err = d.ClearSlot(team, BanSlotAt(rng.IntN(BansPerTeam)))
					if err == nil {
						assert.Equal(t, before.Cursor, d.Cursor())
					}
				default:
					err = d.Undo()
					if err == nil {
						assert.LessOrEqual(t, d.Cursor(), before.Cursor)
					}
				}
				if err != nil {
					assert.Equal(t, before, d.State(), "rejected op mutated state")
				}
				assertClaimedMatchesSlots(t, d.State())
			}
		})
	}
}
