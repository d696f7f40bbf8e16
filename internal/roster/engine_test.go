package roster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/preston-bernstein/nba-roster-service/internal/domain/players"
	"github.com/preston-bernstein/nba-roster-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-roster-service/internal/testutil"
)

func draft(name string) teams.Draft {
	return teams.Draft{Name: name, PlayerCount: 0, Region: "West", Country: "US"}
}

func mustCreate(t *testing.T, e *Engine, name string) teams.ID {
	t.Helper()
	id, err := e.CreateTeam(draft(name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return id
}

func sequentialIDs() func() teams.ID {
	n := 0
	return func() teams.ID {
		n++
		return teams.ID(fmt.Sprintf("team-%d", n))
	}
}

func TestCreateTeamStartsEmpty(t *testing.T) {
	e := NewEngine()
	id, err := e.CreateTeam(teams.Draft{Name: "Lakers", PlayerCount: 5, Region: "West", Country: "US"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	team, ok := e.Team(id)
	if !ok {
		t.Fatalf("expected team %s to exist", id)
	}
	if team.PlayerCount != 5 || len(team.Players) != 0 || team.Players == nil {
		t.Fatalf("unexpected new team %+v", team)
	}
}

func TestCreateTeamRejectsCaseInsensitiveDuplicate(t *testing.T) {
	e := NewEngine()
	mustCreate(t, e, "Lakers")

	_, err := e.CreateTeam(draft("lakers"))
	vErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !vErr.DuplicateName() {
		t.Fatalf("expected duplicate name, got %+v", vErr.Fields)
	}
	if got := len(e.ListTeams()); got != 1 {
		t.Fatalf("expected state untouched, got %d teams", got)
	}
}

func TestCreateTeamNameWhitespaceIsSignificant(t *testing.T) {
	e := NewEngine()
	mustCreate(t, e, "Lakers")

	if _, err := e.CreateTeam(draft("Lakers ")); err != nil {
		t.Fatalf("expected trailing space to make a distinct name, got %v", err)
	}
}

func TestCreateTeamAggregatesFieldErrors(t *testing.T) {
	e := NewEngine()
	_, err := e.CreateTeam(teams.Draft{Name: "L", PlayerCount: -1})
	vErr, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{FieldName, FieldPlayerCount, FieldRegion, FieldCountry} {
		if !vErr.Has(field) {
			t.Fatalf("expected %s to fail, got %+v", field, vErr.Fields)
		}
	}
	if vErr.DuplicateName() {
		t.Fatalf("did not expect duplicate name")
	}
}

func TestUpdateTeamKeepsIDAndRoster(t *testing.T) {
	e := NewEngine()
	id := mustCreate(t, e, "Lakers")
	if err := e.AddPlayerToTeam(id, players.Player{ID: 7}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := e.UpdateTeam(id, teams.Draft{Name: "LAKERS", PlayerCount: 12, Region: "Pacific", Country: "USA"}); err != nil {
		t.Fatalf("expected self rename to pass uniqueness, got %v", err)
	}
	team, _ := e.Team(id)
	if team.ID != id || team.Name != "LAKERS" || team.PlayerCount != 12 || team.Region != "Pacific" || team.Country != "USA" {
		t.Fatalf("unexpected updated team %+v", team)
	}
	if len(team.Players) != 1 || team.Players[0].ID != 7 {
		t.Fatalf("expected roster preserved, got %+v", team.Players)
	}
}

func TestUpdateTeamRejectsOtherTeamsName(t *testing.T) {
	e := NewEngine()
	mustCreate(t, e, "Lakers")
	id := mustCreate(t, e, "Celtics")

	err := e.UpdateTeam(id, draft("LAKERS"))
	if vErr, ok := AsValidationError(err); !ok || !vErr.DuplicateName() {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	team, _ := e.Team(id)
	if team.Name != "Celtics" {
		t.Fatalf("expected name unchanged, got %s", team.Name)
	}
}

func TestUpdateTeamReleasesOldName(t *testing.T) {
	e := NewEngine()
	id := mustCreate(t, e, "Lakers")
	if err := e.UpdateTeam(id, draft("Clippers")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := e.CreateTeam(draft("lakers")); err != nil {
		t.Fatalf("expected old name to be free, got %v", err)
	}
}

func TestUpdateTeamNotFound(t *testing.T) {
	e := NewEngine()
	if err := e.UpdateTeam("missing", draft("Lakers")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTeamTwiceReportsNotFound(t *testing.T) {
	e := NewEngine()
	id := mustCreate(t, e, "Lakers")
	keep := mustCreate(t, e, "Celtics")

	if err := e.DeleteTeam(id); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := e.DeleteTeam(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	list := e.ListTeams()
	if len(list) != 1 || list[0].ID != keep {
		t.Fatalf("expected only %s left, got %+v", keep, list)
	}
}

func TestDeleteTeamFreesPlayersAndName(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	b := mustCreate(t, e, "Celtics")
	if err := e.AddPlayerToTeam(a, players.Player{ID: 23}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := e.DeleteTeam(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := e.FindTeamByPlayer(23); ok {
		t.Fatalf("expected player to be unassigned after delete")
	}
	if err := e.AddPlayerToTeam(b, players.Player{ID: 23}); err != nil {
		t.Fatalf("expected player assignable after delete, got %v", err)
	}
	if _, err := e.CreateTeam(draft("LAKERS")); err != nil {
		t.Fatalf("expected name free after delete, got %v", err)
	}
}

func TestRosterScenario(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	b := mustCreate(t, e, "Celtics")
	player := players.Player{ID: 7, FirstName: "Test", LastName: "Player"}

	if err := e.AddPlayerToTeam(a, player); err != nil {
		t.Fatalf("add to A: %v", err)
	}
	teamA, _ := e.Team(a)
	if teamA.PlayerCount != 1 {
		t.Fatalf("expected playerCount 1, got %d", teamA.PlayerCount)
	}

	if err := e.AddPlayerToTeam(b, player); !errors.Is(err, ErrAlreadyRostered) {
		t.Fatalf("expected ErrAlreadyRostered, got %v", err)
	}
	teamA, _ = e.Team(a)
	teamB, _ := e.Team(b)
	if len(teamA.Players) != 1 || len(teamB.Players) != 0 || teamB.PlayerCount != 0 {
		t.Fatalf("expected rosters unchanged, A=%+v B=%+v", teamA, teamB)
	}

	if err := e.RemovePlayerFromTeam(a, 7); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := e.AddPlayerToTeam(b, player); err != nil {
		t.Fatalf("expected reassignment to succeed, got %v", err)
	}
	holder, ok := e.FindTeamByPlayer(7)
	if !ok || holder != b {
		t.Fatalf("expected player on %s, got %s", b, holder)
	}
}

func TestAddPlayerSameTeamTwiceIsRejected(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	if err := e.AddPlayerToTeam(a, players.Player{ID: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.AddPlayerToTeam(a, players.Player{ID: 1}); !errors.Is(err, ErrAlreadyRostered) {
		t.Fatalf("expected ErrAlreadyRostered, got %v", err)
	}
}

func TestAddPlayerPreservesInsertionOrder(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	sample := testutil.SamplePlayers(3)
	order := []players.Player{sample[2], sample[0], sample[1]}
	for _, p := range order {
		if err := e.AddPlayerToTeam(a, p); err != nil {
			t.Fatalf("add %d: %v", p.ID, err)
		}
	}
	team, _ := e.Team(a)
	if len(team.Players) != len(order) {
		t.Fatalf("expected %d players, got %d", len(order), len(team.Players))
	}
	for i, p := range order {
		if team.Players[i].ID != p.ID || team.Players[i].LastName != p.LastName {
			t.Fatalf("expected insertion order at %d: want %d, got %d", i, p.ID, team.Players[i].ID)
		}
	}
	if team.PlayerCount != len(order) {
		t.Fatalf("expected playerCount %d, got %d", len(order), team.PlayerCount)
	}
}

func TestAddPlayerUnknownTeam(t *testing.T) {
	e := NewEngine()
	if err := e.AddPlayerToTeam("missing", players.Player{ID: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := e.FindTeamByPlayer(1); ok {
		t.Fatalf("expected no assignment recorded")
	}
}

func TestRemovePlayerAbsentStillDecrements(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")

	if err := e.RemovePlayerFromTeam(a, 99); err != nil {
		t.Fatalf("expected absent removal to succeed, got %v", err)
	}
	if err := e.RemovePlayerFromTeam(a, 99); err != nil {
		t.Fatalf("expected absent removal to succeed, got %v", err)
	}
	team, _ := e.Team(a)
	if team.PlayerCount != -2 {
		t.Fatalf("expected playerCount to drift to -2, got %d", team.PlayerCount)
	}
}

func TestRemovePlayerUnknownTeam(t *testing.T) {
	e := NewEngine()
	if err := e.RemovePlayerFromTeam("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemovePlayerFromOtherTeamKeepsAssignment(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	b := mustCreate(t, e, "Celtics")
	if err := e.AddPlayerToTeam(a, players.Player{ID: 5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.RemovePlayerFromTeam(b, 5); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if holder, ok := e.FindTeamByPlayer(5); !ok || holder != a {
		t.Fatalf("expected player still on %s, got %s", a, holder)
	}
}

func TestListTeamsReturnsCopies(t *testing.T) {
	e := NewEngine()
	a := mustCreate(t, e, "Lakers")
	if err := e.AddPlayerToTeam(a, players.Player{ID: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	list := e.ListTeams()
	list[0].Name = "mutated"
	list[0].Players[0].ID = 42

	team, _ := e.Team(a)
	if team.Name != "Lakers" || team.Players[0].ID != 1 {
		t.Fatalf("expected engine state untouched, got %+v", team)
	}
}

func TestAllocateIDSkipsCollisions(t *testing.T) {
	e := NewEngine()
	ids := []teams.ID{"dup", "dup", "", "fresh"}
	e.newID = func() teams.ID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := mustCreate(t, e, "Lakers")
	second := mustCreate(t, e, "Celtics")
	if first != "dup" || second != "fresh" {
		t.Fatalf("expected dup then fresh, got %s and %s", first, second)
	}
}

func TestRestoreRebuildsIndexes(t *testing.T) {
	e := NewEngine()
	e.Restore([]teams.Team{
		{ID: "a", Name: "Lakers", Region: "West", Country: "US", PlayerCount: 1, Players: []players.Player{{ID: 7}}},
		{ID: "a", Name: "Shadow", Region: "West", Country: "US"},
		{ID: "", Name: "NoID", Region: "West", Country: "US"},
		{ID: "b", Name: "Celtics", Region: "East", Country: "US"},
	})

	list := e.ListTeams()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected restored teams %+v", list)
	}
	if _, err := e.CreateTeam(draft("lakers")); err == nil {
		t.Fatalf("expected restored name to be indexed")
	}
	if err := e.AddPlayerToTeam("b", players.Player{ID: 7}); !errors.Is(err, ErrAlreadyRostered) {
		t.Fatalf("expected restored roster to be indexed, got %v", err)
	}
}

func TestUpdateTeamChangingOnlyCaseKeepsName(t *testing.T) {
	e := NewEngine()
	id := mustCreate(t, e, "Lakers")
	if err := e.UpdateTeam(id, draft("LAKERS")); err != nil {
		t.Fatalf("expected case-only rename to pass, got %v", err)
	}
	if _, err := e.CreateTeam(draft("lakers")); err == nil {
		t.Fatalf("expected renamed team to keep its name")
	}
}

func TestRestoredCaseDuplicatesKeepNameTaken(t *testing.T) {
	e := NewEngine()
	e.Restore([]teams.Team{
		{ID: "a", Name: "Lakers", Region: "West", Country: "US"},
		{ID: "b", Name: "LAKERS", Region: "West", Country: "US"},
	})

	if err := e.UpdateTeam("b", draft("Celtics")); err != nil {
		t.Fatalf("rename b: %v", err)
	}
	if _, err := e.CreateTeam(draft("lakers")); err == nil {
		t.Fatalf("expected team a to keep its name after b was renamed")
	}

	e.Restore([]teams.Team{
		{ID: "a", Name: "Lakers", Region: "West", Country: "US"},
		{ID: "b", Name: "LAKERS", Region: "West", Country: "US"},
	})
	if err := e.DeleteTeam("a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if _, err := e.CreateTeam(draft("lakers")); err == nil {
		t.Fatalf("expected team b to take over the name after a was deleted")
	}
}

func TestNamesStayUniqueAcrossCommandSequence(t *testing.T) {
	e := NewEngine()
	e.newID = sequentialIDs()
	names := []string{"Lakers", "LAKERS", "Celtics", "celtics", "Heat", "lakers", "HEAT", "Suns"}
	for _, n := range names {
		_, _ = e.CreateTeam(draft(n))
	}
	list := e.ListTeams()
	for i := range list {
		_ = e.UpdateTeam(list[i].ID, draft(names[(i+1)%len(names)]))
	}

	seen := make(map[string]teams.ID)
	for _, team := range e.ListTeams() {
		key := nameKey(team.Name)
		if other, dup := seen[key]; dup {
			t.Fatalf("teams %s and %s share name %q", other, team.ID, team.Name)
		}
		seen[key] = team.ID
	}
}

func TestPlayersStayExclusiveAcrossCommandSequence(t *testing.T) {
	e := NewEngine()
	e.newID = sequentialIDs()
	ids := []teams.ID{mustCreate(t, e, "A1"), mustCreate(t, e, "B2"), mustCreate(t, e, "C3")}

	for i := 0; i < 30; i++ {
		_ = e.AddPlayerToTeam(ids[i%len(ids)], players.Player{ID: players.ID(i % 7)})
		if i%5 == 0 {
			_ = e.RemovePlayerFromTeam(ids[(i+1)%len(ids)], players.ID(i%7))
		}
	}

	seen := make(map[players.ID]teams.ID)
	for _, team := range e.ListTeams() {
		for _, p := range team.Players {
			if other, dup := seen[p.ID]; dup {
				t.Fatalf("player %d on both %s and %s", p.ID, other, team.ID)
			}
			seen[p.ID] = team.ID
		}
	}
}
