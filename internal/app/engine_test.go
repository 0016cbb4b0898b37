package app_test

import (
	"errors"
	"reflect"
	"testing"

	"netquest-service/internal/app"
	"netquest-service/internal/content"
	"netquest-service/internal/domain"
)

func newNetQuestEngine() *app.Engine {
	return app.NewEngine(domain.NewBank(content.NetQuest()), app.Palette{Colors: content.TeamColors, Icons: content.TeamIcons})
}

func mustStart(t *testing.T, engine *app.Engine, names ...string) domain.GameState {
	t.Helper()
	state, err := engine.Start(names)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return state
}

func checkInvariants(t *testing.T, state domain.GameState) {
	t.Helper()
	if len(state.History) != len(state.AnsweredQuestions) {
		t.Fatalf("history length %d != answered %d", len(state.History), len(state.AnsweredQuestions))
	}
	awarded := 0
	for _, h := range state.History {
		awarded += h.Points
	}
	if awarded != state.TotalScore() {
		t.Fatalf("history awards %d != team scores %d", awarded, state.TotalScore())
	}
	if len(state.Teams) > 0 && (state.CurrentTeamIndex < 0 || state.CurrentTeamIndex >= len(state.Teams)) {
		t.Fatalf("turn pointer %d out of range", state.CurrentTeamIndex)
	}
}

func TestStartBuildsTeams(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B", "A")

	if state.Phase != domain.PhasePlaying || state.CurrentTeamIndex != 0 {
		t.Fatalf("expected playing at team 0, got %s/%d", state.Phase, state.CurrentTeamIndex)
	}
	if len(state.Teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(state.Teams))
	}
	for i, team := range state.Teams {
		if team.Score != 0 {
			t.Fatalf("team %d starts with score %d", i, team.Score)
		}
		if team.Color != content.TeamColors[i] || team.AvatarIcon != content.TeamIcons[i] {
			t.Fatalf("team %d got palette %s/%s", i, team.Color, team.AvatarIcon)
		}
	}
	if state.Teams[0].ID != "team-0" || state.Teams[2].ID != "team-2" {
		t.Fatalf("expected sequential ids, got %+v", state.Teams)
	}
	if len(state.AnsweredQuestions) != 0 || len(state.History) != 0 {
		t.Fatalf("expected empty answered/history")
	}
}

func TestStartRejectsTeamCountOutOfRange(t *testing.T) {
	engine := newNetQuestEngine()
	for _, names := range [][]string{{"solo"}, app.DefaultTeamNames(7)} {
		state, err := engine.Start(names)
		if !errors.Is(err, domain.ErrInvalidTeamCount) {
			t.Fatalf("expected ErrInvalidTeamCount for %d teams, got %v", len(names), err)
		}
		if state.Phase != domain.PhaseSetup {
			t.Fatalf("expected setup state on failure, got %s", state.Phase)
		}
	}
}

func TestDefaultTeamNames(t *testing.T) {
	got := app.DefaultTeamNames(3)
	want := []string{"Team 1", "Team 2", "Team 3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTwoTeamScenario(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B")

	question, err := engine.Select(state, "b-100")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	state, err = engine.Resolve(state, "b-100", question.Points)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Teams[0].Score != 100 || state.CurrentTeamIndex != 1 {
		t.Fatalf("expected A=100 and turn 1, got %d/%d", state.Teams[0].Score, state.CurrentTeamIndex)
	}
	if !reflect.DeepEqual(state.AnsweredQuestions, []string{"b-100"}) {
		t.Fatalf("unexpected answered %v", state.AnsweredQuestions)
	}
	wantHistory := []domain.HistoryEntry{{TeamID: "team-0", QuestionID: "b-100", Points: 100}}
	if !reflect.DeepEqual(state.History, wantHistory) {
		t.Fatalf("unexpected history %+v", state.History)
	}

	state, err = engine.Resolve(state, "b-200", 0)
	if err != nil {
		t.Fatalf("resolve incorrect: %v", err)
	}
	if state.Teams[1].Score != 0 || state.CurrentTeamIndex != 0 {
		t.Fatalf("expected B unchanged and turn 0, got %d/%d", state.Teams[1].Score, state.CurrentTeamIndex)
	}
	if !reflect.DeepEqual(state.AnsweredQuestions, []string{"b-100", "b-200"}) {
		t.Fatalf("unexpected answered %v", state.AnsweredQuestions)
	}
	checkInvariants(t, state)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	engine := newNetQuestEngine()
	before := mustStart(t, engine, "A", "B")
	snapshot := before.Clone()

	if _, err := engine.Resolve(before, "b-100", 100); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(before, snapshot) {
		t.Fatalf("input state was mutated: %+v", before)
	}
}

func TestTurnRotation(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, app.DefaultTeamNames(4)...)
	bank := engine.Bank()

	var ids []string
	for _, c := range bank.Categories() {
		for _, q := range bank.QuestionsFor(c.ID) {
			ids = append(ids, q.ID)
		}
	}

	start := state.CurrentTeamIndex
	for i := 0; i < 4; i++ {
		var err error
		awarded := 0
		if i%2 == 0 {
			q, _ := bank.FindQuestion(ids[i])
			awarded = q.Points
		}
		state, err = engine.Resolve(state, ids[i], awarded)
		if err != nil {
			t.Fatalf("resolve %s: %v", ids[i], err)
		}
		checkInvariants(t, state)
	}
	if state.CurrentTeamIndex != start {
		t.Fatalf("expected turn pointer back at %d, got %d", start, state.CurrentTeamIndex)
	}
}

func TestSelectRejections(t *testing.T) {
	engine := newNetQuestEngine()

	if _, err := engine.Select(domain.InitialState(), "b-100"); !errors.Is(err, domain.ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase in setup, got %v", err)
	}

	state := mustStart(t, engine, "A", "B")
	if _, err := engine.Select(state, "nope"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	state, err := engine.Resolve(state, "b-100", 100)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := engine.Select(state, "b-100"); !errors.Is(err, domain.ErrQuestionAnswered) {
		t.Fatalf("expected ErrQuestionAnswered, got %v", err)
	}
}

func TestResolveRejectsDuplicateAndBadAward(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B")
	state, err := engine.Resolve(state, "b-100", 100)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	again, err := engine.Resolve(state, "b-100", 100)
	if !errors.Is(err, domain.ErrQuestionAnswered) {
		t.Fatalf("expected ErrQuestionAnswered, got %v", err)
	}
	if !reflect.DeepEqual(again, state) {
		t.Fatalf("rejected resolve must return the input state")
	}

	if _, err := engine.Resolve(state, "b-200", 150); !errors.Is(err, domain.ErrInvalidAward) {
		t.Fatalf("expected ErrInvalidAward, got %v", err)
	}
	if _, err := engine.Resolve(domain.InitialState(), "b-200", 0); !errors.Is(err, domain.ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
	checkInvariants(t, state)
}

func TestAnswerJudgesOption(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B")

	// b-100: opt-0 is correct.
	state, result, err := engine.Answer(state, "b-100", "opt-0")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !result.Correct || result.Awarded != 100 || result.TotalScore != 100 || result.TeamID != "team-0" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Explanation == "" || result.CorrectOptionID != "opt-0" {
		t.Fatalf("expected reveal details, got %+v", result)
	}

	// b-200: opt-2 is correct, team B picks opt-0.
	state, result, err = engine.Answer(state, "b-200", "opt-0")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if result.Correct || result.Awarded != 0 || result.TeamID != "team-1" || result.CorrectOptionID != "opt-2" {
		t.Fatalf("unexpected result %+v", result)
	}
	if state.CurrentTeamIndex != 0 {
		t.Fatalf("turn must advance on incorrect answers, got %d", state.CurrentTeamIndex)
	}

	if _, _, err := engine.Answer(state, "b-300", "opt-9"); !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected ErrOptionNotFound, got %v", err)
	}
	checkInvariants(t, state)
}

func TestFullBoardReachesLeaderboard(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B", "C")
	bank := engine.Bank()

	resolved := 0
	for _, c := range bank.Categories() {
		for _, q := range bank.QuestionsFor(c.ID) {
			if state.Phase != domain.PhasePlaying {
				t.Fatalf("phase %s before the board was exhausted", state.Phase)
			}
			// Team C never scores; A and B alternate correct answers by turn.
			awarded := 0
			if state.CurrentTeamIndex != 2 {
				awarded = q.Points
			}
			var err error
			state, err = engine.Resolve(state, q.ID, awarded)
			if err != nil {
				t.Fatalf("resolve %s: %v", q.ID, err)
			}
			resolved++
			checkInvariants(t, state)
		}
	}

	if resolved != bank.TotalQuestions() {
		t.Fatalf("resolved %d of %d", resolved, bank.TotalQuestions())
	}
	if state.Phase != domain.PhaseLeaderboard {
		t.Fatalf("expected leaderboard, got %s", state.Phase)
	}
	if _, err := engine.Select(state, "b-100"); !errors.Is(err, domain.ErrWrongPhase) {
		t.Fatalf("expected selection to be rejected after the game, got %v", err)
	}

	ranked := app.Rank(state.Teams)
	if ranked[len(ranked)-1].TeamID != "team-2" || ranked[len(ranked)-1].Score != 0 {
		t.Fatalf("expected team C last, got %+v", ranked)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not descending: %+v", ranked)
		}
	}

	if reset := engine.Reset(); !reflect.DeepEqual(reset, domain.InitialState()) {
		t.Fatalf("reset did not return the initial state: %+v", reset)
	}
}

func TestRankKeepsRegistrationOrderOnTies(t *testing.T) {
	teams := []domain.Team{
		{ID: "team-0", Name: "A", Score: 300},
		{ID: "team-1", Name: "B", Score: 500},
		{ID: "team-2", Name: "C", Score: 300},
		{ID: "team-3", Name: "D", Score: 100},
	}
	ranked := app.Rank(teams)

	var order []string
	var ranks []int
	for _, e := range ranked {
		order = append(order, e.TeamID)
		ranks = append(ranks, e.Rank)
	}
	if !reflect.DeepEqual(order, []string{"team-1", "team-0", "team-2", "team-3"}) {
		t.Fatalf("unexpected order %v", order)
	}
	if !reflect.DeepEqual(ranks, []int{1, 2, 2, 4}) {
		t.Fatalf("unexpected ranks %v", ranks)
	}
	if teams[0].ID != "team-0" {
		t.Fatalf("input teams must not be reordered")
	}
}

func TestBoardMarksAnswered(t *testing.T) {
	engine := newNetQuestEngine()
	state := mustStart(t, engine, "A", "B")
	state, err := engine.Resolve(state, "top-300", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	columns := engine.Board(state)
	if len(columns) != 6 {
		t.Fatalf("expected 6 columns, got %d", len(columns))
	}
	for _, col := range columns {
		for i, cell := range col.Cells {
			if i > 0 && cell.Points < col.Cells[i-1].Points {
				t.Fatalf("cells of %s not sorted by points", col.Category.ID)
			}
			if cell.Answered != (cell.QuestionID == "top-300") {
				t.Fatalf("unexpected answered flag on %s", cell.QuestionID)
			}
		}
	}
}
