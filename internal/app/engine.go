package app

import (
	"fmt"
	"sort"

	"netquest-service/internal/domain"
)

// Palette holds the cosmetic attributes handed out to teams by position.
type Palette struct {
	Colors []string
	Icons  []string
}

func (p Palette) color(i int) string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[i%len(p.Colors)]
}

func (p Palette) icon(i int) string {
	if len(p.Icons) == 0 {
		return "default"
	}
	return p.Icons[i%len(p.Icons)]
}

// Engine is the game state machine. It holds no game state itself: every
// operation takes the current GameState and returns the next one. On error the
// input state is returned unchanged, so a failed call is a no-op for the caller.
type Engine struct {
	bank    *domain.Bank
	palette Palette
}

func NewEngine(bank *domain.Bank, palette Palette) *Engine {
	return &Engine{bank: bank, palette: palette}
}

// Bank exposes the read-only catalog the engine validates against.
func (e *Engine) Bank() *domain.Bank {
	return e.bank
}

// DefaultTeamNames produces "Team 1".."Team n".
func DefaultTeamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Team %d", i+1)
	}
	return names
}

// Start builds a fresh playing state for the given teams, in turn order.
func (e *Engine) Start(teamNames []string) (domain.GameState, error) {
	if len(teamNames) < domain.MinTeams || len(teamNames) > domain.MaxTeams {
		return domain.InitialState(), fmt.Errorf("%w: got %d, want %d-%d", domain.ErrInvalidTeamCount, len(teamNames), domain.MinTeams, domain.MaxTeams)
	}

	next := domain.InitialState()
	next.Phase = domain.PhasePlaying
	next.Teams = make([]domain.Team, len(teamNames))
	for i, name := range teamNames {
		next.Teams[i] = domain.Team{
			ID:         fmt.Sprintf("team-%d", i),
			Name:       name,
			Color:      e.palette.color(i),
			AvatarIcon: e.palette.icon(i),
		}
	}
	return next, nil
}

// Select returns the question to display. It never changes state.
func (e *Engine) Select(state domain.GameState, questionID string) (domain.Question, error) {
	if state.Phase != domain.PhasePlaying {
		return domain.Question{}, domain.ErrWrongPhase
	}
	question, ok := e.bank.FindQuestion(questionID)
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if state.IsAnswered(questionID) {
		return domain.Question{}, domain.ErrQuestionAnswered
	}
	return question, nil
}

// Resolve closes out a question for the current team with a caller-judged award.
// The award must be zero or the question's full value.
func (e *Engine) Resolve(state domain.GameState, questionID string, awarded int) (domain.GameState, error) {
	question, err := e.Select(state, questionID)
	if err != nil {
		return state, err
	}
	if awarded != 0 && awarded != question.Points {
		return state, fmt.Errorf("%w: %d for %s", domain.ErrInvalidAward, awarded, questionID)
	}
	if _, ok := state.CurrentTeam(); !ok {
		return state, domain.ErrWrongPhase
	}
	return e.apply(state, questionID, awarded), nil
}

// Answer judges the selected option against the bank and resolves the question.
func (e *Engine) Answer(state domain.GameState, questionID, optionID string) (domain.GameState, domain.AnswerResult, error) {
	question, err := e.Select(state, questionID)
	if err != nil {
		return state, domain.AnswerResult{}, err
	}
	selected, ok := question.FindOption(optionID)
	if !ok {
		return state, domain.AnswerResult{}, domain.ErrOptionNotFound
	}
	team, ok := state.CurrentTeam()
	if !ok {
		return state, domain.AnswerResult{}, domain.ErrWrongPhase
	}

	awarded := 0
	if selected.Correct {
		awarded = question.Points
	}
	next := e.apply(state, questionID, awarded)

	correct, _ := question.CorrectOption()
	return next, domain.AnswerResult{
		QuestionID:      questionID,
		OptionID:        optionID,
		CorrectOptionID: correct.ID,
		TeamID:          team.ID,
		Correct:         selected.Correct,
		Awarded:         awarded,
		TotalScore:      next.Teams[state.CurrentTeamIndex].Score,
		Explanation:     question.Explanation,
	}, nil
}

// Reset discards the session and returns to setup.
func (e *Engine) Reset() domain.GameState {
	return domain.InitialState()
}

// apply is the single resolution transition. Preconditions are checked by callers.
func (e *Engine) apply(state domain.GameState, questionID string, awarded int) domain.GameState {
	next := state.Clone()
	team := &next.Teams[next.CurrentTeamIndex]
	team.Score += awarded
	next.History = append(next.History, domain.HistoryEntry{
		TeamID:     team.ID,
		QuestionID: questionID,
		Points:     awarded,
	})
	next.AnsweredQuestions = append(next.AnsweredQuestions, questionID)
	next.CurrentTeamIndex = (next.CurrentTeamIndex + 1) % len(next.Teams)
	if len(next.AnsweredQuestions) == e.bank.TotalQuestions() {
		next.Phase = domain.PhaseLeaderboard
	}
	return next
}

// Board lays out the bank as category columns with answered flags.
func (e *Engine) Board(state domain.GameState) []domain.BoardColumn {
	categories := e.bank.Categories()
	columns := make([]domain.BoardColumn, 0, len(categories))
	for _, c := range categories {
		questions := e.bank.QuestionsFor(c.ID)
		cells := make([]domain.BoardCell, 0, len(questions))
		for _, q := range questions {
			cells = append(cells, domain.BoardCell{
				QuestionID: q.ID,
				Points:     q.Points,
				Answered:   state.IsAnswered(q.ID),
			})
		}
		columns = append(columns, domain.BoardColumn{Category: c, Cells: cells})
	}
	return columns
}

// Rank orders teams by score, highest first. Ties keep registration order and
// share a rank.
func Rank(teams []domain.Team) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(teams))
	for _, t := range teams {
		entries = append(entries, domain.LeaderboardEntry{
			TeamID:     t.ID,
			Name:       t.Name,
			Score:      t.Score,
			Color:      t.Color,
			AvatarIcon: t.AvatarIcon,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}

// winners returns the IDs of every team sharing the top score.
func winners(entries []domain.LeaderboardEntry) []string {
	var ids []string
	for _, e := range entries {
		if e.Rank == 1 {
			ids = append(ids, e.TeamID)
		}
	}
	return ids
}
