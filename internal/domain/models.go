package domain

import "time"

const (
	MinTeams = 2
	MaxTeams = 6
)

// Phase is the top-level mode of a game session.
type Phase string

const (
	PhaseSetup       Phase = "setup"
	PhasePlaying     Phase = "playing"
	PhaseLeaderboard Phase = "leaderboard"
)

// TopologyType tags a question with a network diagram to render next to it.
type TopologyType string

const (
	TopologyNone TopologyType = "none"
	TopologyStar TopologyType = "star"
	TopologyBus  TopologyType = "bus"
	TopologyRing TopologyType = "ring"
	TopologyMesh TopologyType = "mesh"
)

// Team is one competing group. Order in GameState.Teams is turn order.
type Team struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Color      string `json:"color"`
	AvatarIcon string `json:"avatarIcon"`
}

// Category is a board column.
type Category struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IconName string `json:"iconName"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Correct  bool   `json:"isCorrect"`
	IconName string `json:"iconName,omitempty"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID               string       `json:"id"`
	CategoryID       string       `json:"categoryId"`
	Points           int          `json:"points"`
	Text             string       `json:"questionText"`
	Options          []Option     `json:"options"`
	Explanation      string       `json:"explanation,omitempty"`
	TopologyVisual   TopologyType `json:"topologyVisual,omitempty"`
	ImagePlaceholder string       `json:"imagePlaceholder,omitempty"`
}

// CorrectOption returns the first option flagged correct.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt, true
		}
	}
	return Option{}, false
}

// FindOption looks up an option by ID.
func (q Question) FindOption(optionID string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}

func (q Question) clone() Question {
	q.Options = append([]Option(nil), q.Options...)
	return q
}

// HistoryEntry records one resolved question.
type HistoryEntry struct {
	TeamID     string `json:"teamId"`
	QuestionID string `json:"questionId"`
	Points     int    `json:"points"`
}

// GameState is the single source of truth for one session. Transitions never
// mutate a GameState in place; they derive a new value from a Clone.
type GameState struct {
	Teams             []Team         `json:"teams"`
	CurrentTeamIndex  int            `json:"currentTeamIndex"`
	Phase             Phase          `json:"phase"`
	AnsweredQuestions []string       `json:"answeredQuestions"`
	History           []HistoryEntry `json:"history"`
}

// InitialState is the setup state every session starts from and returns to on reset.
func InitialState() GameState {
	return GameState{
		Teams:             []Team{},
		CurrentTeamIndex:  0,
		Phase:             PhaseSetup,
		AnsweredQuestions: []string{},
		History:           []HistoryEntry{},
	}
}

// Clone returns a deep copy so callers can derive a new state safely.
func (s GameState) Clone() GameState {
	return GameState{
		Teams:             append([]Team{}, s.Teams...),
		CurrentTeamIndex:  s.CurrentTeamIndex,
		Phase:             s.Phase,
		AnsweredQuestions: append([]string{}, s.AnsweredQuestions...),
		History:           append([]HistoryEntry{}, s.History...),
	}
}

// CurrentTeam returns the team whose turn it is.
func (s GameState) CurrentTeam() (Team, bool) {
	if s.CurrentTeamIndex < 0 || s.CurrentTeamIndex >= len(s.Teams) {
		return Team{}, false
	}
	return s.Teams[s.CurrentTeamIndex], true
}

// IsAnswered reports whether questionID was already resolved.
func (s GameState) IsAnswered(questionID string) bool {
	for _, id := range s.AnsweredQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// TotalScore sums the scores of all teams.
func (s GameState) TotalScore() int {
	total := 0
	for _, t := range s.Teams {
		total += t.Score
	}
	return total
}

// AnswerResult summarizes the outcome of a resolved question.
type AnswerResult struct {
	QuestionID      string `json:"questionId"`
	OptionID        string `json:"optionId,omitempty"`
	CorrectOptionID string `json:"correctOptionId"`
	TeamID          string `json:"teamId"`
	Correct         bool   `json:"correct"`
	Awarded         int    `json:"awarded"`
	TotalScore      int    `json:"totalScore"`
	Explanation     string `json:"explanation,omitempty"`
}

// LeaderboardEntry is a ranked view of a team.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	TeamID     string `json:"teamId"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Color      string `json:"color"`
	AvatarIcon string `json:"avatarIcon"`
}

// Leaderboard captures the ordered scoreboard for a game session.
type Leaderboard struct {
	GameID    string             `json:"gameId"`
	Entries   []LeaderboardEntry `json:"entries"`
	Winners   []string           `json:"winners"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Snapshot is what subscribers and clients receive after every transition.
type Snapshot struct {
	GameID         string    `json:"gameId"`
	BankID         string    `json:"bankId"`
	State          GameState `json:"state"`
	TotalQuestions int       `json:"totalQuestions"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BoardCell is one question slot on the board.
type BoardCell struct {
	QuestionID string `json:"questionId"`
	Points     int    `json:"points"`
	Answered   bool   `json:"answered"`
}

// BoardColumn is a category and its cells sorted by points.
type BoardColumn struct {
	Category Category    `json:"category"`
	Cells    []BoardCell `json:"cells"`
}

// Board is the grid view of a game.
type Board struct {
	GameID  string        `json:"gameId"`
	Columns []BoardColumn `json:"columns"`
}
