package domain

import (
	"errors"
	"fmt"
	"sort"
)

// BankData is the serialized form of a question bank (JSONB row, redis blob, compiled-in content).
type BankData struct {
	ID         string     `json:"id"`
	Categories []Category `json:"categories"`
	Questions  []Question `json:"questions"`
}

// Bank is an immutable catalog of categories and questions. All accessors
// return copies, so a Bank can be shared freely between sessions.
type Bank struct {
	id         string
	categories []Category
	questions  []Question
	byID       map[string]int
	byCategory map[string][]int
}

// NewBank indexes data. Questions within a category are ordered by points,
// ties keeping their authored order.
func NewBank(data BankData) *Bank {
	b := &Bank{
		id:         data.ID,
		categories: append([]Category(nil), data.Categories...),
		questions:  make([]Question, 0, len(data.Questions)),
		byID:       make(map[string]int, len(data.Questions)),
		byCategory: make(map[string][]int, len(data.Categories)),
	}
	for _, q := range data.Questions {
		if _, dup := b.byID[q.ID]; dup {
			continue
		}
		b.byID[q.ID] = len(b.questions)
		b.byCategory[q.CategoryID] = append(b.byCategory[q.CategoryID], len(b.questions))
		b.questions = append(b.questions, q.clone())
	}
	for _, idx := range b.byCategory {
		sort.SliceStable(idx, func(i, j int) bool {
			return b.questions[idx[i]].Points < b.questions[idx[j]].Points
		})
	}
	return b
}

func (b *Bank) ID() string {
	return b.id
}

// Categories returns the categories in board order.
func (b *Bank) Categories() []Category {
	return append([]Category(nil), b.categories...)
}

// QuestionsFor returns the questions of a category sorted by points. Unknown
// categories yield an empty slice.
func (b *Bank) QuestionsFor(categoryID string) []Question {
	idx := b.byCategory[categoryID]
	out := make([]Question, 0, len(idx))
	for _, i := range idx {
		out = append(out, b.questions[i].clone())
	}
	return out
}

// FindQuestion looks up a question by ID.
func (b *Bank) FindQuestion(questionID string) (Question, bool) {
	i, ok := b.byID[questionID]
	if !ok {
		return Question{}, false
	}
	return b.questions[i].clone(), true
}

func (b *Bank) TotalQuestions() int {
	return len(b.questions)
}

// Data returns the serializable form of the bank.
func (b *Bank) Data() BankData {
	data := BankData{ID: b.id, Categories: b.Categories(), Questions: make([]Question, 0, len(b.questions))}
	for _, q := range b.questions {
		data.Questions = append(data.Questions, q.clone())
	}
	return data
}

// Validate reports authoring defects in bank content.
func (d BankData) Validate() error {
	var errs []error
	if len(d.Categories) == 0 {
		errs = append(errs, errors.New("bank has no categories"))
	}
	categories := make(map[string]int, len(d.Categories))
	for _, c := range d.Categories {
		if _, dup := categories[c.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate category %q", c.ID))
		}
		categories[c.ID] = 0
	}

	seen := make(map[string]struct{}, len(d.Questions))
	for _, q := range d.Questions {
		if _, dup := seen[q.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate question %q", q.ID))
		}
		seen[q.ID] = struct{}{}

		if _, ok := categories[q.CategoryID]; !ok {
			errs = append(errs, fmt.Errorf("question %q: unknown category %q", q.ID, q.CategoryID))
		} else {
			categories[q.CategoryID]++
		}
		if q.Points <= 0 {
			errs = append(errs, fmt.Errorf("question %q: points must be positive", q.ID))
		}
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Errorf("question %q: needs at least two options", q.ID))
		}
		correct := 0
		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if opt.Correct {
				correct++
			}
			if _, dup := optionIDs[opt.ID]; dup {
				errs = append(errs, fmt.Errorf("question %q: duplicate option %q", q.ID, opt.ID))
			}
			optionIDs[opt.ID] = struct{}{}
		}
		if correct != 1 {
			errs = append(errs, fmt.Errorf("question %q: %d correct options, want 1", q.ID, correct))
		}
	}

	for _, c := range d.Categories {
		if categories[c.ID] == 0 {
			errs = append(errs, fmt.Errorf("category %q has no questions", c.ID))
		}
	}
	return errors.Join(errs...)
}
