package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been opened.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrQuestionNotFound indicates a question ID is not part of the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates a submitted option ID is invalid for the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrQuestionAnswered is returned when a question was already resolved this game.
	ErrQuestionAnswered = errors.New("question already answered")
	// ErrWrongPhase is returned when an operation is not allowed in the current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrInvalidTeamCount is returned when a game is started with too few or too many teams.
	ErrInvalidTeamCount = errors.New("team count out of range")
	// ErrInvalidAward is returned when awarded points are neither zero nor the question value.
	ErrInvalidAward = errors.New("awarded points must be zero or the question value")
	// ErrNoActiveQuestion is returned when an answer arrives without a selected question.
	ErrNoActiveQuestion = errors.New("no question selected")
)
