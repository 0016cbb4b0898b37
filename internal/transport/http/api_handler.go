package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"netquest-service/internal/app"
	"netquest-service/internal/domain"
)

// APIHandler exposes the game use cases as JSON over HTTP for clients that
// poll instead of holding a websocket.
type APIHandler struct {
	service *app.GameService
}

func NewAPIHandler(service *app.GameService) *APIHandler {
	return &APIHandler{service: service}
}

// Routes is meant to be mounted under /api.
func (h *APIHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/banks/{bankID}/categories", h.handleCategories)
	r.Post("/games", h.handleCreateGame)
	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/", h.handleSnapshot)
		r.Get("/board", h.handleBoard)
		r.Get("/leaderboard", h.handleLeaderboard)
		r.Get("/questions/{questionID}", h.handleSelect)
		r.Post("/start", h.handleStart)
		r.Post("/answer", h.handleAnswer)
		r.Post("/resolve", h.handleResolve)
		r.Post("/reset", h.handleReset)
	})
	return r
}

type createGameRequest struct {
	BankID string `json:"bankId"`
}

type answerResponse struct {
	Result   domain.AnswerResult `json:"result"`
	Snapshot domain.Snapshot     `json:"snapshot"`
}

func (h *APIHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context(), chi.URLParam(r, "bankID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *APIHandler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	snap, err := h.service.CreateGame(r.Context(), req.BankID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *APIHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *APIHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.Leaderboard(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *APIHandler) handleSelect(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.Select(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "questionID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuestionView(question))
}

func (h *APIHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	snap, err := h.service.Start(r.Context(), chi.URLParam(r, "gameID"), teamNames(req.Teams, req.TeamCount))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	snap, result, err := h.service.Answer(r.Context(), chi.URLParam(r, "gameID"), req.QuestionID, req.OptionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Result: result, Snapshot: snap})
}

func (h *APIHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolvePayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	snap, err := h.service.Resolve(r.Context(), chi.URLParam(r, "gameID"), req.QuestionID, req.Points)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Reset(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrBankNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrQuestionAnswered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTeamCount),
		errors.Is(err, domain.ErrInvalidAward),
		errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrNoActiveQuestion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
