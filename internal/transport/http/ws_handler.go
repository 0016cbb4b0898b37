package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"netquest-service/internal/app"
	"netquest-service/internal/domain"
	"netquest-service/internal/feedback"
)

type WSHandler struct {
	service     *app.GameService
	upgrader    websocket.Upgrader
	revealDelay time.Duration
	sound       bool
}

// NewWSHandler wires the game use cases to websocket clients. revealDelay holds
// back the leaderboard message after the last question; sound is the initial
// state of each connection's cue switch.
func NewWSHandler(service *app.GameService, revealDelay time.Duration, sound bool) *WSHandler {
	return &WSHandler{
		service:     service,
		revealDelay: revealDelay,
		sound:       sound,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Teams     []string `json:"teams"`
	TeamCount int      `json:"teamCount"`
}

type selectPayload struct {
	QuestionID string `json:"questionId"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type resolvePayload struct {
	QuestionID string `json:"questionId"`
	Points     int    `json:"points"`
}

type soundPayload struct {
	Enabled bool `json:"enabled"`
}

type cuePayload struct {
	Name feedback.Cue `json:"name"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// connection holds per-client presentation state: the open question and the cue switch.
type connection struct {
	gameID string
	active string
	cues   *feedback.Switch
	send   chan outboundMessage[any]
}

func (c *connection) reply(typ string, payload any) {
	c.send <- outboundMessage[any]{Type: typ, Payload: payload}
}

func (c *connection) fail(err error) {
	c.reply("error", errorPayload{Message: err.Error()})
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	bankID := r.URL.Query().Get("bankId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	joined, err := h.service.Join(r.Context(), gameID, bankID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(r.Context(), gameID)

	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 32)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	c := &connection{
		gameID: gameID,
		send:   send,
		cues: feedback.NewSwitch(feedback.NotifierFunc(func(cue feedback.Cue) {
			select {
			case send <- outboundMessage[any]{Type: "cue", Payload: cuePayload{Name: cue}}:
			default:
			}
		}), h.sound),
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	c.reply("joined", joined)

	go func() {
		defer close(updatesDone)
		h.forwardUpdates(r, c, updates, closeSignals)
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, c, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// forwardUpdates relays snapshots and reveals the leaderboard revealDelay after
// the game logically ends.
func (h *WSHandler) forwardUpdates(r *http.Request, c *connection, updates <-chan domain.Snapshot, closeSignals <-chan struct{}) {
	var reveal <-chan time.Time
	revealed := false
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case c.send <- outboundMessage[any]{Type: "state", Payload: update}:
			case <-closeSignals:
				return
			}
			switch {
			case update.State.Phase == domain.PhaseLeaderboard && !revealed && reveal == nil:
				reveal = time.After(h.revealDelay)
			case update.State.Phase != domain.PhaseLeaderboard:
				reveal = nil
				revealed = false
			}
		case <-reveal:
			reveal = nil
			revealed = true
			lb, err := h.service.Leaderboard(r.Context(), c.gameID)
			if err != nil {
				continue
			}
			select {
			case c.send <- outboundMessage[any]{Type: "leaderboard", Payload: lb}:
			case <-closeSignals:
				return
			}
			c.cues.Notify(feedback.CueCorrect)
		case <-closeSignals:
			return
		}
	}
}

func (h *WSHandler) dispatch(r *http.Request, c *connection, inbound inboundMessage) {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			c.fail(errors.New("invalid start payload"))
			return
		}
		if _, err := h.service.Start(ctx, c.gameID, teamNames(payload.Teams, payload.TeamCount)); err != nil {
			c.fail(err)
			return
		}
		c.active = ""
		c.cues.Notify(feedback.CueCorrect)
	case "select":
		var payload selectPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			c.fail(errors.New("invalid select payload"))
			return
		}
		question, err := h.service.Select(ctx, c.gameID, payload.QuestionID)
		if err != nil {
			c.fail(err)
			return
		}
		c.active = question.ID
		c.cues.Notify(feedback.CueClick)
		c.reply("question", newQuestionView(question))
	case "close":
		c.active = ""
	case "answer":
		var payload answerPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			c.fail(errors.New("invalid answer payload"))
			return
		}
		if err := c.checkActive(payload.QuestionID); err != nil {
			c.fail(err)
			return
		}
		snap, result, err := h.service.Answer(ctx, c.gameID, payload.QuestionID, payload.OptionID)
		if err != nil {
			c.fail(err)
			return
		}
		c.active = ""
		if result.Correct {
			c.cues.Notify(feedback.CueCorrect)
		} else {
			c.cues.Notify(feedback.CueIncorrect)
		}
		c.reply("answerResult", result)
		if snap.State.Phase == domain.PhasePlaying {
			c.cues.Notify(feedback.CueTurnChange)
		}
	case "resolve":
		var payload resolvePayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			c.fail(errors.New("invalid resolve payload"))
			return
		}
		if err := c.checkActive(payload.QuestionID); err != nil {
			c.fail(err)
			return
		}
		snap, err := h.service.Resolve(ctx, c.gameID, payload.QuestionID, payload.Points)
		if err != nil {
			c.fail(err)
			return
		}
		c.active = ""
		if snap.State.Phase == domain.PhasePlaying {
			c.cues.Notify(feedback.CueTurnChange)
		}
	case "reset":
		if _, err := h.service.Reset(ctx, c.gameID); err != nil {
			c.fail(err)
			return
		}
		c.active = ""
	case "sound":
		var payload soundPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			c.fail(errors.New("invalid sound payload"))
			return
		}
		c.cues.Toggle(payload.Enabled)
	default:
		c.fail(errors.New("unsupported message type"))
	}
}

// checkActive requires the answer to target the question this client opened.
func (c *connection) checkActive(questionID string) error {
	if c.active == "" || c.active != questionID {
		return domain.ErrNoActiveQuestion
	}
	return nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// teamNames prefers explicit names and otherwise generates "Team N" labels for
// a count clamped to the allowed range.
func teamNames(names []string, count int) []string {
	if len(names) > 0 {
		return names
	}
	if count < domain.MinTeams {
		count = domain.MinTeams
	}
	if count > domain.MaxTeams {
		count = domain.MaxTeams
	}
	return app.DefaultTeamNames(count)
}

type optionView struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	IconName string `json:"iconName,omitempty"`
}

// questionView is a question as shown before answering: no correctness flags, no explanation.
type questionView struct {
	ID               string              `json:"id"`
	CategoryID       string              `json:"categoryId"`
	Points           int                 `json:"points"`
	Text             string              `json:"questionText"`
	Options          []optionView        `json:"options"`
	TopologyVisual   domain.TopologyType `json:"topologyVisual,omitempty"`
	ImagePlaceholder string              `json:"imagePlaceholder,omitempty"`
}

func newQuestionView(q domain.Question) questionView {
	options := make([]optionView, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, optionView{ID: opt.ID, Text: opt.Text, IconName: opt.IconName})
	}
	return questionView{
		ID:               q.ID,
		CategoryID:       q.CategoryID,
		Points:           q.Points,
		Text:             q.Text,
		Options:          options,
		TopologyVisual:   q.TopologyVisual,
		ImagePlaceholder: q.ImagePlaceholder,
	}
}
