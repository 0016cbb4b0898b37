package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"netquest-service/internal/app"
	"netquest-service/internal/content"
	"netquest-service/internal/domain"
	"netquest-service/internal/infra/memory"
)

func TestJoinStartAndAnswer(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	snap, err := service.Join(ctx, "game-1", "")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if snap.State.Phase != domain.PhaseSetup || snap.BankID != content.DefaultBankID || snap.TotalQuestions != 36 {
		t.Fatalf("unexpected joined snapshot %+v", snap)
	}

	if _, err := service.Start(ctx, "game-1", []string{"A", "B"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	snap, result, err := service.Answer(ctx, "game-1", "b-100", "opt-0")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if !result.Correct || snap.State.Teams[0].Score != 100 || snap.State.CurrentTeamIndex != 1 {
		t.Fatalf("unexpected answer outcome %+v / %+v", result, snap.State)
	}

	lb, err := service.Leaderboard(ctx, "game-1")
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(lb.Entries) != 2 || lb.Entries[0].TeamID != "team-0" || len(lb.Winners) != 1 {
		t.Fatalf("expected team A to lead, got %+v", lb)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.Join(ctx, "game-1", ""); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(ctx, "game-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.Start(ctx, "game-1", []string{"A", "B"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	update := <-ch
	if update.State.Phase != domain.PhasePlaying || len(update.State.Teams) != 2 {
		t.Fatalf("expected playing snapshot, got %+v", update.State)
	}

	if _, err := service.Resolve(ctx, "game-1", "b-100", 100); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	update = <-ch
	if update.State.Teams[0].Score != 100 {
		t.Fatalf("expected updated score 100, got %+v", update.State.Teams)
	}
}

func TestSelectAndFailedResolveLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.Join(ctx, "game-1", ""); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	started, err := service.Start(ctx, "game-1", []string{"A", "B"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := service.Select(ctx, "game-1", "m-300"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if _, err := service.Resolve(ctx, "game-1", "m-300", 42); !errors.Is(err, domain.ErrInvalidAward) {
		t.Fatalf("expected ErrInvalidAward, got %v", err)
	}

	after, err := service.Snapshot(ctx, "game-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if after.State.CurrentTeamIndex != started.State.CurrentTeamIndex || len(after.State.History) != 0 {
		t.Fatalf("state changed without a resolution: %+v", after.State)
	}
	if !after.UpdatedAt.Equal(started.UpdatedAt) {
		t.Fatalf("updatedAt moved without a transition")
	}
}

func TestResetReturnsToSetup(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, _ = service.Join(ctx, "game-1", "")
	_, _ = service.Start(ctx, "game-1", []string{"A", "B"})
	_, _ = service.Resolve(ctx, "game-1", "b-100", 100)

	snap, err := service.Reset(ctx, "game-1")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if snap.State.Phase != domain.PhaseSetup || len(snap.State.Teams) != 0 || len(snap.State.History) != 0 {
		t.Fatalf("expected initial state, got %+v", snap.State)
	}
}

func TestSessionRequired(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.Start(ctx, "game-unknown", []string{"A", "B"}); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Join(ctx, "game-1", "no-such-bank"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank error, got %v", err)
	}
}

func TestLeaveDropsEmptySession(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	_, _ = service.Join(ctx, "game-1", "")
	_, _ = service.Join(ctx, "game-1", "")

	service.Leave(ctx, "game-1")
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("session dropped while a client is still connected")
	}
	service.Leave(ctx, "game-1")
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed after last client left")
	}
}

func TestCreateGameAssignsID(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	first, err := service.CreateGame(ctx, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := service.CreateGame(ctx, content.DefaultBankID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.GameID == "" || first.GameID == second.GameID {
		t.Fatalf("expected distinct generated ids, got %q and %q", first.GameID, second.GameID)
	}

	board, err := service.Board(ctx, first.GameID)
	if err != nil {
		t.Fatalf("board failed: %v", err)
	}
	if len(board.Columns) != 6 || len(board.Columns[0].Cells) != 6 {
		t.Fatalf("unexpected board shape %+v", board)
	}

	categories, err := service.Categories(ctx, "")
	if err != nil || len(categories) != 6 {
		t.Fatalf("expected 6 categories, got %d (%v)", len(categories), err)
	}
}

func TestSessionClockStampsTransitions(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	engine := newNetQuestEngine()
	session := app.NewSessionWithClock("game-1", engine, func() time.Time { return now })

	if got := session.Snapshot().UpdatedAt; !got.Equal(now) {
		t.Fatalf("expected creation time, got %v", got)
	}
	if session.State().Phase != domain.PhaseSetup {
		t.Fatalf("expected setup phase")
	}
}

func newTestService() (*app.GameService, *memory.SessionStore) {
	sessionStore := memory.NewSessionStore()
	bankRepo := memory.NewBankRepository(memory.NewStaticBankLoader(content.Banks()), 5*time.Minute)
	palette := app.Palette{Colors: content.TeamColors, Icons: content.TeamIcons}
	return app.NewGameService(sessionStore, bankRepo, palette, content.DefaultBankID), sessionStore
}

func TestCreatedGameSurvivesClientsLeaving(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	created, err := service.CreateGame(ctx, "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := created.GameID
	if _, err := service.Start(ctx, id, []string{"A", "B"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, _, err := service.Answer(ctx, id, "b-100", "opt-0"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	if _, err := service.Join(ctx, id, ""); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	service.Leave(ctx, id)

	snap, err := service.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("created game dropped after a client left: %v", err)
	}
	if snap.State.Phase != domain.PhasePlaying || snap.State.Teams[0].Score != 100 {
		t.Fatalf("expected game in progress, got %+v", snap.State)
	}
	if _, ok := store.Get(id); !ok {
		t.Fatalf("expected session kept in store")
	}
}

func TestRejoinAfterLastLeaveStartsFresh(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, _ = service.Join(ctx, "game-1", "")
	_, _ = service.Start(ctx, "game-1", []string{"A", "B"})
	service.Leave(ctx, "game-1")

	snap, err := service.Join(ctx, "game-1", "")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if snap.State.Phase != domain.PhaseSetup {
		t.Fatalf("expected a new game after the last client left, got %s", snap.State.Phase)
	}
	if _, cancel, err := service.Subscribe(ctx, "game-1"); err != nil {
		t.Fatalf("subscribe after rejoin failed: %v", err)
	} else {
		cancel()
	}
}

func TestSweepIdleDropsAbandonedGames(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	service.SetClock(func() time.Time { return now })

	abandoned, _ := service.CreateGame(ctx, "")
	active, _ := service.CreateGame(ctx, "")
	_, _ = service.Join(ctx, "connected", "")

	now = now.Add(90 * time.Minute)
	if _, err := service.Snapshot(ctx, active.GameID); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	now = now.Add(time.Hour)

	dropped := service.SweepIdle(ctx, 2*time.Hour)
	if len(dropped) != 1 || dropped[0] != abandoned.GameID {
		t.Fatalf("expected only the abandoned game dropped, got %v", dropped)
	}
	if _, ok := store.Get(active.GameID); !ok {
		t.Fatalf("recently used game must survive")
	}
	if _, ok := store.Get("connected"); !ok {
		t.Fatalf("game with a connected client must survive")
	}
}
