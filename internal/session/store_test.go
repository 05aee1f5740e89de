package session

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"prepcoach/internal/config"
	"prepcoach/internal/errors"
	"prepcoach/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

func testConfig(maxSessions int) config.SessionConfig {
	return config.SessionConfig{
		TTL:             30 * time.Minute,
		CleanupInterval: time.Hour,
		MaxSessions:     maxSessions,
		HistoryLimit:    10,
	}
}

func testProfile(title string) *types.JobProfile {
	return &types.JobProfile{
		JobTitle:        title,
		Industry:        "technology",
		ExperienceLevel: "senior",
		Status:          types.StatusOk,
	}
}

func backdate(sess *Session, d time.Duration) {
	sess.mu.Lock()
	sess.lastSeen = sess.lastSeen.Add(-d)
	sess.mu.Unlock()
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a session-not-found error")
	}
	var appErr *errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeSessionNotFound)
	}
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Platform Engineer"))
	if sess.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if sess.Profile.JobTitle != "Platform Engineer" {
		t.Errorf("job title = %q, want %q", sess.Profile.JobTitle, "Platform Engineer")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}
	if store.Len() != 1 {
		t.Errorf("store size = %d, want 1", store.Len())
	}

	_, err = store.Get("missing")
	assertNotFound(t, err)
}

func TestGetTouchesSession(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Data Engineer"))
	backdate(sess, 10*time.Minute)
	before := sess.LastSeen()

	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !sess.LastSeen().After(before) {
		t.Error("expected Get to advance last-seen time")
	}
}

func TestGetRefusesExpired(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Data Engineer"))
	backdate(sess, time.Hour)

	_, err := store.Get(sess.ID)
	assertNotFound(t, err)

	// Held until the next sweep, but unreachable.
	if store.Len() != 1 {
		t.Errorf("store size = %d, want 1", store.Len())
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	stale := store.Create(testProfile("Data Engineer"))
	fresh := store.Create(testProfile("Product Manager"))
	backdate(stale, time.Hour)

	store.sweep(time.Now().UTC())

	if store.Len() != 1 {
		t.Fatalf("store size = %d, want 1", store.Len())
	}
	if _, err := store.Get(fresh.ID); err != nil {
		t.Errorf("fresh session lost: %v", err)
	}
	_, err := store.Get(stale.ID)
	assertNotFound(t, err)
}

func TestCreateAtCapacityPrefersExpired(t *testing.T) {
	store := NewStore(testConfig(2), testLogger)
	defer store.Close()

	expired := store.Create(testProfile("Data Engineer"))
	backdate(expired, time.Hour)
	idle := store.Create(testProfile("Product Manager"))
	backdate(idle, 10*time.Minute)

	newest := store.Create(testProfile("Platform Engineer"))

	if store.Len() != 2 {
		t.Fatalf("store size = %d, want 2", store.Len())
	}
	if _, err := store.Get(idle.ID); err != nil {
		t.Errorf("idle-but-live session evicted: %v", err)
	}
	if _, err := store.Get(newest.ID); err != nil {
		t.Errorf("new session missing: %v", err)
	}
	_, err := store.Get(expired.ID)
	assertNotFound(t, err)
}

func TestCreateAtCapacityEvictsOldestIdle(t *testing.T) {
	store := NewStore(testConfig(2), testLogger)
	defer store.Close()

	oldest := store.Create(testProfile("Data Engineer"))
	backdate(oldest, 10*time.Minute)
	recent := store.Create(testProfile("Product Manager"))
	backdate(recent, 5*time.Minute)

	newest := store.Create(testProfile("Platform Engineer"))

	if store.Len() != 2 {
		t.Fatalf("store size = %d, want 2", store.Len())
	}
	_, err := store.Get(oldest.ID)
	assertNotFound(t, err)
	if _, err := store.Get(recent.ID); err != nil {
		t.Errorf("recent session evicted: %v", err)
	}
	if _, err := store.Get(newest.ID); err != nil {
		t.Errorf("new session missing: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Data Engineer"))
	if !store.Delete(sess.ID) {
		t.Error("Delete reported the session as missing")
	}
	_, err := store.Get(sess.ID)
	assertNotFound(t, err)

	if store.Delete("missing") {
		t.Error("Delete reported an unknown ID as present")
	}
}

func TestSessionQuestionFlow(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Platform Engineer"))
	question := &types.Question{
		ID:           "q-1",
		Competency:   "Problem Solving",
		QuestionText: "Describe a production incident you resolved end to end.",
		Status:       types.StatusOk,
	}
	sess.AddQuestion(question)

	got, ok := sess.Question("q-1")
	if !ok {
		t.Fatal("stored question not found")
	}
	if got != question {
		t.Error("Question returned a different value")
	}
	if _, ok := sess.Question("q-2"); ok {
		t.Error("unknown question ID reported as present")
	}
	if sess.OpenQuestions() != 1 {
		t.Errorf("open questions = %d, want 1", sess.OpenQuestions())
	}
}

func TestQuestionLimitDropsOldest(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	sess := store.Create(testProfile("Platform Engineer"))
	for i := 0; i < openQuestionLimit+5; i++ {
		sess.AddQuestion(&types.Question{ID: fmt.Sprintf("q-%d", i)})
	}

	if sess.OpenQuestions() != openQuestionLimit {
		t.Fatalf("open questions = %d, want %d", sess.OpenQuestions(), openQuestionLimit)
	}
	if _, ok := sess.Question("q-0"); ok {
		t.Error("oldest question should have been dropped")
	}
	if _, ok := sess.Question("q-4"); ok {
		t.Error("question q-4 should have been dropped")
	}
	if _, ok := sess.Question("q-5"); !ok {
		t.Error("question q-5 should have been retained")
	}
	newest := fmt.Sprintf("q-%d", openQuestionLimit+4)
	if _, ok := sess.Question(newest); !ok {
		t.Errorf("newest question %s should have been retained", newest)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	defer store.Close()

	older := store.Create(testProfile("Data Engineer"))
	newer := store.Create(testProfile("Product Manager"))
	backdate(older, time.Minute)

	older.AddQuestion(&types.Question{ID: "q-1", Competency: "Problem Solving"})
	older.Progress().Record("Problem Solving", 7, "")
	older.Progress().Record("Teamwork", 6, "")

	infos := store.List()
	if len(infos) != 2 {
		t.Fatalf("list size = %d, want 2", len(infos))
	}
	if infos[0].ID != newer.ID {
		t.Errorf("first listed = %s, want the most recently seen %s", infos[0].ID, newer.ID)
	}

	second := infos[1]
	if second.ID != older.ID {
		t.Fatalf("second listed = %s, want %s", second.ID, older.ID)
	}
	if second.JobTitle != "Data Engineer" {
		t.Errorf("job title = %q, want %q", second.JobTitle, "Data Engineer")
	}
	if second.OpenQuestions != 1 {
		t.Errorf("open questions = %d, want 1", second.OpenQuestions)
	}
	if second.TotalAnswers != 2 {
		t.Errorf("total answers = %d, want 2", second.TotalAnswers)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store := NewStore(testConfig(10), testLogger)
	store.Close()
	store.Close()
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	store := NewStore(config.SessionConfig{}, testLogger)
	defer store.Close()

	sess := store.Create(nil)
	if sess.Profile == nil {
		t.Fatal("expected a stand-in profile for nil input")
	}
	if _, err := store.Get(sess.ID); err != nil {
		t.Errorf("Get returned error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store size = %d, want 1", store.Len())
	}
}
