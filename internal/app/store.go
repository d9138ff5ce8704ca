package app

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizbot-service/internal/domain"
)

// SessionStore owns the shared session mapping. Map membership is guarded
// by the store lock; per-session state is guarded by each session's own
// mutex, so concurrent submissions against different sessions don't
// serialize on each other.
type SessionStore struct {
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	subMu       sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock allows deterministic timestamps in tests.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		now:         now,
		sessions:    make(map[string]*Session),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Create registers a new session for the quiz and returns its identifier.
func (st *SessionStore) Create(quiz domain.Quiz) string {
	id := uuid.NewString()
	session := newSession(id, quiz, st.now)

	st.mu.Lock()
	st.sessions[id] = session
	st.mu.Unlock()

	return id
}

func (st *SessionStore) get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// SubmitAnswer scores one answer against the session's quiz. It fails with
// ErrSessionNotFound or ErrQuestionOutOfRange before any mutation.
func (st *SessionStore) SubmitAnswer(id string, questionIndex, selectedOption int) (domain.AnswerResult, error) {
	session, ok := st.get(id)
	if !ok {
		return domain.AnswerResult{}, domain.ErrSessionNotFound
	}

	result, err := session.submit(questionIndex, selectedOption)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	st.broadcast()
	return result, nil
}

// Score returns the current standing of a session.
func (st *SessionStore) Score(id string) (domain.ScoreSummary, error) {
	session, ok := st.get(id)
	if !ok {
		return domain.ScoreSummary{}, domain.ErrSessionNotFound
	}
	return session.scoreSummary(), nil
}

// Summary returns the full read-only view of a session.
func (st *SessionStore) Summary(id string) (domain.SessionSummary, error) {
	session, ok := st.get(id)
	if !ok {
		return domain.SessionSummary{}, domain.ErrSessionNotFound
	}
	return session.summary(), nil
}

// Reset clears a session's answers and score, keeping quiz and id.
func (st *SessionStore) Reset(id string) error {
	session, ok := st.get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.reset()
	st.broadcast()
	return nil
}

// Delete removes a session. Deleting an absent session is a no-op so
// cleanup races stay simple.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	_, existed := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if existed {
		st.broadcast()
	}
}

// SweepExpired removes every session whose last activity is older than
// maxAge and returns how many were removed. Runs out of band, off the
// critical path of user-facing calls.
func (st *SessionStore) SweepExpired(maxAge time.Duration) int {
	cutoff := st.now().Add(-maxAge)

	st.mu.RLock()
	var expired []string
	for id, session := range st.sessions {
		if session.lastActive().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}
	return st.removeExpired(expired, cutoff)
}

// removeExpired deletes the candidate sessions that are still inactive.
// Activity landing between the scan and this pass keeps a session alive.
func (st *SessionStore) removeExpired(ids []string, cutoff time.Time) int {
	st.mu.Lock()
	removed := 0
	for _, id := range ids {
		session, ok := st.sessions[id]
		if !ok || !session.lastActive().Before(cutoff) {
			continue
		}
		delete(st.sessions, id)
		removed++
	}
	st.mu.Unlock()

	if removed > 0 {
		st.broadcast()
	}
	return removed
}

// TopSessions ranks sessions with at least one answer by score descending,
// then percentage descending, with the session id as deterministic
// tie-break. Returns at most limit entries.
func (st *SessionStore) TopSessions(limit int) []domain.LeaderboardEntry {
	st.mu.RLock()
	type ranked struct {
		entry  domain.LeaderboardEntry
		fullID string
	}
	candidates := make([]ranked, 0, len(st.sessions))
	for id, session := range st.sessions {
		if entry, ok := session.entry(); ok {
			candidates = append(candidates, ranked{entry: entry, fullID: id})
		}
	}
	st.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entry.Score != b.entry.Score {
			return a.entry.Score > b.entry.Score
		}
		if a.entry.Percentage != b.entry.Percentage {
			return a.entry.Percentage > b.entry.Percentage
		}
		return a.fullID < b.fullID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	entries := make([]domain.LeaderboardEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}
	return entries
}

// Leaderboard is the snapshot sent to watchers and the HTTP layer.
func (st *SessionStore) Leaderboard(limit int) domain.Leaderboard {
	return domain.Leaderboard{
		Entries:   st.TopSessions(limit),
		UpdatedAt: st.now(),
	}
}

const watchLimit = 10

// Watch returns a channel receiving a leaderboard snapshot after every
// mutating operation. The caller must invoke the cancel function to avoid
// leaks.
func (st *SessionStore) Watch() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	st.subMu.Lock()
	st.subscribers[ch] = struct{}{}
	st.subMu.Unlock()

	ch <- st.Leaderboard(watchLimit)

	cancel := func() {
		st.subMu.Lock()
		if _, ok := st.subscribers[ch]; ok {
			delete(st.subscribers, ch)
			close(ch)
		}
		st.subMu.Unlock()
	}
	return ch, cancel
}

func (st *SessionStore) broadcast() {
	st.subMu.Lock()
	if len(st.subscribers) == 0 {
		st.subMu.Unlock()
		return
	}
	lb := st.Leaderboard(watchLimit)
	for ch := range st.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale snapshot so a slow watcher never blocks scoring.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	st.subMu.Unlock()
}
