package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizbot-service/internal/app"
	"quizbot-service/internal/domain"
	"quizbot-service/internal/llm"
	"quizbot-service/internal/quizgen"
)

func newTestServer(t *testing.T, provider *llm.MockProvider) *httptest.Server {
	t.Helper()
	gen := quizgen.New(provider, quizgen.DefaultConfig())
	service := app.NewQuizService(gen, app.NewSessionStore())
	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func cannedQuiz(t *testing.T, topic string, n int, difficulty domain.Difficulty) llm.MockResponse {
	t.Helper()
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			Prompt:        "Which planet is known as the red planet?",
			Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
			CorrectAnswer: 1,
			Explanation:   "Mars appears red because of iron oxide on its surface.",
			Difficulty:    difficulty,
		}
	}
	data, err := json.Marshal(domain.Quiz{Topic: topic, Questions: questions, TotalQuestions: n})
	if err != nil {
		t.Fatal(err)
	}
	return llm.MockResponse{Content: data}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func generateSession(t *testing.T, srv *httptest.Server, provider *llm.MockProvider, n int) (string, domain.Quiz) {
	t.Helper()
	provider.AddResponse(cannedQuiz(t, "History", n, domain.DifficultyMedium))

	resp := postJSON(t, srv.URL+"/quiz/generate", map[string]any{
		"topic":         "History",
		"num_questions": n,
		"difficulty":    "medium",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var body generateResponse
	decodeBody(t, resp, &body)
	if !body.Success || body.SessionID == "" || body.Quiz == nil {
		t.Fatalf("generate response = %+v", body)
	}
	return body.SessionID, *body.Quiz
}

func TestGenerateQuizEndpoint(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)

	sessionID, quiz := generateSession(t, srv, provider, 3)
	if len(quiz.Questions) != 3 || quiz.TotalQuestions != 3 {
		t.Errorf("quiz = %+v, want 3 questions", quiz)
	}
	if sessionID == "" {
		t.Error("empty session id")
	}
}

func TestGenerateQuizValidation(t *testing.T) {
	srv := newTestServer(t, llm.NewMockProvider())

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"short topic", map[string]any{"topic": "ab"}, "topic must be at least 3 characters long"},
		{"too many questions", map[string]any{"topic": "History", "num_questions": 21}, "num_questions must be between 1 and 20"},
		{"negative questions", map[string]any{"topic": "History", "num_questions": -1}, "num_questions must be between 1 and 20"},
		{"bad difficulty", map[string]any{"topic": "History", "difficulty": "brutal"}, "difficulty must be easy, medium or hard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/quiz/generate", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Error != tc.want {
				t.Errorf("error = %q, want %q", body.Error, tc.want)
			}
		})
	}
}

func TestGenerateQuizDefaults(t *testing.T) {
	provider := llm.NewMockProvider(cannedQuiz(t, "History", 5, domain.DifficultyMedium))
	srv := newTestServer(t, provider)

	// Omitted count and difficulty fall back to 5 questions at medium.
	resp := postJSON(t, srv.URL+"/quiz/generate", map[string]any{"topic": "History"})
	var body generateResponse
	decodeBody(t, resp, &body)
	if !body.Success {
		t.Fatalf("response = %+v", body)
	}
	if len(body.Quiz.Questions) != 5 {
		t.Errorf("quiz has %d questions, want 5", len(body.Quiz.Questions))
	}
	if provider.Calls[0].Messages[0].Content == "" ||
		!strings.Contains(provider.Calls[0].Messages[0].Content, "Difficulty level: medium") {
		t.Errorf("prompt = %q, want medium difficulty", provider.Calls[0].Messages[0].Content)
	}
}

func TestSubmitAnswerFlow(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)
	sessionID, quiz := generateSession(t, srv, provider, 3)

	resp := postJSON(t, srv.URL+"/quiz/answer?session_id="+sessionID, map[string]any{
		"question_index":  0,
		"selected_option": quiz.Questions[0].CorrectAnswer,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d", resp.StatusCode)
	}
	var result domain.AnswerResult
	decodeBody(t, resp, &result)
	if !result.Correct || result.ScoreDelta != 2 {
		t.Errorf("result = %+v, want correct with score_change 2", result)
	}

	scoreResp, err := http.Get(srv.URL + "/quiz/score/" + sessionID)
	if err != nil {
		t.Fatal(err)
	}
	var score domain.ScoreSummary
	decodeBody(t, scoreResp, &score)
	if score.Score != 2 || score.Answered != 1 || score.Correct != 1 || score.Percentage != 100.0 {
		t.Errorf("score = %+v", score)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)
	sessionID, _ := generateSession(t, srv, provider, 1)

	cases := []struct {
		name   string
		url    string
		body   map[string]any
		status int
	}{
		{"missing session id", srv.URL + "/quiz/answer", map[string]any{"question_index": 0, "selected_option": 0}, http.StatusBadRequest},
		{"unknown session", srv.URL + "/quiz/answer?session_id=nope", map[string]any{"question_index": 0, "selected_option": 0}, http.StatusNotFound},
		{"negative index", srv.URL + "/quiz/answer?session_id=" + sessionID, map[string]any{"question_index": -1, "selected_option": 0}, http.StatusBadRequest},
		{"index out of range", srv.URL + "/quiz/answer?session_id=" + sessionID, map[string]any{"question_index": 5, "selected_option": 0}, http.StatusBadRequest},
		{"option out of range", srv.URL + "/quiz/answer?session_id=" + sessionID, map[string]any{"question_index": 0, "selected_option": 4}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, tc.url, tc.body)
			resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestScoreUnknownSession(t *testing.T) {
	srv := newTestServer(t, llm.NewMockProvider())
	resp, err := http.Get(srv.URL + "/quiz/score/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSessionSummaryAndReset(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)
	sessionID, quiz := generateSession(t, srv, provider, 2)

	postJSON(t, srv.URL+"/quiz/answer?session_id="+sessionID, map[string]any{
		"question_index":  0,
		"selected_option": quiz.Questions[0].CorrectAnswer,
	}).Body.Close()

	resp, err := http.Get(srv.URL + "/quiz/session/" + sessionID)
	if err != nil {
		t.Fatal(err)
	}
	var summary domain.SessionSummary
	decodeBody(t, resp, &summary)
	if summary.SessionID != sessionID || summary.Answered != 1 || len(summary.Answers) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	resetResp := postJSON(t, srv.URL+"/quiz/reset/"+sessionID, nil)
	resetResp.Body.Close()
	if resetResp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", resetResp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/quiz/score/" + sessionID)
	if err != nil {
		t.Fatal(err)
	}
	var score domain.ScoreSummary
	decodeBody(t, resp, &score)
	if score.Score != 0 || score.Answered != 0 {
		t.Errorf("score after reset = %+v", score)
	}
}

func TestDeleteSession(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)
	sessionID, _ := generateSession(t, srv, provider, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/quiz/session/"+sessionID, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	scoreResp, err := http.Get(srv.URL + "/quiz/score/" + sessionID)
	if err != nil {
		t.Fatal(err)
	}
	scoreResp.Body.Close()
	if scoreResp.StatusCode != http.StatusNotFound {
		t.Errorf("score status after delete = %d, want 404", scoreResp.StatusCode)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)

	for i := 0; i < 3; i++ {
		sessionID, quiz := generateSession(t, srv, provider, 1)
		postJSON(t, srv.URL+"/quiz/answer?session_id="+sessionID, map[string]any{
			"question_index":  0,
			"selected_option": quiz.Questions[0].CorrectAnswer,
		}).Body.Close()
	}

	resp, err := http.Get(srv.URL + "/quiz/leaderboard?limit=2")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	decodeBody(t, resp, &body)
	if len(body.Leaderboard) != 2 {
		t.Fatalf("leaderboard has %d entries, want 2", len(body.Leaderboard))
	}
	for _, entry := range body.Leaderboard {
		if len(entry.SessionID) > 8 {
			t.Errorf("leaderboard exposes long session id %q", entry.SessionID)
		}
	}

	badResp, err := http.Get(srv.URL + "/quiz/leaderboard?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", badResp.StatusCode)
	}
}

func TestCleanupEndpoint(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)
	generateSession(t, srv, provider, 1)

	resp := postJSON(t, srv.URL+"/quiz/cleanup", nil)
	var body map[string]int
	decodeBody(t, resp, &body)
	// A just-created session is well inside the 24h default.
	if body["removed"] != 0 {
		t.Errorf("removed = %d, want 0", body["removed"])
	}
}

func TestTopicsEndpoint(t *testing.T) {
	srv := newTestServer(t, llm.NewMockProvider())

	resp, err := http.Get(srv.URL + "/quiz/topics")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string][]string
	decodeBody(t, resp, &body)
	if len(body["suggested_topics"]) != 20 {
		t.Errorf("got %d suggested topics, want 20", len(body["suggested_topics"]))
	}
}

func TestLeaderboardWebsocket(t *testing.T) {
	provider := llm.NewMockProvider()
	srv := newTestServer(t, provider)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readSnapshot := func() domain.Leaderboard {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var lb domain.Leaderboard
		if err := conn.ReadJSON(&lb); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		return lb
	}

	if lb := readSnapshot(); len(lb.Entries) != 0 {
		t.Errorf("initial snapshot has %d entries, want 0", len(lb.Entries))
	}

	sessionID, quiz := generateSession(t, srv, provider, 1)
	postJSON(t, srv.URL+fmt.Sprintf("/quiz/answer?session_id=%s", sessionID), map[string]any{
		"question_index":  0,
		"selected_option": quiz.Questions[0].CorrectAnswer,
	}).Body.Close()

	if lb := readSnapshot(); len(lb.Entries) != 1 {
		t.Errorf("snapshot after submit has %d entries, want 1", len(lb.Entries))
	}
}
