package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"quizbot-service/internal/app"
	"quizbot-service/internal/domain"
)

// Handler maps the JSON API onto the quiz use cases. It is a thin boundary:
// request decoding and range checks live here, everything else delegates to
// the service.
type Handler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register wires all routes into the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /quiz/generate", h.generateQuiz)
	mux.HandleFunc("POST /quiz/answer", h.submitAnswer)
	mux.HandleFunc("GET /quiz/score/{id}", h.score)
	mux.HandleFunc("GET /quiz/session/{id}", h.sessionSummary)
	mux.HandleFunc("DELETE /quiz/session/{id}", h.deleteSession)
	mux.HandleFunc("POST /quiz/reset/{id}", h.resetSession)
	mux.HandleFunc("GET /quiz/leaderboard", h.leaderboard)
	mux.HandleFunc("POST /quiz/cleanup", h.cleanup)
	mux.HandleFunc("GET /quiz/topics", h.topics)
	mux.HandleFunc("GET /ws/leaderboard", h.watchLeaderboard)
}

type generateRequest struct {
	Topic        string            `json:"topic"`
	NumQuestions int               `json:"num_questions"`
	Difficulty   domain.Difficulty `json:"difficulty"`
}

type generateResponse struct {
	Success   bool         `json:"success"`
	Quiz      *domain.Quiz `json:"quiz,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.Difficulty == "" {
		req.Difficulty = domain.DifficultyMedium
	}

	if len(strings.TrimSpace(req.Topic)) < 3 {
		writeError(w, http.StatusBadRequest, "topic must be at least 3 characters long")
		return
	}
	if req.NumQuestions < 1 || req.NumQuestions > 20 {
		writeError(w, http.StatusBadRequest, "num_questions must be between 1 and 20")
		return
	}
	if !req.Difficulty.Valid() {
		writeError(w, http.StatusBadRequest, "difficulty must be easy, medium or hard")
		return
	}

	quiz, sessionID, err := h.service.GenerateQuiz(r.Context(), domain.QuizSpec{
		Topic:        strings.TrimSpace(req.Topic),
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusOK, generateResponse{
				Success: false,
				Error:   verr.Error(),
			})
			return
		}
		log.Printf("generate quiz: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate quiz")
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:   true,
		Quiz:      &quiz,
		SessionID: sessionID,
	})
}

type answerRequest struct {
	QuestionIndex  int `json:"question_index"`
	SelectedOption int `json:"selected_option"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionIndex < 0 {
		writeError(w, http.StatusBadRequest, "question_index must be non-negative")
		return
	}
	// The store treats any non-matching option as incorrect; the 0-3 range
	// is enforced here at the boundary.
	if req.SelectedOption < 0 || req.SelectedOption > 3 {
		writeError(w, http.StatusBadRequest, "selected_option must be between 0 and 3")
		return
	}

	result, err := h.service.SubmitAnswer(sessionID, req.QuestionIndex, req.SelectedOption)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Score(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) sessionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session reset successfully"})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.service.Delete(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard": h.service.Leaderboard(limit).Entries,
	})
}

func (h *Handler) cleanup(w http.ResponseWriter, r *http.Request) {
	maxAgeHours := 24
	if raw := r.URL.Query().Get("max_age_hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "max_age_hours must be a positive integer")
			return
		}
		maxAgeHours = n
	}
	removed := h.service.SweepExpired(time.Duration(maxAgeHours) * time.Hour)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

var suggestedTopics = []string{
	"Python Programming",
	"JavaScript Fundamentals",
	"Machine Learning Basics",
	"World History",
	"Biology",
	"Physics",
	"Chemistry",
	"Mathematics",
	"Geography",
	"Literature",
	"Computer Science",
	"Data Structures",
	"Algorithms",
	"Web Development",
	"Artificial Intelligence",
	"Cybersecurity",
	"Climate Change",
	"Space Exploration",
	"Renewable Energy",
	"Quantum Computing",
}

func (h *Handler) topics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"suggested_topics": suggestedTopics})
}

// watchLeaderboard upgrades to a websocket and streams a leaderboard
// snapshot after every scoring mutation until the client disconnects.
func (h *Handler) watchLeaderboard(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.WatchLeaderboard()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, StatusCode: status})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrQuestionOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
