package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizmania-service/internal/domain"
)

func TestRankingFeedOverWebSocket(t *testing.T) {
	env := newTestEnv(t)

	u := "ws" + env.server.URL[len("http"):] + "/ws/ranking?quizId=quiz-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot is empty.
	initial := readRanking(t, conn)
	if initial.QuizID != "quiz-1" || len(initial.Entries) != 0 {
		t.Fatalf("unexpected initial ranking %+v", initial)
	}

	status, body := env.do(t, http.MethodPost, "/score", "", scoreBody(map[string]string{"q1": "4"}, time.Second))
	if status != http.StatusOK {
		t.Fatalf("submit: got %d %s", status, body)
	}

	update := readRanking(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].PercentageScore != 100 {
		t.Fatalf("expected one ranked entry, got %+v", update.Entries)
	}
}

func TestRankingFeedRequiresQuiz(t *testing.T) {
	env := newTestEnv(t)
	status, _ := env.do(t, http.MethodGet, "/ws/ranking", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestRankingFeedChecksOrigin(t *testing.T) {
	env := newTestEnvWithOrigins(t, []string{"http://quiz.example"})
	u := "ws" + env.server.URL[len("http"):] + "/ws/ranking?quizId=quiz-1"

	_, resp, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": []string{"http://evil.example"}})
	if err == nil {
		t.Fatalf("expected handshake from a foreign origin to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got %+v", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": []string{"http://quiz.example"}})
	if err != nil {
		t.Fatalf("dial from allowed origin: %v", err)
	}
	defer conn.Close()
	if ranking := readRanking(t, conn); ranking.QuizID != "quiz-1" {
		t.Fatalf("unexpected ranking %+v", ranking)
	}
}

func TestRankingFeedWithoutFeed(t *testing.T) {
	server := httptest.NewServer(NewHandler(Services{}, nil).Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/ranking?quizId=quiz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a feed, got %d", resp.StatusCode)
	}
}

func readRanking(t *testing.T, conn *websocket.Conn) domain.Ranking {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload domain.Ranking `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "ranking" {
		t.Fatalf("expected ranking message, got %s", msg.Type)
	}
	return msg.Payload
}
