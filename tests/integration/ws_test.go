//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	wsmsg "github.com/milboard/milboard/pkg/http/ws"
)

func TestWebSocketQuizAttempt(t *testing.T) {
	user := registerUser(t, "Player")
	conn := dialQuizWS(t, user.AccessToken)
	defer conn.Close()

	send(t, conn, wsmsg.TypeStartQuiz, map[string]string{"quiz_id": "quiz-1"})
	state := waitFor(t, conn, wsmsg.TypeSessionState)

	var snap struct {
		Session struct {
			Total int    `json:"total"`
			State string `json:"state"`
		} `json:"session"`
	}
	if err := json.Unmarshal(state.Payload, &snap); err != nil {
		t.Fatalf("decode session_state: %v", err)
	}
	if snap.Session.State != "answering" || snap.Session.Total == 0 {
		t.Fatalf("unexpected initial session %+v", snap.Session)
	}

	// Advancing before submitting is rejected without changing the session.
	send(t, conn, wsmsg.TypeAdvance, nil)
	waitFor(t, conn, wsmsg.TypeActionRejected)

	for i := 0; i < snap.Session.Total; i++ {
		send(t, conn, wsmsg.TypeSelectOption, map[string]int{"index": 0})
		send(t, conn, wsmsg.TypeSubmitAnswer, nil)
		waitFor(t, conn, wsmsg.TypeAnswerFeedback)
		send(t, conn, wsmsg.TypeAdvance, nil)
	}

	done := waitFor(t, conn, wsmsg.TypeQuizComplete)
	var complete struct {
		ResultID string `json:"result_id"`
		Report   struct {
			Total int `json:"total"`
		} `json:"report"`
	}
	if err := json.Unmarshal(done.Payload, &complete); err != nil {
		t.Fatalf("decode quiz_complete: %v", err)
	}
	if complete.Report.Total != snap.Session.Total {
		t.Fatalf("report total %d, want %d", complete.Report.Total, snap.Session.Total)
	}
	if complete.ResultID == "" {
		t.Fatal("result was not recorded")
	}

	resp := doJSON(t, http.MethodGet, baseURL()+"/v1/users/me/results", user.AccessToken, nil)
	var history struct {
		Results []struct {
			QuizID string `json:"quiz_id"`
		} `json:"results"`
	}
	decode(t, resp, &history)
	if len(history.Results) != 1 || history.Results[0].QuizID != "quiz-1" {
		t.Fatalf("unexpected results history %+v", history.Results)
	}
}

func dialQuizWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(envOrDefault("INTEGRATION_WS_URL", "ws://localhost:8080/ws/quiz"))
	if err != nil {
		t.Fatalf("invalid WS url: %v", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()

	msg, err := wsmsg.NewMessage(msgType, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", msgType, err)
	}
	conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("failed to send %s: %v", msgType, err)
	}
}

// waitFor reads until a message of msgType arrives, skipping others.
func waitFor(t *testing.T, conn *websocket.Conn, msgType string) wsmsg.Message {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg wsmsg.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read ws message failed: %v", err)
		}
		if msg.Type == wsmsg.TypeError {
			t.Fatalf("server error while waiting for %s: %s", msgType, msg.Payload)
		}
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("timeout waiting for %s", msgType)
	return wsmsg.Message{}
}
