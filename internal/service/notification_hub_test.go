package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
)

// dialTestHub 启动单实例通知中心并以 userID 建立一条连接
func dialTestHub(t *testing.T, userID uint) (*NotificationHub, *websocket.Conn) {
	t.Helper()
	return dialHub(t, NewNotificationHub(nil), userID)
}

func dialHub(t *testing.T, hub *NotificationHub, userID uint) (*NotificationHub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r, userID)
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return hub.IsOnline(userID) })
	return hub, conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 2s")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifyDeliversToLocalClient(t *testing.T) {
	hub, conn := dialTestHub(t, 7)

	hub.Notify(context.Background(), 7, WSMessage{Type: EventBadgeUnlocked, Data: "First Completion"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != EventBadgeUnlocked || msg.Data != "First Completion" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestFloodingClientIsClosed(t *testing.T) {
	hub, conn := dialTestHub(t, 9)

	for i := 0; i < inboundBurst*3; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
			break
		}
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var readErr error
	for readErr == nil {
		_, _, readErr = conn.ReadMessage()
	}
	var closeErr *websocket.CloseError
	if !errors.As(readErr, &closeErr) || closeErr.Code != websocket.ClosePolicyViolation {
		t.Fatalf("read err = %v, want close %d", readErr, websocket.ClosePolicyViolation)
	}

	waitFor(t, func() bool { return !hub.IsOnline(9) })
}

func TestSlowClientStaysConnected(t *testing.T) {
	hub, conn := dialTestHub(t, 11)

	for i := 0; i < inboundBurst; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	// 突发额度内的上行帧只被丢弃，推送照常送达
	hub.Notify(context.Background(), 11, WSMessage{Type: EventTopicCompleted, Data: "ok"})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !hub.IsOnline(11) {
		t.Fatal("client within burst was disconnected")
	}
}

func TestNotifyFallsBackToLocalWhenPublishFails(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	hub, conn := dialHub(t, NewNotificationHub(rdb), 13)

	hub.Notify(context.Background(), 13, WSMessage{Type: EventTopicCompleted, Data: "fallback"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if msg.Type != EventTopicCompleted || msg.Data != "fallback" {
		t.Fatalf("message = %+v", msg)
	}
}
