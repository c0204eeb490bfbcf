package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetConversation(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/v1/conversation/c1" {
			t.Errorf("path = %q, want /api/v1/conversation/c1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","status":"active","client":{"id":7,"name":"Ada"},"lawyer":{"id":9,"name":"Counsel"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-1")
	conv, err := client.GetConversation(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if conv.ID != "c1" {
		t.Errorf("ID = %q, want c1", conv.ID)
	}
	if conv.Lawyer.ID != 9 {
		t.Errorf("Lawyer.ID = %d, want 9", conv.Lawyer.ID)
	}
}

func TestGetMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"m1","sender_id":7,"sender_role":"client","text":"hi","timestamp":"2025-01-01T00:00:00Z"}],"total":1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-1")
	msgs, err := client.GetMessages(context.Background(), "c1", 50)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[0].Text != "hi" {
		t.Errorf("message = %+v, want m1/hi", msgs[0])
	}
}

func TestRetryOn500(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":"c1","status":"active"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetries(3, time.Millisecond))
	conv, err := client.GetConversation(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if conv.ID != "c1" {
		t.Errorf("ID = %q, want c1", conv.ID)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("server called %d times, want 3", calls)
	}
}

func TestNoRetryOn404(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetries(3, time.Millisecond))
	_, err := client.GetConversation(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}
