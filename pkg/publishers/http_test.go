package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHTTPPublisher(t *testing.T, url string, headers map[string]string) Publisher {
	t.Helper()
	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            url,
			Headers:        headers,
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}
	return pub
}

func TestHTTPPublisherPostsEvent(t *testing.T) {
	var received Event
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("default method should be POST, got %s", r.Method)
		}
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub := newTestHTTPPublisher(t, srv.URL, map[string]string{"Authorization": "Bearer hook-secret"})
	evt := NewEvent("albums", "42", []string{"Summer", "Cats"}, []string{"Cats"})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if received.Method != "albums" || received.UserID != "42" || len(received.Items) != 2 {
		t.Fatalf("unexpected event %+v", received)
	}
	if len(received.NewItems) != 1 || received.NewItems[0] != "Cats" {
		t.Fatalf("new items not delivered: %+v", received.NewItems)
	}

	wantHeaders := map[string]string{
		"Authorization":   "Bearer hook-secret",
		"Content-Type":    "application/json",
		"X-Event-Method":  "albums",
		"X-Event-User-Id": "42",
	}
	for k, want := range wantHeaders {
		if got := gotHeaders.Get(k); got != want {
			t.Errorf("header %s = %q, want %q", k, got, want)
		}
	}
}

func TestHTTPPublisherRejectsErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rejected", status)
			}))
			defer srv.Close()

			pub := newTestHTTPPublisher(t, srv.URL, nil)
			if err := pub.Publish(context.Background(), NewEvent("friends", "1", nil, nil)); err == nil {
				t.Fatalf("expected error for status %d", status)
			}
		})
	}
}

func TestAttributeHeaders(t *testing.T) {
	got := attributeHeaders(Event{Method: "friends", UserID: "7"})
	if got["X-Event-Method"] != "friends" || got["X-Event-User-Id"] != "7" || len(got) != 2 {
		t.Fatalf("unexpected headers %v", got)
	}
}
