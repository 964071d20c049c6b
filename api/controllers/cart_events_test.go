package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/floracare/storefront/api/middleware"
)

func TestCartEventsStreamsUpdates(t *testing.T) {
	store := newControllerStore(t)
	handler := CartEvents(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/events", nil)
	req = req.WithContext(middleware.WithProfileID(ctx, "profile-1"))

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handler time to subscribe and flush the initial snapshot.
	time.Sleep(50 * time.Millisecond)

	if _, err := store.AddItem(context.Background(), "profile-1", soapProduct(), 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop on disconnect")
	}

	body := rec.Body.String()
	if got := strings.Count(body, "event: cartUpdated"); got < 2 {
		t.Fatalf("expected initial snapshot plus one update, got %d events in %q", got, body)
	}
	if !strings.Contains(body, `"item_count":1`) {
		t.Fatalf("expected updated summary in stream, got %q", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestCartEventsUnsubscribesOnDisconnect(t *testing.T) {
	store := newControllerStore(t)
	handler := CartEvents(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/events", nil)
	req = req.WithContext(middleware.WithProfileID(ctx, "profile-1"))

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	// A mutation after disconnect must not panic or write to the closed stream.
	if _, err := store.AddItem(context.Background(), "profile-1", soapProduct(), 1); err != nil {
		t.Fatalf("add item after disconnect: %v", err)
	}
}
