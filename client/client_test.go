package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"relocare/models"
	"relocare/services/notification"
)

func TestListServices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/services" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"success":true,"services":[{"id":"s1","name":"House Removals","isActive":true}]}`))
	}))
	defer srv.Close()

	services, err := New(srv.URL+"/", nil).ListServices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 || services[0].Name != "House Removals" {
		t.Fatalf("unexpected services: %+v", services)
	}
}

func TestCreateBookingDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in models.BookingInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.FullName == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":"invalid or missing fields: fullName","fields":["fullName"]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"bookingId":"BK-1","booking":{"bookingId":"BK-1","status":"pending"}}`))
	}))
	defer srv.Close()
	c := New(srv.URL, nil)

	_, err := c.CreateBooking(context.Background(), models.BookingInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || len(apiErr.Fields) != 1 || apiErr.Fields[0] != "fullName" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	b, err := c.CreateBooking(context.Background(), models.BookingInput{FullName: "Jane Doe"})
	if err != nil {
		t.Fatal(err)
	}
	if b.BookingID != "BK-1" || b.Status != models.BookingPending {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestPollServicesStopsOnCancel(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"services":[]}`))
	}))
	defer srv.Close()

	sink := &notification.RecordingSink{}
	c := New(srv.URL, sink)

	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	updates := 0
	done := make(chan struct{})
	go func() {
		c.PollServices(ctx, 10*time.Millisecond, func([]models.Service) {
			mu.Lock()
			updates++
			n := updates
			mu.Unlock()
			if n == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if updates != 3 {
		t.Fatalf("expected 3 updates, got %d", updates)
	}
	msgs := sink.Messages()
	if len(msgs) != 1 || msgs[0].Kind != notification.KindError || !strings.Contains(msgs[0].Text, "Internal server error") {
		t.Fatalf("expected one error notification, got %+v", msgs)
	}

	// No further requests after the poller returned.
	seen := atomic.LoadInt32(&hits)
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&hits) != seen {
		t.Fatal("poller kept fetching after cancel")
	}
}

func TestPollServicesFetchesImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"services":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan struct{}, 1)
	go New(srv.URL, nil).PollServices(ctx, time.Hour, func([]models.Service) {
		select {
		case got <- struct{}{}:
		default:
		}
	})
	defer cancel()

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate fetch")
	}
}
