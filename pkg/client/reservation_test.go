package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"roomres/pkg/model"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/rooms/availability", func(w http.ResponseWriter, r *http.Request) {
		var filter model.AvailabilityFilter
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []model.RoomAvailability{{ID: 4, Capacity: 2, Features: []string{"TV"}}},
		})
	})
	mux.HandleFunc("/api/v1/rooms/reserve", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(IdempotencyKeyHeader) != "key-1" {
			t.Errorf("missing idempotency header")
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(model.ReservationResult{
			Status:    model.StatusError,
			Message:   "Room 4 is not available during the requested time",
			ErrorCode: "CONFLICT",
			Reason:    "room_unavailable",
		})
	})
	mux.HandleFunc("/api/v1/rooms/id/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "room not found", "code": "NOT_FOUND"})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReservationClient_CheckAvailability(t *testing.T) {
	srv := newTestServer(t)
	c := NewReservationClient(srv.URL, "/api/v1")

	rooms, err := c.CheckAvailability(context.Background(), &model.AvailabilityFilter{Features: []string{"TV"}})
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != 4 {
		t.Errorf("CheckAvailability() = %+v", rooms)
	}
}

func TestReservationClient_ReserveConflict(t *testing.T) {
	srv := newTestServer(t)
	c := NewReservationClient(srv.URL, "/api/v1")

	result, err := c.Reserve(context.Background(), &model.ReservationRequest{RoomID: 4}, "key-1")
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if result.Succeeded() || result.Reason != "room_unavailable" {
		t.Errorf("Reserve() = %+v, want room_unavailable error result", result)
	}
}

func TestReservationClient_GetRoomNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewReservationClient(srv.URL, "/api/v1")

	if _, err := c.GetRoom(context.Background(), 99); err == nil {
		t.Fatal("GetRoom(99) expected error")
	}
}

func TestHttpClient_WaitForHealthy(t *testing.T) {
	srv := newTestServer(t)
	c := NewHttpClient(srv.URL)

	if err := c.WaitForHealthy(context.Background(), time.Second); err != nil {
		t.Fatalf("WaitForHealthy() error = %v", err)
	}
}
