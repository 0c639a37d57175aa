package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	reshandler "roomres/internal/reservations/handler"
	resrepo "roomres/internal/reservations/repository"
	"roomres/internal/reservations/service"
	"roomres/internal/reservations/validator"
	roomhandler "roomres/internal/rooms/handler"
	roomsrepo "roomres/internal/rooms/repository"
	roomservice "roomres/internal/rooms/service"
	"roomres/pkg/client"
	"roomres/pkg/config"
	"roomres/pkg/logger"
	"roomres/pkg/middleware"
	"roomres/pkg/model"
	"testing"
	"time"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		ServiceName:       "reservations-test",
		StoreBackend:      config.BackendMemory,
		Port:              "0",
		APIPrefix:         "/api/v1",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}

	rooms := roomsrepo.NewMemoryRoomRepository(&model.Room{ID: 1, Capacity: 2, Features: []string{"WiFi"}})
	svc := service.NewReservationService(resrepo.NewMemoryReservationRepository(), rooms,
		validator.NewReservationValidator(cfg.Log), nil, cfg)

	a := NewApplication(cfg)
	a.SetApp(
		roomhandler.NewHealthHandler(rooms, cfg.StoreBackend, cfg.Log),
		roomhandler.NewRoomHandler(roomservice.NewRoomService(rooms, cfg), cfg.APIPrefix, cfg.Log),
		reshandler.NewReservationHandler(svc, cfg.APIPrefix, cfg.Log),
	)
	t.Cleanup(a.Stop)
	return a
}

func post(t *testing.T, h http.Handler, path string, body any, idemKey string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idemKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApplication_HealthAndRooms(t *testing.T) {
	h := newTestApplication(t).Handler()

	for _, path := range []string{"/health", "/ready", "/api/v1/rooms", "/api/v1/rooms/id/1"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if path != "/health" && path != "/ready" && rec.Header().Get(middleware.RequestIDHeader) == "" {
			t.Errorf("GET %s missing request id header", path)
		}
	}
}

func TestApplication_IdempotentReserve(t *testing.T) {
	h := newTestApplication(t).Handler()
	req := model.ReservationRequest{RoomID: 1, GuestName: "Alice", Date: "2025-05-10", StartTime: "09:00", EndTime: "10:00"}

	first := post(t, h, "/api/v1/rooms/reserve", req, "key-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d: %s", first.Code, first.Body.String())
	}

	replay := post(t, h, "/api/v1/rooms/reserve", req, "key-1")
	if replay.Code != http.StatusCreated || replay.Header().Get("Idempotent-Replayed") != "true" {
		t.Errorf("replay status = %d, replayed = %q", replay.Code, replay.Header().Get("Idempotent-Replayed"))
	}
	if !bytes.Equal(first.Body.Bytes(), replay.Body.Bytes()) {
		t.Error("replayed body differs from the original")
	}

	fresh := post(t, h, "/api/v1/rooms/reserve", req, "key-2")
	if fresh.Code != http.StatusConflict {
		t.Errorf("fresh key status = %d, want 409", fresh.Code)
	}
}

func TestApplication_RejectsWrongContentType(t *testing.T) {
	h := newTestApplication(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/availability", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}
