package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"roomres/pkg/model"
	"strconv"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// ReservationClient talks to the reservations HTTP API.
type ReservationClient struct {
	httpClient *HttpClient
	prefix     string
}

func NewReservationClient(baseURL, apiPrefix string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL),
		prefix:     apiPrefix,
	}
}

func (c *ReservationClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *ReservationClient) CheckAvailability(ctx context.Context, filter *model.AvailabilityFilter) ([]model.RoomAvailability, error) {
	resp, err := c.httpClient.POST(ctx, c.prefix+"/rooms/availability", filter)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("check availability failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var rooms []model.RoomAvailability
	if err := decodeData(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Reserve submits a reservation. Business failures (validation, missing room,
// conflict) come back as an error-status result rather than a Go error.
func (c *ReservationClient) Reserve(ctx context.Context, req *model.ReservationRequest, idempotencyKey string) (*model.ReservationResult, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[IdempotencyKeyHeader] = idempotencyKey
	}

	resp, err := c.httpClient.POSTWithHeaders(ctx, c.prefix+"/rooms/reserve", req, headers)
	if err != nil {
		return nil, err
	}

	var result model.ReservationResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("could not decode reservation result (status %d): %w", resp.StatusCode, err)
	}
	if result.Status == "" {
		return nil, fmt.Errorf("reserve failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	return &result, nil
}

func (c *ReservationClient) ListRooms(ctx context.Context) ([]*model.Room, error) {
	resp, err := c.httpClient.GET(ctx, c.prefix+"/rooms")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list rooms failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var rooms []*model.Room
	if err := decodeData(resp, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *ReservationClient) GetRoom(ctx context.Context, roomID int) (*model.Room, error) {
	resp, err := c.httpClient.GET(ctx, c.prefix+"/rooms/id/"+strconv.Itoa(roomID))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get room %d failed with status %d: %s", roomID, resp.StatusCode, GetErrorMessage(resp))
	}

	var room model.Room
	if err := decodeData(resp, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *ReservationClient) ListReservations(ctx context.Context, roomID int, date string) ([]*model.Reservation, error) {
	q := url.Values{}
	q.Set("date", date)

	path := fmt.Sprintf("%s/rooms/id/%d/reservations?%s", c.prefix, roomID, q.Encode())
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list reservations failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var reservations []*model.Reservation
	if err := decodeData(resp, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *ReservationClient) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	resp, err := c.httpClient.GET(ctx, c.prefix+"/reservations/id/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get reservation %d failed with status %d: %s", id, resp.StatusCode, GetErrorMessage(resp))
	}

	var reservation model.Reservation
	if err := decodeData(resp, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper: %w", err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data: %w", err)
	}
	return nil
}
