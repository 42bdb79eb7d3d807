// Package transport is the REST adapter for the backing store. It owns the
// wire-case translation: the store keeps all-lowercase column names while
// the app speaks camelCase, and the mapping tables in wiremap.go are the
// single place that difference exists.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/event"
	"venue-booking/internal/domain/message"
	"venue-booking/internal/domain/notification"
	"venue-booking/internal/domain/space"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/errs"
)

const adminTokenHeader = "x-admin-token"

type Client struct {
	base       string
	adminToken string
	http       *http.Client
}

func NewClient(cfg config.TransportConfig) *Client {
	return &Client{
		base:       cfg.BaseURL,
		adminToken: cfg.AdminToken,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

// do issues one request and returns the response body. Every failure is
// marked as a transport error so refresh paths can swallow it while
// explicit mutations surface it.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, errs.MarkTransport(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set(adminTokenHeader, c.adminToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.MarkTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.MarkTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.MarkTransport(errs.New(fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, data)))
	}
	return data, nil
}

// ---- fetch (engine.Reader) ----

func (c *Client) FetchSpaces(ctx context.Context) ([]space.Space, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/public/spaces", nil)
	if err != nil {
		return nil, err
	}
	return decodeWireList[space.Space](data, spaceFields)
}

func (c *Client) FetchEvents(ctx context.Context) ([]event.Event, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/public/events", nil)
	if err != nil {
		return nil, err
	}
	return decodeWireList[event.Event](data, eventFields)
}

// FetchReservations returns the authenticated view when scoped, the
// anonymized public calendar view otherwise.
func (c *Client) FetchReservations(ctx context.Context, scoped bool) ([]booking.Reservation, error) {
	path := "/api/public/reservations"
	if scoped {
		path = "/api/admin/reservations"
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeWireList[booking.Reservation](data, reservationFields)
}

func (c *Client) FetchMessages(ctx context.Context) ([]message.Message, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/messages", nil)
	if err != nil {
		return nil, err
	}
	return decodeWireList[message.Message](data, messageFields)
}

func (c *Client) FetchNotifications(ctx context.Context) ([]notification.Notification, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/notifications", nil)
	if err != nil {
		return nil, err
	}
	return decodeWireList[notification.Notification](data, notificationFields)
}

// ---- reservations ----

func (c *Client) CreateReservation(ctx context.Context, r booking.Reservation) (booking.Reservation, error) {
	body, err := encodeWire(r, reservationFields)
	if err != nil {
		return booking.Reservation{}, err
	}
	data, err := c.do(ctx, http.MethodPost, "/api/admin/reservations", body)
	if err != nil {
		return booking.Reservation{}, err
	}
	var created booking.Reservation
	if err := decodeWire(data, reservationFields, &created); err != nil {
		return booking.Reservation{}, err
	}
	return created, nil
}

func (c *Client) patchReservation(ctx context.Context, id string, patch map[string]any) error {
	body, err := encodeWire(patch, reservationFields)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPatch, "/api/admin/reservations/"+id, body)
	return err
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	return c.patchReservation(ctx, id, map[string]any{"status": status})
}

func (c *Client) UpdateDate(ctx context.Context, id, date, endDate string) error {
	// endDate is always sent so shrinking a range to a single day clears
	// the stored end.
	return c.patchReservation(ctx, id, map[string]any{"date": date, "endDate": endDate})
}

func (c *Client) CheckIn(ctx context.Context, id, checkedInAt string) error {
	return c.patchReservation(ctx, id, map[string]any{"checkedInAt": checkedInAt})
}

func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/admin/reservations/"+id, nil)
	return err
}

// ---- events ----

func (c *Client) CreateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	body, err := encodeWire(ev, eventFields)
	if err != nil {
		return event.Event{}, err
	}
	data, err := c.do(ctx, http.MethodPost, "/api/admin/events", body)
	if err != nil {
		return event.Event{}, err
	}
	var created event.Event
	if err := decodeWire(data, eventFields, &created); err != nil {
		return event.Event{}, err
	}
	return created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	body, err := encodeWire(ev, eventFields)
	if err != nil {
		return event.Event{}, err
	}
	data, err := c.do(ctx, http.MethodPut, "/api/admin/events/"+ev.ID, body)
	if err != nil {
		return event.Event{}, err
	}
	var updated event.Event
	if err := decodeWire(data, eventFields, &updated); err != nil {
		return event.Event{}, err
	}
	return updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/admin/events/"+id, nil)
	return err
}

// ---- spaces ----

func (c *Client) UpdateSpace(ctx context.Context, sp space.Space) (space.Space, error) {
	body, err := encodeWire(sp, spaceFields)
	if err != nil {
		return space.Space{}, err
	}
	data, err := c.do(ctx, http.MethodPut, "/api/admin/spaces/"+sp.ID, body)
	if err != nil {
		return space.Space{}, err
	}
	var updated space.Space
	if err := decodeWire(data, spaceFields, &updated); err != nil {
		return space.Space{}, err
	}
	return updated, nil
}

// ---- messages ----

func (c *Client) CreateMessage(ctx context.Context, m message.Message) (message.Message, error) {
	body, err := encodeWire(m, messageFields)
	if err != nil {
		return message.Message{}, err
	}
	data, err := c.do(ctx, http.MethodPost, "/api/admin/messages", body)
	if err != nil {
		return message.Message{}, err
	}
	var created message.Message
	if err := decodeWire(data, messageFields, &created); err != nil {
		return message.Message{}, err
	}
	return created, nil
}

func (c *Client) PatchMessage(ctx context.Context, id string, p message.Patch) (message.Message, error) {
	body, err := encodeWire(p, messageFields)
	if err != nil {
		return message.Message{}, err
	}
	data, err := c.do(ctx, http.MethodPatch, "/api/admin/messages/"+id, body)
	if err != nil {
		return message.Message{}, err
	}
	var updated message.Message
	if err := decodeWire(data, messageFields, &updated); err != nil {
		return message.Message{}, err
	}
	return updated, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/admin/messages/"+id, nil)
	return err
}

// ---- notifications ----

func (c *Client) CreateNotification(ctx context.Context, n notification.Notification) error {
	body, err := encodeWire(n, notificationFields)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/api/admin/notifications", body)
	return err
}

func (c *Client) PatchNotificationRead(ctx context.Context, id string, read bool) error {
	body, err := encodeWire(map[string]any{"read": read}, notificationFields)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPatch, "/api/admin/notifications/"+id, body)
	return err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/admin/notifications/"+id, nil)
	return err
}

// ---- users ----

type wireUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserEmail resolves the delivery address for a pass email. The user list
// is small (a venue's client base) so a filtered fetch is not worth a
// dedicated endpoint.
func (c *Client) UserEmail(ctx context.Context, userID string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/users", nil)
	if err != nil {
		return "", err
	}
	var users []wireUser
	if err := json.Unmarshal(data, &users); err != nil {
		return "", errs.Wrap(err, "decode users")
	}
	for _, u := range users {
		if u.ID == userID {
			return u.Email, nil
		}
	}
	return "", errs.NewNotFound("user " + userID)
}
