package breeze

import (
	"context"
	"time"

	"github.com/breeze-go/breeze/coerce"
	"github.com/breeze-go/breeze/normalize"
)

// MaxEventLimit is the largest page the events listing accepts.
const MaxEventLimit = 1000

// ListEventsParams filters ListEvents. Zero values are not sent; the service
// defaults to the current month and 500 events.
type ListEventsParams struct {
	Start      time.Time
	End        time.Time
	CategoryID int64
	// Eligible includes who may check in ("everyone", "tags", "forms" or
	// "none") with the tags involved.
	Eligible bool
	Details  bool
	Limit    int
}

// AttendanceKind selects who ListAttendance returns.
type AttendanceKind string

const (
	AttendancePeople    AttendanceKind = "person"
	AttendanceAnonymous AttendanceKind = "anonymous"
)

func (c *Client) ListEvents(ctx context.Context, p ListEventsParams) ([]Record, error) {
	const op = "events.list"
	limit := p.Limit
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}
	q := query{}.
		date("start", p.Start, coerce.ISODate).
		date("end", p.End, coerce.ISODate).
		id("category_id", p.CategoryID).
		flag("eligible", p.Eligible).
		flag("details", p.Details).
		num("limit", limit)
	raw, err := c.get(ctx, op, pathEvents, q.values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Event(raw)), nil
}

func (c *Client) ListCalendars(ctx context.Context) ([]Record, error) {
	const op = "events.calendars"
	raw, err := c.get(ctx, op, pathEvents+"/calendars/list", nil)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Calendar(raw)), nil
}

func (c *Client) ListLocations(ctx context.Context) ([]Record, error) {
	const op = "events.locations"
	raw, err := c.get(ctx, op, pathEvents+"/locations", nil)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Location(raw)), nil
}

// ListAttendance lists check-ins for an event instance. An empty kind uses
// the service default (people).
func (c *Client) ListAttendance(ctx context.Context, instanceID int64, details bool, kind AttendanceKind) ([]Record, error) {
	const op = "events.attendance"
	q := query{}.id("instance_id", instanceID).flag("details", details).str("type", string(kind))
	raw, err := c.get(ctx, op, pathAttendance+"/list", q.values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Attendance(raw)), nil
}

// ListEligiblePeople lists who may check in to an event instance.
func (c *Client) ListEligiblePeople(ctx context.Context, instanceID int64) ([]Record, error) {
	const op = "events.eligible"
	q := query{}.id("instance_id", instanceID)
	raw, err := c.getWithTimeout(ctx, op, pathAttendance+"/eligible", q.values(), slowTimeout)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Person(raw)), nil
}

// CheckIn records personID as attending the instance. It reports what the
// service returned, normally true.
func (c *Client) CheckIn(ctx context.Context, personID, instanceID int64) (any, error) {
	q := query{}.id("person_id", personID).id("instance_id", instanceID)
	raw, err := c.get(ctx, "events.check_in", pathAttendance+"/add", q.values())
	if err != nil {
		return nil, err
	}
	return normalize.Value(raw), nil
}

// CheckOut removes an attendance record.
func (c *Client) CheckOut(ctx context.Context, personID, instanceID int64) (any, error) {
	q := query{}.id("person_id", personID).id("instance_id", instanceID)
	raw, err := c.get(ctx, "events.check_out", pathAttendance+"/delete", q.values())
	if err != nil {
		return nil, err
	}
	return normalize.Value(raw), nil
}
