package breeze

import (
	"context"

	"github.com/breeze-go/breeze/normalize"
)

// ListVolunteers lists volunteers scheduled for an event instance.
func (c *Client) ListVolunteers(ctx context.Context, instanceID int64) ([]Record, error) {
	const op = "volunteers.list"
	raw, err := c.get(ctx, op, pathVolunteers+"/list", query{}.id("instance_id", instanceID).values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Volunteer(raw)), nil
}

// ListVolunteerRoles lists the roles of an event instance, with the
// requested quantity of each when showQuantity is set.
func (c *Client) ListVolunteerRoles(ctx context.Context, instanceID int64, showQuantity bool) ([]Record, error) {
	const op = "volunteers.roles"
	q := query{}.id("instance_id", instanceID).flag("show_quantity", showQuantity)
	raw, err := c.get(ctx, op, pathVolunteers+"/list_roles", q.values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.VolunteerRole(raw)), nil
}
