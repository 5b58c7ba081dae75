package breeze

import (
	"context"
	"log/slog"

	"github.com/breeze-go/breeze/internal/schemacache"
	"github.com/breeze-go/breeze/normalize"
	"golang.org/x/sync/errgroup"
)

// ListPeopleParams filters ListPeople. Zero values are not sent.
type ListPeopleParams struct {
	// Details includes every profile field, routed through the profile
	// schema. Slower.
	Details bool
	Limit   int
	Offset  int
	// FilterJSON is passed through verbatim, e.g. {"2114":"Ann"}.
	FilterJSON string
}

// ListPeople lists people. With Details the profile-field schema is fetched
// alongside so emails, phones, addresses and dates are typed.
func (c *Client) ListPeople(ctx context.Context, p ListPeopleParams) ([]Record, error) {
	const op = "people.list"
	q := query{}.
		detailsFlag(p.Details).
		num("limit", p.Limit).
		num("offset", p.Offset).
		str("filter_json", p.FilterJSON)

	raw, groups, err := c.fetchWithProfile(ctx, op, p.Details, func(ctx context.Context) (any, error) {
		return c.get(ctx, op, pathPeople, q.values())
	})
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Person(raw, normalize.WithFieldGroups(groups))), nil
}

// ShowPerson fetches one person. The record is nil when the service returns
// nothing for id.
func (c *Client) ShowPerson(ctx context.Context, id int64, details bool) (Record, error) {
	const op = "people.show"
	raw, groups, err := c.fetchWithProfile(ctx, op, details, func(ctx context.Context) (any, error) {
		return c.get(ctx, op, idPath(pathPeople, id), query{}.detailsFlag(details).values())
	})
	if err != nil {
		return nil, err
	}
	return record(normalize.Person(raw, normalize.WithFieldGroups(groups))), nil
}

// ShowPeople fetches several people one request each, with at most the
// configured detail concurrency in flight. The first failure cancels the
// rest. Results keep the order of ids; ids the service returns nothing for
// are left out.
func (c *Client) ShowPeople(ctx context.Context, ids []int64, details bool) ([]Record, error) {
	const op = "people.show_many"
	var groups []normalize.FieldGroup
	if details {
		var err error
		if groups, err = c.profileFieldGroups(ctx); err != nil {
			return nil, err
		}
	}

	results := make([]Record, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.detailConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			raw, err := c.get(gctx, op, idPath(pathPeople, id), query{}.detailsFlag(details).values())
			if err != nil {
				return err
			}
			results[i] = record(normalize.Person(raw, normalize.WithFieldGroups(groups)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) < len(ids) {
		c.logger.DebugContext(ctx, "client.people.missing", slog.Int("requested", len(ids)), slog.Int("found", len(out)))
	}
	return out, nil
}

// ListProfileFields returns the profile sections and their fields.
func (c *Client) ListProfileFields(ctx context.Context) ([]Record, error) {
	raw, err := c.get(ctx, "profile.list", pathProfileFields, nil)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, "profile.list", normalize.ProfileFields(raw)), nil
}

// AddPerson creates a person. fieldsJSON is passed through verbatim.
func (c *Client) AddPerson(ctx context.Context, first, last, fieldsJSON string) (Record, error) {
	const op = "people.add"
	q := query{}.str("first", first).str("last", last).str("fields_json", fieldsJSON)
	raw, err := c.get(ctx, op, pathPeople+"/add", q.values())
	if err != nil {
		return nil, err
	}
	return record(normalize.Person(raw)), nil
}

// UpdatePerson updates profile fields of a person.
func (c *Client) UpdatePerson(ctx context.Context, id int64, fieldsJSON string) (Record, error) {
	const op = "people.update"
	q := query{}.id("person_id", id).str("fields_json", fieldsJSON)
	raw, err := c.get(ctx, op, pathPeople+"/update", q.values())
	if err != nil {
		return nil, err
	}
	return record(normalize.Person(raw)), nil
}

// profileFieldGroups returns the profile schema, from the cache when enabled.
func (c *Client) profileFieldGroups(ctx context.Context) ([]normalize.FieldGroup, error) {
	return c.schemas.GetOrLoad(ctx, schemacache.ProfileKey, func(ctx context.Context) ([]normalize.FieldGroup, error) {
		raw, err := c.get(ctx, "profile.list", pathProfileFields, nil)
		if err != nil {
			return nil, err
		}
		return normalize.FieldGroupsFrom(raw), nil
	})
}

// fetchWithProfile runs fetch and, when withSchema is set, loads the profile
// schema concurrently.
func (c *Client) fetchWithProfile(ctx context.Context, op string, withSchema bool, fetch func(context.Context) (any, error)) (any, []normalize.FieldGroup, error) {
	if !withSchema {
		raw, err := fetch(ctx)
		return raw, nil, err
	}

	var raw any
	var groups []normalize.FieldGroup
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = fetch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = c.profileFieldGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	c.logger.DebugContext(ctx, "client.schema.loaded", slog.String("op", op), slog.Int("groups", len(groups)))
	return raw, groups, nil
}
