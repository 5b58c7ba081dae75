package breeze

import (
	"context"

	"github.com/breeze-go/breeze/internal/schemacache"
	"github.com/breeze-go/breeze/normalize"
	"golang.org/x/sync/errgroup"
)

// ListForms lists active forms, or archived ones when archived is set.
func (c *Client) ListForms(ctx context.Context, archived bool) ([]Record, error) {
	const op = "forms.list"
	raw, err := c.get(ctx, op, pathForms+"/list_forms", query{}.flag("is_archived", archived).values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Form(raw)), nil
}

func (c *Client) ListFormFields(ctx context.Context, formID int64) ([]Record, error) {
	raw, err := c.formFieldsRaw(ctx, formID)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, "forms.fields", normalize.FormField(raw)), nil
}

// ListFormEntries lists entries of a form. With details the answers are
// included and the form's fields are fetched alongside so date answers are
// parsed; answer keys stay the field ids.
func (c *Client) ListFormEntries(ctx context.Context, formID int64, details bool) ([]Record, error) {
	const op = "forms.entries"
	q := query{}.id("form_id", formID).flag("details", details)
	if !details {
		raw, err := c.get(ctx, op, pathForms+"/list_form_entries", q.values())
		if err != nil {
			return nil, err
		}
		return c.records(ctx, op, normalize.FormEntry(raw)), nil
	}

	var raw any
	var groups []normalize.FieldGroup
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = c.get(gctx, op, pathForms+"/list_form_entries", q.values())
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = c.formFieldGroups(gctx, formID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.FormEntry(raw, normalize.WithFieldGroups(groups))), nil
}

// RemoveFormEntry deletes one entry and returns what the service reports.
func (c *Client) RemoveFormEntry(ctx context.Context, entryID int64) (any, error) {
	raw, err := c.get(ctx, "forms.remove_entry", pathForms+"/remove_form_entry", query{}.id("entry_id", entryID).values())
	if err != nil {
		return nil, err
	}
	return normalize.Value(raw), nil
}

func (c *Client) formFieldsRaw(ctx context.Context, formID int64) (any, error) {
	return c.get(ctx, "forms.fields", pathForms+"/list_form_fields", query{}.id("form_id", formID).values())
}

func (c *Client) formFieldGroups(ctx context.Context, formID int64) ([]normalize.FieldGroup, error) {
	return c.schemas.GetOrLoad(ctx, schemacache.FormKey(formID), func(ctx context.Context) ([]normalize.FieldGroup, error) {
		raw, err := c.formFieldsRaw(ctx, formID)
		if err != nil {
			return nil, err
		}
		return normalize.FormFieldsFrom(raw), nil
	})
}
