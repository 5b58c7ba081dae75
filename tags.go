package breeze

import (
	"context"

	"github.com/breeze-go/breeze/normalize"
)

// ListTags lists tags, limited to one folder when folderID is set.
func (c *Client) ListTags(ctx context.Context, folderID int64) ([]Record, error) {
	const op = "tags.list"
	raw, err := c.get(ctx, op, pathTags+"/list_tags", query{}.id("folder_id", folderID).values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Tag(raw)), nil
}

func (c *Client) ListTagFolders(ctx context.Context) ([]Record, error) {
	const op = "tags.folders"
	raw, err := c.get(ctx, op, pathTags+"/list_folders", nil)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.TagFolder(raw)), nil
}

// AddTag creates a tag, in a folder when folderID is set.
func (c *Client) AddTag(ctx context.Context, name string, folderID int64) (Record, error) {
	q := query{}.str("name", name).id("folder_id", folderID)
	raw, err := c.get(ctx, "tags.add", pathTags+"/add_tag", q.values())
	if err != nil {
		return nil, err
	}
	return record(normalize.Tag(raw)), nil
}

// AssignTag tags a person. The service answers true on success.
func (c *Client) AssignTag(ctx context.Context, personID, tagID int64) (any, error) {
	return c.tagCall(ctx, "tags.assign", "/assign", personID, tagID)
}

// UnassignTag removes a tag from a person.
func (c *Client) UnassignTag(ctx context.Context, personID, tagID int64) (any, error) {
	return c.tagCall(ctx, "tags.unassign", "/unassign", personID, tagID)
}

func (c *Client) tagCall(ctx context.Context, op, path string, personID, tagID int64) (any, error) {
	q := query{}.id("person_id", personID).id("tag_id", tagID)
	raw, err := c.get(ctx, op, pathTags+path, q.values())
	if err != nil {
		return nil, err
	}
	return normalize.Value(raw), nil
}
