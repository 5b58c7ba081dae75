package breeze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/breeze-go/breeze/coerce"
	"github.com/breeze-go/breeze/normalize"
)

// MaxAccountLogLimit is the largest page the account log returns.
const MaxAccountLogLimit = 3000

// AccountLogParams filters AccountLog. Action is required.
type AccountLogParams struct {
	Action normalize.Action
	Start  time.Time
	End    time.Time
	UserID int64
	// Details includes the change payload of each entry.
	Details bool
	// Limit is capped at MaxAccountLogLimit.
	Limit int
}

// AccountSummary returns the organization's account details. The record is
// nil when the service returns nothing.
func (c *Client) AccountSummary(ctx context.Context) (Record, error) {
	raw, err := c.get(ctx, "account.summary", pathAccount+"/summary", nil)
	if err != nil {
		return nil, err
	}
	return record(normalize.AccountSummary(raw)), nil
}

// AccountLog lists logged actions of one kind.
//
// Entries whose action is not recognized are left out; the returned error
// then matches ErrUnrecognizedAction and lists them as
// *normalize.EntryError values, while the recognized entries are still
// returned.
func (c *Client) AccountLog(ctx context.Context, p AccountLogParams) ([]Record, error) {
	const op = "account.log"
	if p.Action == "" {
		return nil, fmt.Errorf("%s: %w: action is required", op, ErrInvalidArgument)
	}
	limit := p.Limit
	if limit > MaxAccountLogLimit {
		limit = MaxAccountLogLimit
	}
	q := query{}.
		str("action", p.Action.String()).
		date("start", p.Start, coerce.ISODate).
		date("end", p.End, coerce.ISODate).
		id("user_id", p.UserID).
		flag("details", p.Details).
		num("limit", limit)
	raw, err := c.getWithTimeout(ctx, op, pathAccount+"/list_log", q.values(), slowTimeout)
	if err != nil {
		return nil, err
	}

	entries, err := normalize.AccountLogs(raw, c.normalizeOpts()...)
	if err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				var entryErr *normalize.EntryError
				if errors.As(e, &entryErr) {
					c.logger.WarnContext(ctx, "client.account_log.entry_failed", slog.Int("index", entryErr.Index), slog.Any("err", entryErr.Err))
				}
			}
		}
		err = fmt.Errorf("%s: %w", op, err)
	}
	return c.records(ctx, op, entries), err
}
