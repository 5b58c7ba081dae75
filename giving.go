package breeze

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/breeze-go/breeze/coerce"
	"github.com/breeze-go/breeze/normalize"
)

// ListContributionsParams filters ListContributions. Zero values are not
// sent.
type ListContributionsParams struct {
	Start    time.Time
	End      time.Time
	PersonID int64
	// IncludeFamily adds contributions from the person's family. Requires
	// PersonID.
	IncludeFamily  bool
	AmountMin      string
	AmountMax      string
	MethodIDs      []int64
	FundIDs        []int64
	EnvelopeNumber string
	Batches        []int64
	Forms          []int64
	PledgeIDs      []int64
}

// Payment describes a contribution to add or edit. Zero values are not sent.
type Payment struct {
	Date      time.Time
	Name      string
	PersonID  int64
	UID       string
	Processor string
	Method    string
	// FundsJSON is a JSON list such as [{"id":"12","name":"General","amount":"10.00"}].
	FundsJSON   string
	Amount      string
	Group       string
	BatchNumber string
	BatchName   string
}

func (p Payment) query() query {
	return query{}.
		date("date", p.Date, coerce.DayMonthYear).
		str("name", p.Name).
		id("person_id", p.PersonID).
		str("uid", p.UID).
		str("processor", p.Processor).
		str("method", p.Method).
		str("funds_json", p.FundsJSON).
		str("amount", p.Amount).
		str("group", p.Group).
		str("batch_number", p.BatchNumber).
		str("batch_name", p.BatchName)
}

func (c *Client) ListContributions(ctx context.Context, p ListContributionsParams) ([]Record, error) {
	const op = "giving.list"
	if p.IncludeFamily && p.PersonID == 0 {
		return nil, fmt.Errorf("%s: %w: include_family requires a person id", op, ErrInvalidArgument)
	}
	q := query{}.
		date("start", p.Start, coerce.DayMonthYear).
		date("end", p.End, coerce.DayMonthYear).
		id("person_id", p.PersonID).
		flag("include_family", p.IncludeFamily).
		str("amount_min", p.AmountMin).
		str("amount_max", p.AmountMax).
		ids("method_ids", p.MethodIDs).
		ids("fund_ids", p.FundIDs).
		str("envelope_number", p.EnvelopeNumber).
		ids("batches", p.Batches).
		ids("forms", p.Forms).
		ids("pledge_ids", p.PledgeIDs)
	raw, err := c.get(ctx, op, pathGiving+"/list", q.values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Contribution(raw)), nil
}

// AddContribution records a payment and returns its payment id.
func (c *Client) AddContribution(ctx context.Context, p Payment) (int64, error) {
	return c.paymentCall(ctx, "giving.add", pathGiving+"/add", p.query())
}

// EditContribution updates payment paymentID and returns the id the service
// reports, which changes on every edit.
func (c *Client) EditContribution(ctx context.Context, paymentID int64, p Payment) (int64, error) {
	if paymentID == 0 {
		return 0, fmt.Errorf("giving.edit: %w: payment id is required", ErrInvalidArgument)
	}
	return c.paymentCall(ctx, "giving.edit", pathGiving+"/edit", p.query().id("payment_id", paymentID))
}

// DeleteContribution deletes a payment and returns its id.
func (c *Client) DeleteContribution(ctx context.Context, paymentID int64) (int64, error) {
	return c.paymentCall(ctx, "giving.delete", pathGiving+"/delete", query{}.id("payment_id", paymentID))
}

func (c *Client) paymentCall(ctx context.Context, op, endpoint string, q query) (int64, error) {
	raw, err := c.get(ctx, op, endpoint, q.values())
	if err != nil {
		return 0, err
	}
	if raw == nil && c.req.DryRun() {
		return 0, nil
	}
	return paymentID(op, raw)
}

func paymentID(op string, raw any) (int64, error) {
	m, ok := normalize.Value(raw).(map[string]any)
	if !ok {
		return 0, fmt.Errorf("%s: %w: response has no payment_id: %v", op, ErrRemoteRejected, raw)
	}
	switch id := m["payment_id"].(type) {
	case int64:
		return id, nil
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%s: %w: unexpected payment_id %v", op, ErrRemoteRejected, m["payment_id"])
}

// ListFunds lists funds, optionally with the total given to each.
func (c *Client) ListFunds(ctx context.Context, includeTotals bool) ([]Record, error) {
	const op = "funds.list"
	raw, err := c.get(ctx, op, pathFunds+"/list", query{}.flag("include_totals", includeTotals).values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Fund(raw)), nil
}

func (c *Client) ListCampaigns(ctx context.Context) ([]Record, error) {
	const op = "pledges.campaigns"
	raw, err := c.get(ctx, op, pathPledges+"/list_campaigns", nil)
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Campaign(raw)), nil
}

func (c *Client) ListPledges(ctx context.Context, campaignID int64) ([]Record, error) {
	const op = "pledges.list"
	raw, err := c.get(ctx, op, pathPledges+"/list_pledges", query{}.id("campaign_id", campaignID).values())
	if err != nil {
		return nil, err
	}
	return c.records(ctx, op, normalize.Pledge(raw)), nil
}
