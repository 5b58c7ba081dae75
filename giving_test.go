package breeze

import (
	"errors"
	"testing"
	"time"
)

func TestListContributions(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/giving/list", `[{
		"id": "10",
		"amount": "25.00",
		"paid_on": "2024-01-07 00:00:00",
		"funds": [{"id": "3", "amount": "25.00", "is_default": "1"}]
	}]`)

	got, err := c.ListContributions(t.Context(), ListContributionsParams{
		Start:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PersonID:      5,
		IncludeFamily: true,
		FundIDs:       []int64{3, 4},
	})
	if err != nil {
		t.Fatalf("ListContributions() failed: %v", err)
	}
	fund := got[0]["funds"].([]any)[0].(map[string]any)
	if got[0]["amount"] != 25.0 || fund["is_default"] != true {
		t.Fatalf("contribution = %#v", got[0])
	}

	q := s.RequestsTo("/api/giving/list")[0].Query
	if q.Get("start") != "02-01-2024" || q.Get("include_family") != "1" || q.Get("fund_ids") != "3-4" {
		t.Fatalf("query = %v", q)
	}
}

func TestListContributions_IncludeFamilyNeedsPerson(t *testing.T) {
	c, s := newTestClient(t)
	_, err := c.ListContributions(t.Context(), ListContributionsParams{IncludeFamily: true})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if len(s.Requests()) != 0 {
		t.Fatalf("invalid call reached the server")
	}
}

func TestContributionWrites(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/giving/add", `{"success": true, "payment_id": "901"}`)
	s.HandleJSON("/api/giving/edit", `{"success": true, "payment_id": "902"}`)
	s.HandleJSON("/api/giving/delete", `{"success": true, "payment_id": "902"}`)

	id, err := c.AddContribution(t.Context(), Payment{
		Date:      time.Date(2024, 5, 24, 0, 0, 0, 0, time.UTC),
		PersonID:  5,
		Amount:    "10.00",
		FundsJSON: `[{"id":"3","amount":"10.00"}]`,
	})
	if err != nil || id != 901 {
		t.Fatalf("AddContribution() = %d, %v", id, err)
	}
	if q := s.RequestsTo("/api/giving/add")[0].Query; q.Get("date") != "24-05-2024" || q.Get("amount") != "10.00" {
		t.Fatalf("query = %v", q)
	}

	id, err = c.EditContribution(t.Context(), 901, Payment{Amount: "12.00"})
	if err != nil || id != 902 {
		t.Fatalf("EditContribution() = %d, %v", id, err)
	}
	if q := s.RequestsTo("/api/giving/edit")[0].Query; q.Get("payment_id") != "901" {
		t.Fatalf("query = %v", q)
	}

	id, err = c.DeleteContribution(t.Context(), 902)
	if err != nil || id != 902 {
		t.Fatalf("DeleteContribution() = %d, %v", id, err)
	}
}

func TestContributionWrites_MissingPaymentID(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/giving/delete", `{"success": true}`)

	if _, err := c.DeleteContribution(t.Context(), 1); !errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("err = %v, want ErrRemoteRejected", err)
	}
	if _, err := c.EditContribution(t.Context(), 0, Payment{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestFundsCampaignsPledges(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/funds/list", `[{"id": "3", "name": "General", "tax_deductible": "1", "is_default": "0"}]`)
	s.HandleJSON("/api/pledges/list_campaigns", `[{"id": "1", "name": "Building"}]`)
	s.HandleJSON("/api/pledges/list_pledges", `[{"id": "4", "fund_ids_json": "[\"3\"]", "include_family": "0"}]`)

	funds, err := c.ListFunds(t.Context(), true)
	if err != nil || funds[0]["tax_deductible"] != true || funds[0]["is_default"] != false {
		t.Fatalf("ListFunds() = %#v, %v", funds, err)
	}
	if q := s.RequestsTo("/api/funds/list")[0].Query; q.Get("include_totals") != "1" {
		t.Fatalf("query = %v", q)
	}

	if camps, err := c.ListCampaigns(t.Context()); err != nil || camps[0]["id"] != int64(1) {
		t.Fatalf("ListCampaigns() = %#v, %v", camps, err)
	}

	pledges, err := c.ListPledges(t.Context(), 1)
	if err != nil {
		t.Fatalf("ListPledges() failed: %v", err)
	}
	ids := pledges[0]["fund_ids_json"].([]any)
	if len(ids) != 1 || ids[0] != int64(3) || pledges[0]["include_family"] != false {
		t.Fatalf("pledge = %#v", pledges[0])
	}
	if q := s.RequestsTo("/api/pledges/list_pledges")[0].Query; q.Get("campaign_id") != "1" {
		t.Fatalf("query = %v", q)
	}
}
