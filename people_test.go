package breeze

import (
	"fmt"
	"net/http"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/breeze-go/breeze/breezetest"
)

const profileFields = `[
	{"id": "1", "name": "Main", "fields": [
		{"field_id": "2114", "field_type": "email"},
		{"field_id": "2115", "field_type": "phone"},
		{"field_id": "2117", "field_type": "birthdate"}
	]}
]`

func TestListPeople_DetailsUseProfileSchema(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/profile", profileFields)
	s.HandleJSON("/api/people", `{
		"0": {"id": "5", "first_name": "Ann", "details": {
			"2114": [{"address": "ann@example.com", "is_primary": "1"}],
			"2115": [{"phone_mobile": "5551234567", "do_not_text": "0"}],
			"2117": "05/12/1990"
		}},
		"search_fields": {}
	}`)

	people, err := c.ListPeople(t.Context(), ListPeopleParams{Details: true, Limit: 10})
	if err != nil {
		t.Fatalf("ListPeople() failed: %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("got %d people", len(people))
	}
	details := people[0]["details"].(map[string]any)
	email := details["2114"].([]any)[0].(map[string]any)
	if email["is_primary"] != true || email["address"] != "ann@example.com" {
		t.Fatalf("email = %#v", email)
	}
	phone := details["2115"].([]any)[0].(map[string]any)
	if phone["phone_mobile"] != "5551234567" || phone["do_not_text"] != false {
		t.Fatalf("phone = %#v", phone)
	}
	if !reflect.DeepEqual(details["2117"], time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("birthdate = %#v", details["2117"])
	}

	q := s.RequestsTo("/api/people")[0].Query
	if q.Get("details") != "1" || q.Get("limit") != "10" || q.Has("offset") {
		t.Fatalf("query = %v", q)
	}
}

func TestListPeople_NoDetailsSkipsSchema(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/people", `[{"id": "5", "first_name": "Ann"}]`)

	people, err := c.ListPeople(t.Context(), ListPeopleParams{})
	if err != nil {
		t.Fatalf("ListPeople() failed: %v", err)
	}
	if len(people) != 1 || people[0]["id"] != int64(5) {
		t.Fatalf("people = %#v", people)
	}
	if n := len(s.RequestsTo("/api/profile")); n != 0 {
		t.Fatalf("profile fetched %d times", n)
	}
	if q := s.RequestsTo("/api/people")[0].Query; q.Get("details") != "0" {
		t.Fatalf("query = %v", q)
	}
}

func TestShowPerson(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/profile", profileFields)
	s.HandleJSON("/api/people/5", `{"id": "5", "details": {"2115": {"phone_home": "0123"}}}`)

	p, err := c.ShowPerson(t.Context(), 5, true)
	if err != nil {
		t.Fatalf("ShowPerson() failed: %v", err)
	}
	phone := p["details"].(map[string]any)["2115"].(map[string]any)
	if phone["phone_home"] != "0123" {
		t.Fatalf("phone = %#v", phone)
	}
}

func TestShowPeople_BoundedFanOut(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32
	c, s := newTestClient(t, WithDetailConcurrency(limit))
	for i := 1; i <= 10; i++ {
		body := fmt.Sprintf(`{"id": "%d"}`, i)
		s.Handle(fmt.Sprintf("/api/people/%d", i), func(w http.ResponseWriter, r *http.Request) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			breezetest.JSON(http.StatusOK, body)(w, r)
		})
	}

	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	people, err := c.ShowPeople(t.Context(), ids, false)
	if err != nil {
		t.Fatalf("ShowPeople() failed: %v", err)
	}
	if len(people) != len(ids) {
		t.Fatalf("got %d people", len(people))
	}
	for i, p := range people {
		if p["id"] != ids[i] {
			t.Fatalf("people[%d] = %#v, order not kept", i, p)
		}
	}
	if peak.Load() > limit {
		t.Fatalf("peak concurrency %d exceeds %d", peak.Load(), limit)
	}
}

func TestShowPeople_FailureCancels(t *testing.T) {
	c, s := newTestClient(t, WithMaxAttempts(1))
	s.HandleJSON("/api/people/1", `{"id": "1"}`)
	s.Handle("/api/people/2", breezetest.JSON(http.StatusBadRequest, `{"errors": ["no"]}`))

	if _, err := c.ShowPeople(t.Context(), []int64{1, 2}, false); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestSchemaCache(t *testing.T) {
	c, s := newTestClient(t, WithSchemaCacheTTL(time.Minute))
	s.HandleJSON("/api/profile", profileFields)
	s.HandleJSON("/api/people/5", `{"id": "5"}`)

	for i := 0; i < 3; i++ {
		if _, err := c.ShowPerson(t.Context(), 5, true); err != nil {
			t.Fatalf("ShowPerson() failed: %v", err)
		}
	}
	if n := len(s.RequestsTo("/api/profile")); n != 1 {
		t.Fatalf("profile fetched %d times, want 1", n)
	}
}

func TestListProfileFields(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/profile", profileFields)

	groups, err := c.ListProfileFields(t.Context())
	if err != nil {
		t.Fatalf("ListProfileFields() failed: %v", err)
	}
	fields := groups[0]["fields"].([]any)
	if len(fields) != 3 || fields[0].(map[string]any)["field_id"] != int64(2114) {
		t.Fatalf("fields = %#v", fields)
	}
}

func TestAddAndUpdatePerson(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/people/add", `{"id": "77", "first_name": "Ann"}`)
	s.HandleJSON("/api/people/update", `{"id": "77", "first_name": "Anna"}`)

	p, err := c.AddPerson(t.Context(), "Ann", "Lee", `[{"field_id":"2114","response":"a@b.c"}]`)
	if err != nil || p["id"] != int64(77) {
		t.Fatalf("AddPerson() = %#v, %v", p, err)
	}
	q := s.RequestsTo("/api/people/add")[0].Query
	if q.Get("first") != "Ann" || q.Get("last") != "Lee" || q.Get("fields_json") == "" {
		t.Fatalf("query = %v", q)
	}

	if _, err := c.UpdatePerson(t.Context(), 77, `[]`); err != nil {
		t.Fatalf("UpdatePerson() failed: %v", err)
	}
	if q := s.RequestsTo("/api/people/update")[0].Query; q.Get("person_id") != "77" {
		t.Fatalf("query = %v", q)
	}
}
