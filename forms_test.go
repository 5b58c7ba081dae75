package breeze

import (
	"testing"
	"time"
)

func TestListFormEntries_DateAnswers(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/forms/list_form_fields", `[
		{"id": "1", "field_id": "46", "field_type": "date", "name": "Visit date"},
		{"id": "2", "field_id": "47", "field_type": "single_line", "name": "Note"}
	]`)
	s.HandleJSON("/api/forms/list_form_entries", `[{
		"id": "11",
		"form_id": "3",
		"created_on": "2024-05-01 10:00:00",
		"response": {"46": "2015-05-24", "47": "2015"}
	}]`)

	entries, err := c.ListFormEntries(t.Context(), 3, true)
	if err != nil {
		t.Fatalf("ListFormEntries() failed: %v", err)
	}
	resp := entries[0]["response"].(map[string]any)
	if !resp["46"].(time.Time).Equal(time.Date(2015, 5, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date answer = %#v", resp["46"])
	}
	if resp["47"] != int64(2015) {
		t.Fatalf("untyped answer = %#v", resp["47"])
	}
	if q := s.RequestsTo("/api/forms/list_form_fields")[0].Query; q.Get("form_id") != "3" {
		t.Fatalf("query = %v", q)
	}
}

func TestListFormEntries_NoDetails(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/forms/list_form_entries", `[{"id": "11", "form_id": "3"}]`)

	entries, err := c.ListFormEntries(t.Context(), 3, false)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ListFormEntries() = %#v, %v", entries, err)
	}
	if n := len(s.RequestsTo("/api/forms/list_form_fields")); n != 0 {
		t.Fatalf("form fields fetched %d times", n)
	}
}

func TestFormsAndFields(t *testing.T) {
	c, s := newTestClient(t)
	s.HandleJSON("/api/forms/list_forms", `[{"id": "3", "name": "Visitor", "is_archived": "1"}]`)
	s.HandleJSON("/api/forms/list_form_fields", `[{"field_id": "46", "options": [{"option_id": "9", "name": "Yes"}]}]`)
	s.HandleJSON("/api/forms/remove_form_entry", `true`)

	forms, err := c.ListForms(t.Context(), true)
	if err != nil || forms[0]["is_archived"] != true {
		t.Fatalf("ListForms() = %#v, %v", forms, err)
	}
	if q := s.RequestsTo("/api/forms/list_forms")[0].Query; q.Get("is_archived") != "1" {
		t.Fatalf("query = %v", q)
	}

	fields, err := c.ListFormFields(t.Context(), 3)
	if err != nil {
		t.Fatalf("ListFormFields() failed: %v", err)
	}
	opt := fields[0]["options"].([]any)[0].(map[string]any)
	if opt["option_id"] != int64(9) {
		t.Fatalf("option = %#v", opt)
	}

	if got, err := c.RemoveFormEntry(t.Context(), 11); err != nil || got != true {
		t.Fatalf("RemoveFormEntry() = %#v, %v", got, err)
	}
}
