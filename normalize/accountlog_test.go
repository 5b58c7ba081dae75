package normalize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// doubleEncode returns s as a JSON string literal, the way tag-assignment
// payloads are stored.
func doubleEncode(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestAccountLog_TagAssignDoubleDecoded(t *testing.T) {
	entry := map[string]any{
		"id":          "77",
		"action":      "tag_assign",
		"object_json": doubleEncode(t, `{"tag_id":"12"}`),
		"details":     doubleEncode(t, `{"0":"123","1":""}`),
		"created_on":  "2024-02-01 08:30:00",
	}

	got, err := AccountLog(entry)
	if err != nil {
		t.Fatalf("AccountLog: %v", err)
	}
	m := asMap(t, got)
	if !reflect.DeepEqual(m["details"], []any{int64(123)}) {
		t.Fatalf("details = %#v, want [123]", m["details"])
	}
	if m["action"] != ActionTagAssign {
		t.Fatalf("action = %#v", m["action"])
	}
	if obj := asMap(t, m["object_json"]); obj["tag_id"] != int64(12) {
		t.Fatalf("object_json = %#v", obj)
	}
	if m["id"] != int64(77) {
		t.Fatalf("id = %#v", m["id"])
	}
}

func TestAccountLog_TagIDsOrderedNumerically(t *testing.T) {
	got := AccountLogDetails(ActionTagUnassign, doubleEncode(t, `{"10":"3","2":"2","0":"1"}`))
	if !reflect.DeepEqual(got, []any{int64(1), int64(2), int64(3)}) {
		t.Fatalf("details = %#v", got)
	}
}

func TestAccountLog_ContributionDeleted(t *testing.T) {
	entry := decode(t, `{
		"action": "contribution_deleted",
		"details": "{\"id\":\"88\",\"amount\":\"25.00\",\"funds\":[{\"id\":\"3\",\"amount\":\"25.00\",\"is_default\":\"0\"}]}"
	}`)
	got, err := AccountLog(entry)
	if err != nil {
		t.Fatalf("AccountLog: %v", err)
	}
	details := asMap(t, asMap(t, got)["details"])
	if details["amount"] != 25.0 {
		t.Fatalf("amount = %#v", details["amount"])
	}
	fund := asMap(t, asList(t, details["funds"])[0])
	if fund["id"] != int64(3) || fund["is_default"] != false {
		t.Fatalf("fund = %#v", fund)
	}
}

func TestAccountLog_ContributionUpdatedList(t *testing.T) {
	got := AccountLogDetails(ActionContributionUpdated, `[{"id":"1","funds":[{"is_default":"1"}]},{"id":"2"}]`)
	list := asList(t, got)
	if len(list) != 2 {
		t.Fatalf("got %d contributions", len(list))
	}
	fund := asMap(t, asList(t, asMap(t, list[0])["funds"])[0])
	if fund["is_default"] != true {
		t.Fatalf("fund = %#v", fund)
	}
}

func TestAccountLog_BatchDeleted(t *testing.T) {
	got := asMap(t, AccountLogDetails(ActionBatchDeleted, `{"id":"4","name":"Jan","payments":[{"id":"5","funds":[{"tax_deductible":"1"}]}]}`))
	payment := asMap(t, asList(t, got["payments"])[0])
	fund := asMap(t, asList(t, payment["funds"])[0])
	if got["id"] != int64(4) || fund["tax_deductible"] != true {
		t.Fatalf("batch = %#v", got)
	}
}

func TestAccountLog_EventCreated(t *testing.T) {
	details := `{"id":"9","name":"Picnic","details_json":"{\"input_all_day\":\"1\",\"check_in_print\":\"0\"}"}`
	got := asMap(t, AccountLogDetails(ActionEventCreated, details))
	ed := asMap(t, got["details_json"])
	if ed["input_all_day"] != true || ed["check_in_print"] != false {
		t.Fatalf("details_json = %#v", ed)
	}
}

func TestAccountLog_DetailsEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		in     any
		want   any
	}{
		{"empty string", ActionPersonUpdated, "", ""},
		{"malformed json", ActionPersonUpdated, "{oops", "{oops"},
		{"falsy decoded", ActionContributionDeleted, "false", false},
		{"empty object", ActionContributionDeleted, "{}", map[string]any{}},
		{"empty tag list", ActionTagAssign, doubleEncode(t, `[]`), []any{}},
		{"generic", ActionPersonCreated, `{"person_id":"3","first_name":"Ann"}`, map[string]any{"person_id": int64(3), "first_name": "Ann"}},
		{"already decoded", ActionPersonCreated, map[string]any{"person_id": "3"}, map[string]any{"person_id": int64(3)}},
		{"tag list form", ActionTagAssign, doubleEncode(t, `["4",""]`), []any{int64(4)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AccountLogDetails(tc.action, tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("details = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestAccountLogs_UnknownActionIsolated(t *testing.T) {
	raw := decode(t, `[
		{"id": "1", "action": "person_created", "details": "{\"person_id\":\"3\"}"},
		{"id": "2", "action": "galaxy_exploded", "details": "{}"},
		{"id": "3", "action": "email_sent", "details": ""}
	]`)

	got, err := AccountLogs(raw)
	if err == nil {
		t.Fatalf("expected an error for the unknown action")
	}
	if !errors.Is(err, ErrUnrecognizedAction) {
		t.Fatalf("error does not match ErrUnrecognizedAction: %v", err)
	}
	var entryErr *EntryError
	if !errors.As(err, &entryErr) || entryErr.Index != 1 {
		t.Fatalf("entry error = %#v", entryErr)
	}
	var actionErr *UnrecognizedActionError
	if !errors.As(err, &actionErr) || actionErr.Name != "galaxy_exploded" {
		t.Fatalf("action error = %#v", actionErr)
	}

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if first := asMap(t, got[0]); first["action"] != ActionPersonCreated {
		t.Fatalf("first entry = %#v", first)
	}
	if last := asMap(t, got[1]); last["action"] != ActionEmailSent || last["id"] != int64(3) {
		t.Fatalf("last entry = %#v", last)
	}
}

func TestAccountLogs_ExtraActions(t *testing.T) {
	raw := decode(t, `{"0": {"action": "galaxy_exploded", "details": "{\"id\":\"4\"}"}}`)

	got, err := AccountLogs(raw, WithExtraActions("galaxy_exploded"))
	if err != nil {
		t.Fatalf("AccountLogs: %v", err)
	}
	entry := asMap(t, got[0])
	if entry["action"] != Action("galaxy_exploded") {
		t.Fatalf("action = %#v", entry["action"])
	}
	if asMap(t, entry["details"])["id"] != int64(4) {
		t.Fatalf("details = %#v", entry["details"])
	}
	if Action("galaxy_exploded").Known() {
		t.Fatalf("extra action leaked into the built-in set")
	}
}

func TestEntity_AccountLog(t *testing.T) {
	_, err := Entity(KindAccountLog, map[string]any{"action": "nope"})
	if !errors.Is(err, ErrUnrecognizedAction) {
		t.Fatalf("err = %v", err)
	}
	got, err := Entity(KindAccountLog, map[string]any{"action": "text_sent", "user_id": "2"})
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if asMap(t, got)["user_id"] != int64(2) {
		t.Fatalf("entry = %#v", got)
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := ParseAction("Tag_Assign"); !errors.Is(err, ErrUnrecognizedAction) {
		t.Fatalf("ParseAction is not an exact match: %v", err)
	}
	if !ActionTagAssign.IsTagAssignment() || ActionTagCreated.IsTagAssignment() {
		t.Fatalf("IsTagAssignment misclassified")
	}
}
