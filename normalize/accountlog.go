package normalize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/breeze-go/breeze/coerce"
)

// Tag-assignment payloads are stored as a JSON string holding another JSON
// string. Everything else is encoded once.
const (
	singleEncoded = 1
	doubleEncoded = 2
)

// EntryError locates a failed entry in a batch of account-log entries.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("account log entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// AccountLog normalizes a single account-log entry. The entry's action must
// be a built-in Action or a name passed through WithExtraActions; otherwise
// an *UnrecognizedActionError is returned and the entry is not normalized.
func AccountLog(raw any, opts ...Option) (any, error) {
	return newNormalizer(opts).accountLog(raw)
}

// AccountLogs normalizes a listing of account-log entries. Entries that fail
// are left out of the result and reported as *EntryError values joined into
// the returned error; the remaining entries are still returned.
func AccountLogs(raw any, opts ...Option) ([]any, error) {
	out, err := newNormalizer(opts).accountLogs(raw)
	list, _ := out.([]any)
	return list, err
}

// AccountLogDetails normalizes the details payload of an entry whose action
// is already known.
func AccountLogDetails(action Action, raw any) any {
	return newNormalizer(nil).logDetails(action, raw)
}

func (n *normalizer) accountLogs(raw any) (any, error) {
	list, ok := unwrapIndexed(raw).([]any)
	if !ok {
		return n.accountLog(raw)
	}
	out := make([]any, 0, len(list))
	var errs []error
	for i, e := range list {
		entry, err := n.accountLog(e)
		if err != nil {
			errs = append(errs, &EntryError{Index: i, Err: err})
			continue
		}
		out = append(out, entry)
	}
	return out, errors.Join(errs...)
}

func (n *normalizer) accountLog(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Walk(raw, nil), nil
	}
	var action Action
	if name, ok := m["action"]; ok {
		a, err := n.resolveAction(name)
		if err != nil {
			return nil, err
		}
		action = a
	}
	return Walk(m, func(key string, v any) (any, bool) {
		switch key {
		case "action":
			return action, true
		case "object_json":
			return objectJSON(action, v), true
		case "details":
			return n.logDetails(action, v), true
		}
		return nil, false
	}), nil
}

func parsesFor(action Action) int {
	if action.IsTagAssignment() {
		return doubleEncoded
	}
	return singleEncoded
}

func objectJSON(action Action, v any) any {
	decoded, ok := decodeEmbedded(v, parsesFor(action))
	if !ok {
		return v
	}
	return Walk(decoded, nil)
}

// logDetails picks the payload shape from the action. Payloads that cannot be
// decoded are returned untouched.
func (n *normalizer) logDetails(action Action, v any) any {
	decoded, ok := decodeEmbedded(v, parsesFor(action))
	if !ok {
		return v
	}
	if isEmpty(decoded) {
		return decoded
	}
	switch action {
	case ActionTagAssign, ActionTagUnassign:
		return tagIDs(decoded)
	case ActionContributionUpdated, ActionContributionDeleted:
		return n.entity(KindContribution, decoded)
	case ActionBatchDeleted:
		return n.entity(KindBatch, decoded)
	case ActionEventCreated, ActionEventUpdated:
		return n.entity(KindEvent, decoded)
	}
	return Walk(decoded, nil)
}

// tagIDs flattens a tag assignment payload to its non-empty ids.
func tagIDs(v any) any {
	var vals []any
	switch t := v.(type) {
	case map[string]any:
		vals = orderedValues(t)
	case []any:
		vals = t
	default:
		return Walk(v, nil)
	}
	out := make([]any, 0, len(vals))
	for _, e := range vals {
		if s, ok := e.(string); ok && s == "" {
			continue
		}
		out = append(out, scalarOr(e, coerce.ID))
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
