package normalize

import (
	"sort"
	"strconv"

	"github.com/breeze-go/breeze/coerce"
	"github.com/breeze-go/breeze/internal/jsonx"
)

// RuleKind selects how a well-known key of an entity is normalized.
type RuleKind int

const (
	// RuleBool casts the value with coerce.Bool.
	RuleBool RuleKind = iota + 1
	// RuleDate casts the value with coerce.Date.
	RuleDate
	// RuleRaw keeps a scalar exactly as received (phone numbers, zip codes).
	RuleRaw
	// RuleJSON decodes an embedded JSON string. The result is normalized as
	// Rule.Entity when set, generically otherwise. Undecodable strings are
	// kept raw.
	RuleJSON
	// RuleIDList coerces every element of a list with coerce.ID.
	RuleIDList
	// RuleEntity normalizes the value as Rule.Entity.
	RuleEntity
	// RuleEntityList normalizes the value as a list of Rule.Entity,
	// unwrapping index-keyed maps first.
	RuleEntityList
)

// Rule is the handling for one key.
type Rule struct {
	Kind   RuleKind
	Entity Kind
	// WithoutSchema drops the schema index for the nested entity. Used for
	// people embedded in other records, whose details are not keyed by the
	// schema in hand.
	WithoutSchema bool
}

// Rules maps a key of an entity record to its handling. Keys without a rule
// get generic coercion.
type Rules map[string]Rule

var (
	boolRule = Rule{Kind: RuleBool}
	rawRule  = Rule{Kind: RuleRaw}
	jsonRule = Rule{Kind: RuleJSON}
)

func entityRule(k Kind) Rule     { return Rule{Kind: RuleEntity, Entity: k} }
func entityListRule(k Kind) Rule { return Rule{Kind: RuleEntityList, Entity: k} }

// RulesFor returns a copy of the rule table for kind.
func RulesFor(kind Kind) Rules {
	src := ruleTables[kind]
	out := make(Rules, len(src))
	for k, r := range src {
		out[k] = r
	}
	return out
}

func (n *normalizer) override(kind Kind) Override {
	rules := ruleTables[kind]
	if len(rules) == 0 {
		return nil
	}
	return func(key string, v any) (any, bool) {
		r, ok := rules[key]
		if !ok {
			return nil, false
		}
		return n.apply(r, v), true
	}
}

func (n *normalizer) apply(r Rule, v any) any {
	nn := n
	if r.WithoutSchema {
		nn = n.withoutIndex()
	}
	switch r.Kind {
	case RuleBool:
		return scalarOr(v, coerce.Bool)
	case RuleDate:
		return scalarOr(v, coerce.Date)
	case RuleRaw:
		return scalarOr(v, func(v any) any { return v })
	case RuleJSON:
		decoded, ok := decodeEmbedded(v, 1)
		if !ok {
			return v
		}
		if r.Entity != 0 {
			return nn.entity(r.Entity, decoded)
		}
		return Walk(decoded, nil)
	case RuleIDList:
		return idList(v)
	case RuleEntity:
		return nn.entity(r.Entity, v)
	case RuleEntityList:
		return nn.entity(r.Entity, unwrapIndexed(v))
	}
	return Walk(v, nil)
}

// scalarOr applies f to scalars and walks containers generically.
func scalarOr(v any, f func(any) any) any {
	switch v.(type) {
	case map[string]any, []any:
		return Walk(v, nil)
	}
	return f(v)
}

func idList(v any) any {
	switch t := unwrapIndexed(v).(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = scalarOr(e, coerce.ID)
		}
		return out
	case map[string]any:
		return Walk(t, nil)
	default:
		return coerce.ID(t)
	}
}

// decodeEmbedded parses a JSON document stored in a string field, at most
// maxParses times while the result is still a string. Non-strings are
// returned as-is. ok is false when a parse fails.
func decodeEmbedded(v any, maxParses int) (any, bool) {
	for i := 0; i < maxParses; i++ {
		s, isString := v.(string)
		if !isString {
			return v, true
		}
		decoded, err := jsonx.DecodeString(s)
		if err != nil {
			return nil, false
		}
		v = decoded
	}
	return v, true
}

// unwrapIndexed turns a map whose keys are exactly "0".."n-1" into a list in
// index order. Anything else is returned unchanged. The service emits such
// maps where a list was meant.
func unwrapIndexed(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return v
	}
	list := make([]any, len(m))
	for i := range list {
		e, ok := m[strconv.Itoa(i)]
		if !ok {
			return v
		}
		list[i] = e
	}
	return list
}

// orderedValues returns the values of m ordered by key, numerically when
// both keys are integers.
func orderedValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
