package normalize

import (
	"encoding/json"
	"strconv"
)

// Category is a field_type value that changes how a dynamic field is read.
type Category string

const (
	CategoryEmail     Category = "email"
	CategoryPhone     Category = "phone"
	CategoryAddress   Category = "address"
	CategoryDate      Category = "date"
	CategoryBirthdate Category = "birthdate"
)

var indexedCategories = map[Category]struct{}{
	CategoryEmail:     {},
	CategoryPhone:     {},
	CategoryAddress:   {},
	CategoryDate:      {},
	CategoryBirthdate: {},
}

// FieldDescriptor is one custom profile or form field as described by the
// organization's schema listing.
type FieldDescriptor struct {
	FieldID   string `json:"field_id"`
	FieldType string `json:"field_type"`
}

// FieldGroup is a profile section (or, for forms, the whole form) holding
// field descriptors.
type FieldGroup struct {
	Fields []FieldDescriptor `json:"fields"`
}

// Index maps a category to the field ids declared with that field_type.
// A nil *Index is valid and contains nothing.
type Index struct {
	sets map[Category]map[string]struct{}
}

// BuildIndex files every descriptor that has both an id and a type under its
// category. Types outside the indexed categories are ignored.
func BuildIndex(groups []FieldGroup) *Index {
	ix := &Index{sets: make(map[Category]map[string]struct{})}
	for _, g := range groups {
		for _, f := range g.Fields {
			if f.FieldID == "" || f.FieldType == "" {
				continue
			}
			c := Category(f.FieldType)
			if _, ok := indexedCategories[c]; !ok {
				continue
			}
			set, ok := ix.sets[c]
			if !ok {
				set = make(map[string]struct{})
				ix.sets[c] = set
			}
			set[f.FieldID] = struct{}{}
		}
	}
	return ix
}

// Has reports whether id was declared with category c.
func (ix *Index) Has(c Category, id string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.sets[c][id]
	return ok
}

// Category returns the category id belongs to, if any.
func (ix *Index) Category(id string) (Category, bool) {
	if ix == nil {
		return "", false
	}
	for c, set := range ix.sets {
		if _, ok := set[id]; ok {
			return c, true
		}
	}
	return "", false
}

// Len returns the number of indexed field ids.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	n := 0
	for _, set := range ix.sets {
		n += len(set)
	}
	return n
}

// FieldGroupsFrom extracts descriptors from a profile-field listing: a list
// of sections, each with a "fields" list. It accepts raw or normalized trees.
func FieldGroupsFrom(v any) []FieldGroup {
	list, ok := unwrapIndexed(v).([]any)
	if !ok {
		return nil
	}
	groups := make([]FieldGroup, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		groups = append(groups, FieldGroup{Fields: descriptors(m["fields"])})
	}
	return groups
}

// FormFieldsFrom extracts descriptors from a flat form-field listing and
// returns them as a single group.
func FormFieldsFrom(v any) []FieldGroup {
	fields := descriptors(v)
	if len(fields) == 0 {
		return nil
	}
	return []FieldGroup{{Fields: fields}}
}

func descriptors(v any) []FieldDescriptor {
	list, ok := unwrapIndexed(v).([]any)
	if !ok {
		return nil
	}
	out := make([]FieldDescriptor, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, FieldDescriptor{
			FieldID:   idString(m["field_id"]),
			FieldType: idString(m["field_type"]),
		})
	}
	return out
}

// idString renders an id that may already have been coerced to a number.
func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
