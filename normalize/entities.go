package normalize

import "github.com/breeze-go/breeze/coerce"

// Kind names an entity shape returned by the service.
type Kind int

const (
	KindPerson Kind = iota + 1
	KindPersonDetails
	KindFamilyMember
	KindEmail
	KindPhone
	KindAddress
	KindProfileFieldGroup
	KindProfileField
	KindFieldOption
	KindEvent
	KindEventDetails
	KindCalendar
	KindLocation
	KindAttendance
	KindFund
	KindContribution
	KindBatch
	KindCampaign
	KindPledge
	KindTag
	KindTagFolder
	KindForm
	KindFormField
	KindFormEntry
	KindFormEntryResponse
	KindVolunteer
	KindVolunteerRole
	KindAccountSummary
	KindAccountLog
)

var kindNames = map[Kind]string{
	KindPerson:            "person",
	KindPersonDetails:     "person_details",
	KindFamilyMember:      "family_member",
	KindEmail:             "email",
	KindPhone:             "phone",
	KindAddress:           "address",
	KindProfileFieldGroup: "profile_field_group",
	KindProfileField:      "profile_field",
	KindFieldOption:       "field_option",
	KindEvent:             "event",
	KindEventDetails:      "event_details",
	KindCalendar:          "calendar",
	KindLocation:          "location",
	KindAttendance:        "attendance",
	KindFund:              "fund",
	KindContribution:      "contribution",
	KindBatch:             "batch",
	KindCampaign:          "campaign",
	KindPledge:            "pledge",
	KindTag:               "tag",
	KindTagFolder:         "tag_folder",
	KindForm:              "form",
	KindFormField:         "form_field",
	KindFormEntry:         "form_entry",
	KindFormEntryResponse: "form_entry_response",
	KindVolunteer:         "volunteer",
	KindVolunteerRole:     "volunteer_role",
	KindAccountSummary:    "account_summary",
	KindAccountLog:        "account_log",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind looks a kind up by its String form.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Kinds lists every entity kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := KindPerson; k <= KindAccountLog; k++ {
		out = append(out, k)
	}
	return out
}

var eventDetailFlags = []string{
	"input_all_day",
	"input_event_repeats",
	"check_in_print",
	"check_in_print_parent",
	"check_in_print_additional_name_tag",
	"check_out",
	"by_family",
	"add_person_fields",
	"show_tag_name_on_check_in",
	"is_locked",
	"password_for_settings",
	"enable_thumbnail",
}

// Kinds missing from this table are normalized generically. KindPersonDetails,
// KindFormEntryResponse and KindAccountLog are routed by code, not tables.
var ruleTables = map[Kind]Rules{
	KindPerson: {
		"family":  entityListRule(KindFamilyMember),
		"details": entityRule(KindPersonDetails),
	},
	KindEmail: {
		"is_primary": boolRule,
		"allow_bulk": boolRule,
		"is_private": boolRule,
		"address":    rawRule,
	},
	KindPhone: {
		"do_not_text":  boolRule,
		"is_private":   boolRule,
		"phone_home":   rawRule,
		"phone_work":   rawRule,
		"phone_mobile": rawRule,
	},
	KindAddress: {
		"is_primary":       boolRule,
		"is_private":       boolRule,
		"street_address":   rawRule,
		"street_address_2": rawRule,
		"city":             rawRule,
		"state":            rawRule,
		"zip":              rawRule,
	},
	KindProfileFieldGroup: {
		"fields": entityListRule(KindProfileField),
	},
	KindProfileField: {
		"options": entityListRule(KindFieldOption),
	},
	KindEvent: {
		"details":      entityRule(KindEventDetails),
		"is_modified":  boolRule,
		"details_json": {Kind: RuleJSON, Entity: KindEventDetails},
	},
	KindEventDetails: eventDetailsRules(),
	KindAttendance: {
		"details": {Kind: RuleEntity, Entity: KindPerson, WithoutSchema: true},
	},
	KindFund: {
		"tax_deductible": boolRule,
		"is_default":     boolRule,
		"archived":       boolRule,
	},
	KindContribution: {
		"funds":  entityListRule(KindFund),
		"person": {Kind: RuleEntity, Entity: KindPerson, WithoutSchema: true},
	},
	KindBatch: {
		"payments": entityListRule(KindContribution),
	},
	KindPledge: {
		"fund_ids_json":  jsonRule,
		"include_family": boolRule,
	},
	KindForm: {
		"is_archived": boolRule,
	},
	KindFormField: {
		"options": entityListRule(KindFieldOption),
	},
	KindFormEntry: {
		"response": entityRule(KindFormEntryResponse),
	},
	KindVolunteer: {
		"role_ids": {Kind: RuleIDList},
	},
}

func eventDetailsRules() Rules {
	r := Rules{
		"selected_fields_json": jsonRule,
		"location_ids_json":    jsonRule,
	}
	for _, k := range eventDetailFlags {
		r[k] = boolRule
	}
	return r
}

// normalizer carries the per-call context threaded through one normalization
// pass. It is never shared between calls.
type normalizer struct {
	index        *Index
	extraActions map[string]struct{}
}

func newNormalizer(opts []Option) *normalizer {
	n := &normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *normalizer) withoutIndex() *normalizer {
	if n.index == nil {
		return n
	}
	cp := *n
	cp.index = nil
	return &cp
}

// entity normalizes v as kind. Lists are normalized element-wise.
func (n *normalizer) entity(kind Kind, v any) any {
	if kind == KindPerson {
		v = unwrapPeople(v)
	}
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = n.entity(kind, e)
		}
		return out
	case map[string]any:
		switch kind {
		case KindPersonDetails:
			return n.personDetails(t)
		case KindFormEntryResponse:
			return n.formEntryResponse(t)
		}
		return Walk(t, n.override(kind))
	}
	return Walk(v, nil)
}

// unwrapPeople handles person listings that arrive as index-keyed maps,
// optionally with a "search_fields" sibling echoing the filter. The sibling
// is dropped only when the rest of the map is such a listing.
func unwrapPeople(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if _, ok := m["search_fields"]; !ok {
		return unwrapIndexed(m)
	}
	rest := make(map[string]any, len(m)-1)
	for k, e := range m {
		if k != "search_fields" {
			rest[k] = e
		}
	}
	if len(rest) == 0 {
		return []any{}
	}
	if list, ok := unwrapIndexed(rest).([]any); ok {
		return list
	}
	return m
}

func (n *normalizer) personDetails(details map[string]any) any {
	if n.index == nil {
		return Walk(details, nil)
	}
	return Walk(details, func(key string, v any) (any, bool) {
		c, ok := n.index.Category(key)
		if !ok {
			return nil, false
		}
		switch c {
		case CategoryEmail:
			return n.entity(KindEmail, v), true
		case CategoryPhone:
			return n.entity(KindPhone, v), true
		case CategoryAddress:
			return n.entity(KindAddress, v), true
		case CategoryDate, CategoryBirthdate:
			return scalarOr(v, coerce.Date), true
		}
		return nil, false
	})
}

func (n *normalizer) formEntryResponse(resp map[string]any) any {
	return Walk(resp, func(key string, v any) (any, bool) {
		if n.index.Has(CategoryDate, key) || n.index.Has(CategoryBirthdate, key) {
			return scalarOr(v, coerce.Date), true
		}
		return nil, false
	})
}

// Entity normalizes raw as kind. Only KindAccountLog can fail; see AccountLog.
func Entity(kind Kind, raw any, opts ...Option) (any, error) {
	n := newNormalizer(opts)
	if kind == KindAccountLog {
		return n.accountLogs(raw)
	}
	return n.entity(kind, raw), nil
}

func normalizeAs(kind Kind, raw any, opts []Option) any {
	return newNormalizer(opts).entity(kind, raw)
}

// Person normalizes a person, or a listing of people. With WithIndex or
// WithFieldGroups the details map is routed through the profile schema;
// without one details are coerced generically.
func Person(raw any, opts ...Option) any { return normalizeAs(KindPerson, raw, opts) }

// PersonDetails normalizes a person's details map against the profile schema.
func PersonDetails(raw any, opts ...Option) any { return normalizeAs(KindPersonDetails, raw, opts) }

func FamilyMember(raw any) any { return normalizeAs(KindFamilyMember, raw, nil) }

// ProfileFields normalizes the profile-field listing (sections of fields).
func ProfileFields(raw any) any {
	return normalizeAs(KindProfileFieldGroup, unwrapIndexed(raw), nil)
}

func Event(raw any) any        { return normalizeAs(KindEvent, raw, nil) }
func EventDetails(raw any) any { return normalizeAs(KindEventDetails, raw, nil) }
func Calendar(raw any) any     { return normalizeAs(KindCalendar, raw, nil) }
func Location(raw any) any     { return normalizeAs(KindLocation, raw, nil) }
func Attendance(raw any) any   { return normalizeAs(KindAttendance, raw, nil) }

func Fund(raw any) any         { return normalizeAs(KindFund, raw, nil) }
func Contribution(raw any) any { return normalizeAs(KindContribution, raw, nil) }
func Campaign(raw any) any     { return normalizeAs(KindCampaign, raw, nil) }
func Pledge(raw any) any       { return normalizeAs(KindPledge, raw, nil) }

func Tag(raw any) any       { return normalizeAs(KindTag, raw, nil) }
func TagFolder(raw any) any { return normalizeAs(KindTagFolder, raw, nil) }

func Form(raw any) any      { return normalizeAs(KindForm, raw, nil) }
func FormField(raw any) any { return normalizeAs(KindFormField, raw, nil) }

// FormEntry normalizes a form entry. Pass the form's fields (WithFieldGroups
// over FormFieldsFrom) to have date answers parsed.
func FormEntry(raw any, opts ...Option) any { return normalizeAs(KindFormEntry, raw, opts) }

// FormEntryResponse normalizes the response map of a form entry. Keys are
// kept as the original field ids.
func FormEntryResponse(raw any, opts ...Option) any {
	return normalizeAs(KindFormEntryResponse, raw, opts)
}

func Volunteer(raw any) any      { return normalizeAs(KindVolunteer, raw, nil) }
func VolunteerRole(raw any) any  { return normalizeAs(KindVolunteerRole, raw, nil) }
func AccountSummary(raw any) any { return normalizeAs(KindAccountSummary, raw, nil) }
