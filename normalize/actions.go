package normalize

import (
	"errors"
	"fmt"
)

// Action is the kind of change an account-log entry records. Its value is the
// exact name the service uses.
type Action string

// Communications
const (
	ActionEmailSent Action = "email_sent"
	ActionTextSent  Action = "text_sent"
)

// Contributions
const (
	ActionContributionAdded         Action = "contribution_added"
	ActionContributionUpdated       Action = "contribution_updated"
	ActionContributionDeleted       Action = "contribution_deleted"
	ActionBulkContributionsDeleted  Action = "bulk_contributions_deleted"
	ActionEnvelopeCreated           Action = "envelope_created"
	ActionEnvelopeUpdated           Action = "envelope_updated"
	ActionEnvelopeDeleted           Action = "envelope_deleted"
	ActionPaymentMethodUpdated      Action = "payment_method_updated"
	ActionPaymentMethodDeleted      Action = "payment_method_deleted"
	ActionPaymentMethodCreated      Action = "payment_method_created"
	ActionBankAccountAdded          Action = "bank_account_added"
	ActionBankAccountUpdated        Action = "bank_account_updated"
	ActionTransferDayChanged        Action = "transfer_day_changed"
	ActionBankAccountDeleted        Action = "bank_account_deleted"
	ActionPaymentAssociationDeleted Action = "payment_association_deleted"
	ActionPaymentAssociationCreated Action = "payment_association_created"
	ActionBulkImportContributions   Action = "bulk_import_contributions"
	ActionBulkImportPledges         Action = "bulk_import_pledges"
	ActionBulkPledgesDeleted        Action = "bulk_pledges_deleted"
	ActionBatchUpdated              Action = "batch_updated"
	ActionBatchDeleted              Action = "batch_deleted"
	ActionBulkEnvelopesDeleted      Action = "bulk_envelopes_deleted"
)

// Events
const (
	ActionEventCreated          Action = "event_created"
	ActionEventUpdated          Action = "event_updated"
	ActionEventDeleted          Action = "event_deleted"
	ActionEventInstanceDeleted  Action = "event_instance_deleted"
	ActionEventFutureDeleted    Action = "event_future_deleted"
	ActionEventsCalendarCreated Action = "events_calendar_created"
	ActionEventsCalendarUpdated Action = "events_calendar_updated"
	ActionEventsCalendarDeleted Action = "events_calendar_deleted"
	ActionBulkImportAttendance  Action = "bulk_import_attendance"
	ActionAttendanceDeleted     Action = "attendance_deleted"
	ActionBulkAttendanceDeleted Action = "bulk_attendance_deleted"
)

// Volunteers
const (
	ActionVolunteerRoleCreated Action = "volunteer_role_created"
	ActionVolunteerRoleDeleted Action = "volunteer_role_deleted"
)

// People
const (
	ActionPersonCreated      Action = "person_created"
	ActionPersonUpdated      Action = "person_updated"
	ActionPersonDeleted      Action = "person_deleted"
	ActionPersonArchived     Action = "person_archived"
	ActionPersonMerged       Action = "person_merged"
	ActionPeopleUpdated      Action = "people_updated"
	ActionBulkUpdatePeople   Action = "bulk_update_people"
	ActionBulkPeopleDeleted  Action = "bulk_people_deleted"
	ActionBulkPeopleArchived Action = "bulk_people_archived"
	ActionBulkImportPeople   Action = "bulk_import_people"
	ActionBulkNotesDeleted   Action = "bulk_notes_deleted"
)

// Tags
const (
	ActionTagCreated       Action = "tag_created"
	ActionTagUpdated       Action = "tag_updated"
	ActionTagDeleted       Action = "tag_deleted"
	ActionBulkTagsDeleted  Action = "bulk_tags_deleted"
	ActionTagFolderCreated Action = "tag_folder_created"
	ActionTagFolderUpdated Action = "tag_folder_updated"
	ActionTagFolderDeleted Action = "tag_folder_deleted"
	ActionTagAssign        Action = "tag_assign"
	ActionTagUnassign      Action = "tag_unassign"
)

// Forms
const (
	ActionFormCreated      Action = "form_created"
	ActionFormUpdated      Action = "form_updated"
	ActionFormDeleted      Action = "form_deleted"
	ActionFormEntryUpdated Action = "form_entry_updated"
	ActionFormEntryDeleted Action = "form_entry_deleted"
)

// Follow ups
const (
	ActionFollowupOptionCreated Action = "followup_option_created"
	ActionFollowupOptionUpdated Action = "followup_option_updated"
	ActionFollowupOptionDeleted Action = "followup_option_deleted"
)

// Users
const (
	ActionUserCreated Action = "user_created"
	ActionUserUpdated Action = "user_updated"
	ActionUserDeleted Action = "user_deleted"
	ActionRoleCreated Action = "role_created"
	ActionRoleUpdated Action = "role_updated"
	ActionRoleDeleted Action = "role_deleted"
)

// Extensions and account
const (
	ActionExtensionInstalled      Action = "extension_installed"
	ActionExtensionUninstalled    Action = "extension_uninstalled"
	ActionExtensionUpgraded       Action = "extension_upgraded"
	ActionExtensionDowngraded     Action = "extension_downgraded"
	ActionSubPaymentMethodUpdated Action = "sub_payment_method_updated"
)

var allActions = []Action{
	ActionEmailSent, ActionTextSent,

	ActionContributionAdded, ActionContributionUpdated, ActionContributionDeleted,
	ActionBulkContributionsDeleted, ActionEnvelopeCreated, ActionEnvelopeUpdated,
	ActionEnvelopeDeleted, ActionPaymentMethodUpdated, ActionPaymentMethodDeleted,
	ActionPaymentMethodCreated, ActionBankAccountAdded, ActionBankAccountUpdated,
	ActionTransferDayChanged, ActionBankAccountDeleted, ActionPaymentAssociationDeleted,
	ActionPaymentAssociationCreated, ActionBulkImportContributions, ActionBulkImportPledges,
	ActionBulkPledgesDeleted, ActionBatchUpdated, ActionBatchDeleted, ActionBulkEnvelopesDeleted,

	ActionEventCreated, ActionEventUpdated, ActionEventDeleted, ActionEventInstanceDeleted,
	ActionEventFutureDeleted, ActionEventsCalendarCreated, ActionEventsCalendarUpdated,
	ActionEventsCalendarDeleted, ActionBulkImportAttendance, ActionAttendanceDeleted,
	ActionBulkAttendanceDeleted,

	ActionVolunteerRoleCreated, ActionVolunteerRoleDeleted,

	ActionPersonCreated, ActionPersonUpdated, ActionPersonDeleted, ActionPersonArchived,
	ActionPersonMerged, ActionPeopleUpdated, ActionBulkUpdatePeople, ActionBulkPeopleDeleted,
	ActionBulkPeopleArchived, ActionBulkImportPeople, ActionBulkNotesDeleted,

	ActionTagCreated, ActionTagUpdated, ActionTagDeleted, ActionBulkTagsDeleted,
	ActionTagFolderCreated, ActionTagFolderUpdated, ActionTagFolderDeleted,
	ActionTagAssign, ActionTagUnassign,

	ActionFormCreated, ActionFormUpdated, ActionFormDeleted, ActionFormEntryUpdated,
	ActionFormEntryDeleted,

	ActionFollowupOptionCreated, ActionFollowupOptionUpdated, ActionFollowupOptionDeleted,

	ActionUserCreated, ActionUserUpdated, ActionUserDeleted,
	ActionRoleCreated, ActionRoleUpdated, ActionRoleDeleted,

	ActionExtensionInstalled, ActionExtensionUninstalled, ActionExtensionUpgraded,
	ActionExtensionDowngraded, ActionSubPaymentMethodUpdated,
}

var knownActions = func() map[string]Action {
	m := make(map[string]Action, len(allActions))
	for _, a := range allActions {
		m[string(a)] = a
	}
	return m
}()

// Actions returns every built-in action in declaration order.
func Actions() []Action {
	out := make([]Action, len(allActions))
	copy(out, allActions)
	return out
}

// Known reports whether a is part of the built-in enumeration.
func (a Action) Known() bool {
	_, ok := knownActions[string(a)]
	return ok
}

func (a Action) String() string { return string(a) }

// IsTagAssignment reports whether entries of this action carry double-encoded
// payloads.
func (a Action) IsTagAssignment() bool {
	return a == ActionTagAssign || a == ActionTagUnassign
}

// ErrUnrecognizedAction is matched by every *UnrecognizedActionError.
var ErrUnrecognizedAction = errors.New("unrecognized account log action")

// UnrecognizedActionError reports an action name outside the enumeration.
type UnrecognizedActionError struct {
	Name string
}

func (e *UnrecognizedActionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnrecognizedAction, e.Name)
}

func (e *UnrecognizedActionError) Is(target error) bool {
	return target == ErrUnrecognizedAction
}

// ParseAction resolves name by exact match against the built-in enumeration.
func ParseAction(name string) (Action, error) {
	if a, ok := knownActions[name]; ok {
		return a, nil
	}
	return "", &UnrecognizedActionError{Name: name}
}

func (n *normalizer) resolveAction(v any) (Action, error) {
	name, ok := v.(string)
	if !ok {
		return "", &UnrecognizedActionError{Name: fmt.Sprint(v)}
	}
	if a, err := ParseAction(name); err == nil {
		return a, nil
	}
	if _, ok := n.extraActions[name]; ok {
		return Action(name), nil
	}
	return "", &UnrecognizedActionError{Name: name}
}
