// Package normalize turns decoded Breeze API payloads into well-typed trees.
//
// The service transmits almost every value as a string, nests JSON documents
// inside string fields, and sometimes returns lists as maps keyed "0".."n-1".
// Walk handles the generic case: each leaf is coerced by its key and shape
// using package coerce. The entity normalizers layer per-record rule tables
// on top of Walk for keys whose meaning cannot be guessed from the value,
// such as flags spelled "1"/"0" or phone numbers that must stay strings.
//
// Custom profile and form fields are keyed by opaque ids. Their types come
// from a separate schema listing; pass it with WithFieldGroups (or a prebuilt
// Index with WithIndex) so Person and FormEntry can route those fields. The
// index is built per call and never stored globally.
//
// Account-log entries are dispatched on their action. Actions form a closed
// set; an entry with an unrecognized action fails on its own with an
// *UnrecognizedActionError while the rest of a batch is still normalized.
//
// Inputs are never mutated. Every function returns a fresh tree.
package normalize
