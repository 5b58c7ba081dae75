package normalize

// Option configures a single normalization call.
type Option func(*normalizer)

// WithIndex supplies a prebuilt schema index.
func WithIndex(ix *Index) Option {
	return func(n *normalizer) { n.index = ix }
}

// WithFieldGroups builds a fresh schema index from descriptors for this call.
// A nil or empty list leaves the call without schema context.
func WithFieldGroups(groups []FieldGroup) Option {
	return func(n *normalizer) {
		if len(groups) == 0 {
			n.index = nil
			return
		}
		n.index = BuildIndex(groups)
	}
}

// WithExtraActions accepts account-log action names beyond the built-in
// enumeration. Entries carrying them are normalized with the generic arm
// instead of failing.
func WithExtraActions(names ...string) Option {
	return func(n *normalizer) {
		if len(names) == 0 {
			return
		}
		if n.extraActions == nil {
			n.extraActions = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			n.extraActions[name] = struct{}{}
		}
	}
}
