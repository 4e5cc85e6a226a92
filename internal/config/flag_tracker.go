package config

// FlagTracker records which flags were explicitly set on the command line.
// It is read-only after construction and safe for concurrent readers.
type FlagTracker struct {
	flags map[string]bool
}

// NewFlagTrackerWithFlags creates a flag tracker from the explicit flag set
func NewFlagTrackerWithFlags(flags map[string]bool) *FlagTracker {
	// Copy so later changes to flags are not observed
	copiedFlags := make(map[string]bool, len(flags))
	for k, v := range flags {
		copiedFlags[k] = v
	}
	return &FlagTracker{
		flags: copiedFlags,
	}
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	return ft.flags[flagName]
}

// MergeString merges a string value
func (ft *FlagTracker) MergeString(base, override, flagName string) string {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeInt merges an int value
func (ft *FlagTracker) MergeInt(base, override int, flagName string) int {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeBool merges a bool value
func (ft *FlagTracker) MergeBool(base, override bool, flagName string) bool {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeBoolPtr merges a pointer bool, keeping base unless the flag was set
func (ft *FlagTracker) MergeBoolPtr(base, override *bool, flagName string) *bool {
	if ft.WasSet(flagName) && override != nil {
		return override
	}
	return base
}

// WasAnySet reports whether any of the named flags was explicitly set
func (ft *FlagTracker) WasAnySet(flagNames ...string) bool {
	for _, name := range flagNames {
		if ft.WasSet(name) {
			return true
		}
	}
	return false
}

// MergeStringSlice merges a string slice
func (ft *FlagTracker) MergeStringSlice(base, override []string, flagName string) []string {
	if ft.WasSet(flagName) && len(override) > 0 {
		return override
	}
	return base
}