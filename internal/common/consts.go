package common

// Shared string constants.
const (
	UnknownStr = "unknown"
	SelfStr    = "self"
)
