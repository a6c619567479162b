package hierarchy

import "errors"

// ErrMissingParameter indicates a toggle called without a mode.
var ErrMissingParameter = errors.New("hierarchy: missing required parameter")

// Toggle is an explicit on/off argument. The zero value means the caller
// gave none.
type Toggle int

const (
	ToggleUnset Toggle = iota
	ToggleOn
	ToggleOff
)

func ToggleOf(on bool) Toggle {
	if on {
		return ToggleOn
	}
	return ToggleOff
}

// Status reports the outcome of a state command.
type Status int

const (
	Selected Status = iota + 1
	AlreadySelected
	Deselected
	NotSelected
	Shown
	Hidden
	Updated
)

func (s Status) String() string {
	switch s {
	case Selected:
		return "selected"
	case AlreadySelected:
		return "already selected"
	case Deselected:
		return "deselected"
	case NotSelected:
		return "not selected"
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}
