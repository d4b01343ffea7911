package catalog

import "errors"

var (
	// ErrSelectionCancelled indicates the caller chose 0 to abort.
	ErrSelectionCancelled = errors.New("catalog: selection cancelled")
	// ErrSelectionOutOfRange indicates the choice does not address a candidate.
	ErrSelectionOutOfRange = errors.New("catalog: selection out of range")
)

// Select picks a candidate by 1-based index. A choice of 0 cancels. All
// terminal interaction stays with the caller; this is the whole decision.
func Select(matches []Entry, choice int) (Entry, error) {
	if choice == 0 {
		return Entry{}, ErrSelectionCancelled
	}
	if choice < 0 || choice > len(matches) {
		return Entry{}, ErrSelectionOutOfRange
	}
	return matches[choice-1], nil
}
