package analytics

import (
	"fmt"
	"time"
)

// Window is a bounded time range scoping an aggregation. Only calendar
// months are supported today; Start is inclusive, End exclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses the {type: "monthly", month: "YYYY-MM"} query pair.
func ParseWindow(windowType, month string) (Window, error) {
	if windowType != "monthly" {
		return Window{}, fmt.Errorf("unsupported window type %q", windowType)
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return Window{}, fmt.Errorf("invalid month %q: expected YYYY-MM", month)
	}
	return Window{
		Start: start.UTC(),
		End:   start.UTC().AddDate(0, 1, 0),
	}, nil
}

// Previous returns the month immediately before this one.
func (w Window) Previous() Window {
	return Window{
		Start: w.Start.AddDate(0, -1, 0),
		End:   w.Start,
	}
}

// IsZero reports an unset window (aggregate over all time).
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}
