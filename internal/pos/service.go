package pos

import (
	"fmt"
	"time"

	"pos-report/internal/config"
	"pos-report/internal/models"
)

// Window is a named meal period covering [Start, End) on the time of day.
type Window struct {
	Name  string
	Start time.Duration
	End   time.Duration
}

// Windows is checked in order; the first match wins. Gaps between
// windows are allowed.
type Windows []Window

func NewWindows(cfg []config.ServiceWindow) (Windows, error) {
	windows := make(Windows, 0, len(cfg))
	for _, c := range cfg {
		start, err := config.ParseClock(c.Start)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", c.Name, err)
		}
		end, err := config.ParseClock(c.End)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", c.Name, err)
		}
		windows = append(windows, Window{Name: c.Name, Start: start, End: end})
	}
	return windows, nil
}

// Assign returns the service whose window contains t's time of day, or
// models.UndefinedService.
func (ws Windows) Assign(t time.Time) string {
	offset := timeOfDay(t)
	for _, w := range ws {
		if w.Start <= offset && offset < w.End {
			return w.Name
		}
	}
	return models.UndefinedService
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
