package document

import (
	"fmt"
	"time"
)

// Period is an inclusive range of billing days.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates and normalises a date window to whole days.
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, fmt.Errorf("%w: both bounds are required", ErrInvalidRange)
	}

	p := Period{Start: DateOf(start), End: DateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRange,
			p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
	}

	return p, nil
}

// ParsePeriod parses two YYYY-MM-DD bounds.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start %q: %v", ErrInvalidRange, start, err)
	}

	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end %q: %v", ErrInvalidRange, end, err)
	}

	return NewPeriod(s, e)
}

// PreviousMonth returns the calendar month before the one containing now.
func PreviousMonth(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, -1, 0)

	return Period{Start: start, End: first.AddDate(0, 0, -1)}
}

// SetStart moves the start bound, keeping the period valid.
func (p *Period) SetStart(start time.Time) error {
	np, err := NewPeriod(start, p.End)
	if err != nil {
		return err
	}

	*p = np

	return nil
}

// SetEnd moves the end bound, keeping the period valid.
func (p *Period) SetEnd(end time.Time) error {
	np, err := NewPeriod(p.Start, end)
	if err != nil {
		return err
	}

	*p = np

	return nil
}

func (p Period) String() string {
	return p.Start.Format(time.DateOnly) + "_" + p.End.Format(time.DateOnly)
}
