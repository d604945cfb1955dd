// Package period generates consecutive date periods as {bop, eop} rows.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

const dateLayout = "2006-01-02"

var intervalPattern = regexp.MustCompile(`^(\d+)([dwmy])$`)

// Interval is a step of N days, weeks, months or years.
type Interval struct {
	N    int
	Unit byte
}

// ParseInterval parses forms such as "1d", "2w", "3m" or "1y".
func ParseInterval(s string) (Interval, error) {
	m := intervalPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(s)))
	if m == nil {
		return Interval{}, fmt.Errorf("%w: invalid interval %q", errs.ErrConfiguration, s)
	}
	n, _ := strconv.Atoi(m[1])
	if n == 0 {
		return Interval{}, fmt.Errorf("%w: interval %q must be positive", errs.ErrConfiguration, s)
	}
	return Interval{N: n, Unit: m[2][0]}, nil
}

// Step returns start advanced by k intervals. Months and years are added to
// start directly so day-of-month does not drift across steps.
func (i Interval) Step(start time.Time, k int) time.Time {
	switch i.Unit {
	case 'w':
		return start.AddDate(0, 0, 7*i.N*k)
	case 'm':
		return start.AddDate(0, i.N*k, 0)
	case 'y':
		return start.AddDate(i.N*k, 0, 0)
	default:
		return start.AddDate(0, 0, i.N*k)
	}
}

type Spec struct {
	Start    time.Time
	End      time.Time
	Interval Interval
	// Format is a strftime-style layout; empty keeps time.Time values.
	Format string
	// Closed makes eop the last day of the period instead of the next bop.
	Closed bool
}

// ParseSpec reads a period spec from strategy params.
func ParseSpec(p types.Params) (Spec, error) {
	var spec Spec
	var err error
	if spec.Start, err = parseDate(p, "start"); err != nil {
		return spec, err
	}
	if spec.End, err = parseDate(p, "end"); err != nil {
		return spec, err
	}
	if spec.End.Before(spec.Start) {
		return spec, fmt.Errorf("%w: period end %s is before start %s", errs.ErrConfiguration,
			spec.End.Format(dateLayout), spec.Start.Format(dateLayout))
	}
	if spec.Interval, err = ParseInterval(p.String("interval", "1d")); err != nil {
		return spec, err
	}
	spec.Format = p.String("string_format", "")
	spec.Closed = p.Bool("closed", false)
	return spec, nil
}

func parseDate(p types.Params, key string) (time.Time, error) {
	switch v := p[key].(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", errs.ErrConfiguration, key, v)
		}
		return t, nil
	case nil:
		return time.Time{}, fmt.Errorf("%w: period needs %q", errs.ErrConfiguration, key)
	default:
		return time.Time{}, fmt.Errorf("%w: %s has unsupported type %T", errs.ErrConfiguration, key, v)
	}
}

// Generate returns one row per period whose bop falls on or before End.
func Generate(spec Spec) *types.Table {
	out := types.NewTable("period", []string{"bop", "eop"})
	layout := ""
	if spec.Format != "" {
		layout = Layout(spec.Format)
	}
	for k := 0; ; k++ {
		bop := spec.Interval.Step(spec.Start, k)
		if bop.After(spec.End) {
			break
		}
		eop := spec.Interval.Step(spec.Start, k+1)
		if spec.Closed {
			eop = eop.AddDate(0, 0, -1)
		}
		if layout == "" {
			out.Append(types.Record{"bop": bop, "eop": eop})
		} else {
			out.Append(types.Record{"bop": bop.Format(layout), "eop": eop.Format(layout)})
		}
	}
	return out
}

var strftime = strings.NewReplacer(
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%b", "Jan",
	"%B", "January",
	"%a", "Mon",
	"%A", "Monday",
	"%%", "%",
)

// Layout converts a strftime format to a Go time layout. Strings without a
// % directive are assumed to already be Go layouts.
func Layout(format string) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return strftime.Replace(format)
}
