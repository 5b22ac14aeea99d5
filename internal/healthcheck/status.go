package healthcheck

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultStatus = "200-299"

// StatusRange is an inclusive range of HTTP status codes. A single code is
// a range with Low == High.
type StatusRange struct {
	Low  int
	High int
}

func (r StatusRange) Contains(code int) bool {
	return r.Low <= code && code <= r.High
}

// StatusClauseError reports one malformed clause of a status spec.
type StatusClauseError struct {
	Clause string
	Reason string
}

func (e *StatusClauseError) Error() string {
	return fmt.Sprintf("invalid status clause %q: %s", e.Clause, e.Reason)
}

// ParseStatus parses a comma-separated list of codes and low-high ranges.
// Malformed clauses are returned as errors and left out of the result; the
// remaining clauses are still usable.
func ParseStatus(spec string) ([]StatusRange, []error) {
	var (
		ranges []StatusRange
		errs   []error
	)

	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		r, err := parseClause(clause)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ranges = append(ranges, r)
	}

	return ranges, errs
}

func parseClause(clause string) (StatusRange, error) {
	if !strings.Contains(clause, "-") {
		code, err := strconv.Atoi(clause)
		if err != nil {
			return StatusRange{}, &StatusClauseError{Clause: clause, Reason: "not a number"}
		}
		return StatusRange{Low: code, High: code}, nil
	}

	parts := strings.Split(clause, "-")
	if len(parts) != 2 {
		return StatusRange{}, &StatusClauseError{Clause: clause, Reason: "more than one '-'"}
	}

	low, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return StatusRange{}, &StatusClauseError{Clause: clause, Reason: "lower bound is not a number"}
	}

	high, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return StatusRange{}, &StatusClauseError{Clause: clause, Reason: "upper bound is not a number"}
	}

	if low > high {
		return StatusRange{}, &StatusClauseError{Clause: clause, Reason: "lower bound exceeds upper bound"}
	}

	return StatusRange{Low: low, High: high}, nil
}

func anyContains(ranges []StatusRange, code int) bool {
	for _, r := range ranges {
		if r.Contains(code) {
			return true
		}
	}
	return false
}
