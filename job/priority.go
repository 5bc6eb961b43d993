package job

import (
	"fmt"

	"github.com/xraph/batch"
)

// Priority is the relative scheduling preference of a job. Levels are
// totally ordered by rank: Trivial < Low < Normal < High < Critical, so
// priorities compare with the ordinary integer operators.
type Priority uint8

const (
	Trivial Priority = iota
	Low
	Normal
	High
	Critical
)

var priorityNames = [...]string{
	Trivial:  "trivial",
	Low:      "low",
	Normal:   "normal",
	High:     "high",
	Critical: "critical",
}

// Priorities returns every level in ascending order.
func Priorities() []Priority {
	return []Priority{Trivial, Low, Normal, High, Critical}
}

// ParsePriority parses the lowercase text form of a priority. Matching is
// exact and case-sensitive; anything else fails with
// batch.ErrInvalidPriority.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if s == name {
			return Priority(p), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of trivial, low, normal, high, critical)", batch.ErrInvalidPriority, s)
}

// ParsePriorityOr parses s, falling back to def when s is not a valid
// priority. It suits values from external settings where a bad entry
// should not stop the program.
func ParsePriorityOr(s string, def Priority) Priority {
	p, err := ParsePriority(s)
	if err != nil {
		return def
	}
	return p
}

// Rank returns the position of p in the ordering, 0 for Trivial through 4
// for Critical.
func (p Priority) Rank() int { return int(p) }

// Valid reports whether p is one of the five declared levels.
func (p Priority) Valid() bool { return int(p) < len(priorityNames) }

func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
	return priorityNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: rank %d", batch.ErrInvalidPriority, uint8(p))
	}
	return []byte(priorityNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, which also lets env
// and flag parsers read priorities.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
