package scoring

import (
	"encoding"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidOutcome is returned when an outcome name or code is not recognised.
var ErrInvalidOutcome = errors.New("scoring: invalid outcome")

// Outcome is the result of a single review.
type Outcome int

const (
	Fail Outcome = iota + 1 // Not recalled.
	Hard                    // Recalled with significant difficulty.
	Good                    // Recalled with some effort.
	Easy                    // Recalled effortlessly.
)

var (
	outcomeNames  = [...]string{Fail: "fail", Hard: "hard", Good: "good", Easy: "easy"}
	outcomeByName = map[string]Outcome{
		"fail":  Fail,
		"again": Fail,
		"hard":  Hard,
		"good":  Good,
		"easy":  Easy,
	}
)

var (
	_ fmt.Stringer             = Outcome(0)
	_ encoding.TextMarshaler   = Outcome(0)
	_ encoding.TextUnmarshaler = (*Outcome)(nil)
)

// IsValid reports whether o is Fail through Easy.
func (o Outcome) IsValid() bool {
	return o >= Fail && o <= Easy
}

// Passed reports whether the review counts toward retention.
func (o Outcome) Passed() bool {
	return o.IsValid() && o != Fail
}

func (o Outcome) String() string {
	if o.IsValid() {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ParseOutcome accepts names (fail/again, hard, good, easy) or ease codes 1-4.
func ParseOutcome(value string) (Outcome, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if o, ok := outcomeByName[key]; ok {
		return o, nil
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '4' {
		return Outcome(key[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, value)
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ReviewEvent is one timed review.
type ReviewEvent struct {
	Outcome    Outcome   `json:"outcome"`
	DurationMS uint32    `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
