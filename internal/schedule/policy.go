package schedule

import (
	"encoding"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("schedule: unknown policy")

// Policy selects where a scheduled note lands in the queue.
type Policy int

const (
	NotAdd            Policy = iota + 1 // Leave the note out of the queue.
	Head                                // Slot 0.
	FirstThird                          // Slot n/3.
	SecondThird                         // Slot 2n/3.
	End                                 // Slot n.
	Random                              // Uniform over [0, n].
	RandomFirstThird                    // Uniform over [0, n/3].
	RandomSecondThird                   // Uniform over [n/3, 2n/3].
	RandomThirdThird                    // Uniform over [2n/3, n].
)

var (
	policyNames = [...]string{
		NotAdd:            "not-add",
		Head:              "head",
		FirstThird:        "first-third",
		SecondThird:       "second-third",
		End:               "end",
		Random:            "random",
		RandomFirstThird:  "random-first-third",
		RandomSecondThird: "random-second-third",
		RandomThirdThird:  "random-third-third",
	}
	policyByName = func() map[string]Policy {
		m := make(map[string]Policy, len(policyNames))
		for p := NotAdd; p <= RandomThirdThird; p++ {
			m[policyNames[p]] = p
		}
		return m
	}()
)

var (
	_ fmt.Stringer             = Policy(0)
	_ encoding.TextMarshaler   = Policy(0)
	_ encoding.TextUnmarshaler = (*Policy)(nil)
)

// Policies lists every valid policy in declaration order.
func Policies() []Policy {
	out := make([]Policy, 0, len(policyNames)-1)
	for p := NotAdd; p <= RandomThirdThird; p++ {
		out = append(out, p)
	}
	return out
}

// IsValid reports whether p is one of the declared policies.
func (p Policy) IsValid() bool {
	return p >= NotAdd && p <= RandomThirdThird
}

// IsRandom reports whether the policy draws its slot at random.
func (p Policy) IsRandom() bool {
	switch p {
	case Random, RandomFirstThird, RandomSecondThird, RandomThirdThird:
		return true
	}
	return false
}

// String returns the kebab-case policy name, or "Policy(n)" for invalid values.
func (p Policy) String() string {
	if p.IsValid() {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts kebab-case, snake_case, or the legacy numeric codes 1-9.
func ParsePolicy(value string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "_", "-")
	if p, ok := policyByName[key]; ok {
		return p, nil
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return Policy(key[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, value)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(policyNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
