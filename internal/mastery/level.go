package mastery

import "fmt"

// Level is a character's proficiency tier in a skill.
type Level string

const (
	None      Level = "None"
	Trained   Level = "Trained"
	Expert    Level = "Expert"
	Master    Level = "Master"
	Legendary Level = "Legendary"
)

// levels lists every valid level in ascending order.
var levels = []Level{None, Trained, Expert, Master, Legendary}

// Levels returns all mastery levels, lowest first.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// ErrUnknownLevel is returned when a value is not one of the five levels.
type ErrUnknownLevel struct {
	Value string
}

func (e *ErrUnknownLevel) Error() string {
	return fmt.Sprintf("unknown mastery level %q", e.Value)
}

// Parse returns the Level named by s. Matching is exact.
func Parse(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", &ErrUnknownLevel{Value: s}
	}
	return l, nil
}

// Valid reports whether l is one of the enumerated levels.
func (l Level) Valid() bool {
	return l.Rank() >= 0
}

// Rank returns the position of l in the ordering, or -1 if unknown.
func (l Level) Rank() int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return -1
}

// Less reports whether l ranks below other.
func (l Level) Less(other Level) bool {
	return l.Rank() < other.Rank()
}

func (l Level) String() string {
	return string(l)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, &ErrUnknownLevel{Value: string(l)}
	}
	return []byte(l), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values are
// rejected so JSON bodies are validated at the boundary.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
