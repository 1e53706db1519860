package models

// Status is the lifecycle column a task sits in on the board.
type Status int

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusBlocked
	StatusDone
)

var statusTokens = [...]string{
	StatusTodo:       "TODO",
	StatusInProgress: "INPROGRESS",
	StatusBlocked:    "BLOCKED",
	StatusDone:       "DONE",
}

// String returns the canonical uppercase token stored in the database and sent over the wire.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusTokens) {
		return statusTokens[StatusTodo]
	}
	return statusTokens[s]
}

// ParseStatus maps a token back to its status. Unknown tokens fall back to StatusTodo.
func ParseStatus(token string) Status {
	for i, t := range statusTokens {
		if t == token {
			return Status(i)
		}
	}
	return StatusTodo
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
