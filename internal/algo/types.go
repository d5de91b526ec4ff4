package algo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by Parse and Run for names or values that
// do not denote an algorithm.
var ErrUnknownAlgorithm = errors.New("algo: unknown algorithm")

type Algorithm int

const (
	LinearSearch Algorithm = iota
	BinarySearch
	Bubble
	Insertion
	Merge
	Quick
)

var algorithmNames = []string{"linear", "binary", "bubble", "insertion", "merge", "quick"}

var algorithmInfo = map[Algorithm]string{
	LinearSearch: "scan left to right, O(n)",
	BinarySearch: "halve a sorted range, O(log n)",
	Bubble:       "swap adjacent pairs, O(n^2)",
	Insertion:    "sink each element into the sorted prefix, O(n^2)",
	Merge:        "stable split and merge, O(n log n)",
	Quick:        "Lomuto partition around the last element, O(n log n) average",
}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Describe returns a one-line summary of the algorithm.
func (a Algorithm) Describe() string {
	return algorithmInfo[a]
}

func (a Algorithm) IsSearch() bool {
	return a == LinearSearch || a == BinarySearch
}

func (a Algorithm) Valid() bool {
	return a >= LinearSearch && a <= Quick
}

// Parse accepts the short names ("bubble") and the long forms
// ("bubble-sort", "linear_search").
func Parse(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "-", " ", "-").Replace(n)
	n = strings.TrimSuffix(strings.TrimSuffix(n, "-sort"), "-search")
	for i, s := range algorithmNames {
		if s == n {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
}

// All lists every algorithm, searches first.
func All() []Algorithm {
	return []Algorithm{LinearSearch, BinarySearch, Bubble, Insertion, Merge, Quick}
}

// Sorts lists the sorting algorithms.
func Sorts() []Algorithm {
	return []Algorithm{Bubble, Insertion, Merge, Quick}
}

// Role is the visual emphasis a renderer applies to a bar.
type Role int

const (
	RoleCompare Role = iota
	RolePivot
	RoleMid
	RoleFound
	RoleSorted
)

var roleNames = []string{"compare", "pivot", "mid", "found", "sorted"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// Roles lists every role.
func Roles() []Role {
	return []Role{RoleCompare, RolePivot, RoleMid, RoleFound, RoleSorted}
}

// Renderer reflects the array on screen. Calls are synchronous: the runner
// does not proceed until they return, so implementations must copy what they
// keep.
type Renderer interface {
	Render(index, value int)
	Highlight(indices []int, role Role, on bool)
}

// Finisher is implemented by renderers that want the final result.
type Finisher interface {
	Finish(res Result)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Render(int, int)             {}
func (NopRenderer) Highlight([]int, Role, bool) {}

type EventKind int

const (
	EventCompare EventKind = iota
	EventSwap
	EventWrite
	EventPivot
	EventMid
	EventFound
	EventSettled
)

var eventNames = []string{"compare", "swap", "write", "pivot", "mid", "found", "settled"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	for i, n := range eventNames {
		if n == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind: %s", s)
}

// Event records one algorithmic action. Value is set for writes and is the
// looked-up value for found events.
type Event struct {
	Seq     int       `json:"seq"`
	Kind    EventKind `json:"kind"`
	Indices []int     `json:"indices"`
	Value   int       `json:"value,omitempty"`
}

// Observer receives every event emitted during a run.
type Observer interface {
	OnStep(ev Event)
}

// Status is the lifecycle state of a run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
)

var statusNames = []string{"idle", "running", "completed", "cancelled"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, n := range statusNames {
		if n == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status: %s", s)
}

type Stats struct {
	Comparisons int   `json:"comparisons"`
	Swaps       int   `json:"swaps"`
	Writes      int   `json:"writes"`
	Steps       int   `json:"steps"`
	PassSwaps   []int `json:"pass_swaps,omitempty"`
}

// Result is what a run ends with. Index is the found position for searches
// and -1 otherwise.
type Result struct {
	Algorithm Algorithm `json:"algorithm"`
	Target    int       `json:"target,omitempty"`
	Index     int       `json:"index"`
	Status    Status    `json:"status"`
	Stats     Stats     `json:"stats"`
}

func (r Result) Found() bool {
	return r.Algorithm.IsSearch() && r.Index >= 0
}

func (a Algorithm) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EventKind) UnmarshalText(b []byte) error {
	v, err := ParseEventKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
