// Package frame keeps an immutable-snapshot view of what a renderer has been
// told: the bar values and the roles currently applied to each bar.
package frame

import (
	"encoding/json"
	"sync"

	"github.com/san-kum/sortviz/internal/algo"
)

// RoleSet is a bitmask of algo.Role values.
type RoleSet uint8

func (s RoleSet) Has(r algo.Role) bool { return s&(1<<uint(r)) != 0 }

func (s RoleSet) With(r algo.Role) RoleSet { return s | 1<<uint(r) }

func (s RoleSet) Without(r algo.Role) RoleSet { return s &^ (1 << uint(r)) }

// Top returns the most prominent role, in the order found, pivot, mid,
// compare, sorted.
func (s RoleSet) Top() (algo.Role, bool) {
	for _, r := range []algo.Role{algo.RoleFound, algo.RolePivot, algo.RoleMid, algo.RoleCompare, algo.RoleSorted} {
		if s.Has(r) {
			return r, true
		}
	}
	return 0, false
}

// Names lists the roles in the set in Role order.
func (s RoleSet) Names() []string {
	names := make([]string, 0)
	for _, r := range algo.Roles() {
		if s.Has(r) {
			names = append(names, r.String())
		}
	}
	return names
}

// MarshalJSON encodes the set as a list of role names.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	var out RoleSet
	for _, n := range names {
		for _, r := range algo.Roles() {
			if r.String() == n {
				out = out.With(r)
			}
		}
	}
	*s = out
	return nil
}

// Frame is a point-in-time copy of the visual state.
type Frame struct {
	Values []int        `json:"values"`
	Roles  []RoleSet    `json:"roles"`
	Result *algo.Result `json:"result,omitempty"`
}

func (f Frame) Len() int { return len(f.Values) }

// Max returns the largest value, or 0 for an empty frame.
func (f Frame) Max() int {
	m := 0
	for _, v := range f.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// Marked lists the indices carrying role.
func (f Frame) Marked(role algo.Role) []int {
	var out []int
	for i, s := range f.Roles {
		if s.Has(role) {
			out = append(out, i)
		}
	}
	return out
}

// Buffer implements algo.Renderer and records everything it is told. Every
// change is followed by a call to the optional onChange with a fresh
// snapshot, outside the lock.
type Buffer struct {
	mu       sync.Mutex
	values   []int
	roles    []RoleSet
	result   *algo.Result
	onChange func(Frame)
}

func NewBuffer(onChange func(Frame)) *Buffer {
	return &Buffer{onChange: onChange}
}

func (b *Buffer) Render(index, value int) {
	if index < 0 {
		return
	}
	b.update(func() {
		b.grow(index + 1)
		b.values[index] = value
	})
}

func (b *Buffer) Highlight(indices []int, role algo.Role, on bool) {
	b.update(func() {
		for _, i := range indices {
			if i < 0 || i >= len(b.roles) {
				continue
			}
			if on {
				b.roles[i] = b.roles[i].With(role)
			} else {
				b.roles[i] = b.roles[i].Without(role)
			}
		}
	})
}

// Reset replaces every bar and clears all roles and the last result.
func (b *Buffer) Reset(values []int) {
	b.update(func() {
		b.values = append(b.values[:0], values...)
		b.roles = make([]RoleSet, len(values))
		b.result = nil
	})
}

func (b *Buffer) Finish(res algo.Result) {
	b.update(func() {
		r := res
		b.result = &r
	})
}

func (b *Buffer) Snapshot() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Buffer) update(fn func()) {
	b.mu.Lock()
	fn()
	var f Frame
	if b.onChange != nil {
		f = b.snapshotLocked()
	}
	b.mu.Unlock()
	if b.onChange != nil {
		b.onChange(f)
	}
}

func (b *Buffer) grow(n int) {
	for len(b.values) < n {
		b.values = append(b.values, 0)
		b.roles = append(b.roles, 0)
	}
}

func (b *Buffer) snapshotLocked() Frame {
	f := Frame{
		Values: append([]int(nil), b.values...),
		Roles:  append([]RoleSet(nil), b.roles...),
	}
	if b.result != nil {
		r := *b.result
		f.Result = &r
	}
	return f
}
