package array

import "fmt"

// Layout distinguishes narrow screens, where bars are drawn horizontally and
// fewer fit, from wide ones.
type Layout int

const (
	Expanded Layout = iota
	Compact
)

// CompactWidth is the widest terminal, in columns, still treated as compact.
const CompactWidth = 80

func (l Layout) MaxSize() int {
	if l == Compact {
		return 20
	}
	return 60
}

func (l Layout) String() string {
	if l == Compact {
		return "compact"
	}
	return "expanded"
}

// ParseLayout accepts "compact" or "expanded"; the empty string is expanded.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "expanded":
		return Expanded, nil
	case "compact":
		return Compact, nil
	}
	return Expanded, fmt.Errorf("unknown layout: %s", s)
}

// LayoutForWidth picks the layout for a terminal of the given width.
func LayoutForWidth(cols int) Layout {
	if cols > 0 && cols <= CompactWidth {
		return Compact
	}
	return Expanded
}

// Clamp bounds size to [1, maxSize].
func Clamp(size, maxSize int) int {
	if size > maxSize {
		size = maxSize
	}
	if size < 1 {
		size = 1
	}
	return size
}
