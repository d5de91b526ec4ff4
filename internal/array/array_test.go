package array

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range []int{1, 2, 17, 60} {
		m, err := Generate(rng, size, Options{Sorted: true})
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if m.Len() != size {
			t.Errorf("expected %d values, got %d", size, m.Len())
		}
		if !m.IsSorted() {
			t.Errorf("size %d: values not sorted: %v", size, m.Values())
		}
		for _, v := range m.Values() {
			if !DefaultRange().Contains(v) {
				t.Errorf("value %d outside default range", v)
			}
		}
	}
}

func TestGenerateRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, err := Generate(rng, 50, Options{Range: Range{Min: 3, Max: 5}})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, v := range m.Values() {
		if v < 3 || v > 5 {
			t.Errorf("value %d outside [3,5]", v)
		}
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name string
		size int
		max  int
	}{
		{"zero", 0, 60},
		{"negative", -3, 60},
		{"above expanded max", 61, 0},
		{"above compact max", 21, Compact.MaxSize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(rng, tt.size, Options{MaxSize: tt.max})
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("expected ErrInvalidSize, got %v", err)
			}
		})
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Generate(rng, 5, Options{Range: Range{Min: 10, Max: 2}})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSwapSetGet(t *testing.T) {
	m := FromValues([]int{4, 7, 1})

	if err := m.Swap(0, 2); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if err := m.Set(1, 9); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	want := []int{1, 9, 4}
	for i, w := range want {
		v, err := m.Get(i)
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		if v != w {
			t.Errorf("index %d: expected %d, got %d", i, w, v)
		}
	}
}

func TestIndexOutOfRange(t *testing.T) {
	m := FromValues([]int{1, 2})

	if err := m.Swap(0, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("swap: expected ErrIndexOutOfRange, got %v", err)
	}
	if err := m.Set(-1, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("set: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := m.Get(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("get: expected ErrIndexOutOfRange, got %v", err)
	}

	var ie *IndexError
	if err := m.Swap(5, 0); !errors.As(err, &ie) || ie.Index != 5 || ie.Size != 2 {
		t.Errorf("expected IndexError{Index:5,Size:2}, got %v", err)
	}

	if got := m.Values(); got[0] != 1 || got[1] != 2 {
		t.Errorf("failed swap must not mutate, got %v", got)
	}
}

func TestValuesIsCopy(t *testing.T) {
	src := []int{3, 2, 1}
	m := FromValues(src)
	src[0] = 100

	vals := m.Values()
	vals[1] = 200

	if v, _ := m.Get(0); v != 3 {
		t.Errorf("model aliased input slice")
	}
	if v, _ := m.Get(1); v != 2 {
		t.Errorf("model aliased Values result")
	}
}

func TestLayout(t *testing.T) {
	if Compact.MaxSize() != 20 || Expanded.MaxSize() != 60 {
		t.Errorf("unexpected layout maxima %d/%d", Compact.MaxSize(), Expanded.MaxSize())
	}
	if LayoutForWidth(80) != Compact {
		t.Error("80 columns should be compact")
	}
	if LayoutForWidth(120) != Expanded {
		t.Error("120 columns should be expanded")
	}
	if LayoutForWidth(0) != Expanded {
		t.Error("unknown width should be expanded")
	}
	if l, err := ParseLayout("compact"); err != nil || l != Compact {
		t.Errorf("parse compact: %v %v", l, err)
	}
	if _, err := ParseLayout("tiny"); err == nil {
		t.Error("expected error for unknown layout")
	}
	if Clamp(45, 20) != 20 || Clamp(0, 20) != 1 || Clamp(7, 20) != 7 {
		t.Error("clamp returned unexpected value")
	}
}
