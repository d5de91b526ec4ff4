package frame

import (
	"encoding/json"
	"testing"

	"github.com/san-kum/sortviz/internal/algo"
)

func TestBufferTracksRendersAndRoles(t *testing.T) {
	var frames []Frame
	b := NewBuffer(func(f Frame) { frames = append(frames, f) })

	b.Reset([]int{5, 6, 7})
	b.Render(1, 60)
	b.Highlight([]int{0, 2}, algo.RoleCompare, true)
	b.Highlight([]int{2}, algo.RoleFound, true)
	b.Highlight([]int{0}, algo.RoleCompare, false)
	b.Highlight([]int{9}, algo.RoleMid, true)

	f := b.Snapshot()
	if f.Values[1] != 60 {
		t.Errorf("expected value 60 at 1, got %d", f.Values[1])
	}
	if f.Roles[0].Has(algo.RoleCompare) {
		t.Error("compare role should be cleared at 0")
	}
	if !f.Roles[2].Has(algo.RoleCompare) || !f.Roles[2].Has(algo.RoleFound) {
		t.Errorf("expected compare+found at 2, got %b", f.Roles[2])
	}
	if top, ok := f.Roles[2].Top(); !ok || top != algo.RoleFound {
		t.Errorf("expected found on top, got %v", top)
	}
	if len(frames) != 6 {
		t.Errorf("expected 6 change notifications, got %d", len(frames))
	}
	if got := f.Marked(algo.RoleFound); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected found marked at [2], got %v", got)
	}
}

func TestBufferSnapshotIsCopy(t *testing.T) {
	b := NewBuffer(nil)
	b.Reset([]int{1, 2})
	f := b.Snapshot()
	f.Values[0] = 99
	f.Roles[0] = f.Roles[0].With(algo.RolePivot)

	g := b.Snapshot()
	if g.Values[0] != 1 || g.Roles[0] != 0 {
		t.Errorf("snapshot aliased buffer state: %+v", g)
	}
}

func TestBufferGrowsOnRender(t *testing.T) {
	b := NewBuffer(nil)
	b.Render(3, 8)
	f := b.Snapshot()
	if f.Len() != 4 || f.Values[3] != 8 || f.Max() != 8 {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestBufferFinish(t *testing.T) {
	b := NewBuffer(nil)
	b.Reset([]int{1})
	b.Finish(algo.Result{Algorithm: algo.LinearSearch, Index: 0, Status: algo.StatusCompleted})
	f := b.Snapshot()
	if f.Result == nil || f.Result.Index != 0 {
		t.Fatalf("expected result in frame, got %+v", f.Result)
	}
	b.Reset([]int{1})
	if b.Snapshot().Result != nil {
		t.Error("reset should clear the result")
	}
}

func TestRoleSetJSON(t *testing.T) {
	f := Frame{Values: []int{1, 2}, Roles: []RoleSet{0, RoleSet(0).With(algo.RoleCompare).With(algo.RoleFound)}}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"values":[1,2],"roles":[[],["compare","found"]]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Frame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Roles[1] != f.Roles[1] {
		t.Errorf("roles lost: %b", back.Roles[1])
	}
}
