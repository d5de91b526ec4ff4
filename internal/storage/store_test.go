package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/sortviz/internal/algo"
)

func sampleRecord() *Record {
	target := 4
	return &Record{
		Algorithm: "binary",
		Timestamp: time.Now(),
		Seed:      42,
		Size:      5,
		DelayMs:   100,
		Target:    &target,
		Status:    "completed",
		Index:     3,
		Initial:   []int{1, 2, 3, 4, 5},
		Final:     []int{1, 2, 3, 4, 5},
		Stats:     algo.Stats{Comparisons: 2, Steps: 4},
		Metrics:   map[string]float64{"comparisons": 2},
	}
}

func sampleTrace() Trace {
	return Trace{
		{Seq: 1, Kind: algo.EventMid, Indices: []int{2}},
		{Seq: 2, Kind: algo.EventCompare, Indices: []int{2}},
		{Seq: 3, Kind: algo.EventSwap, Indices: []int{0, 1}},
		{Seq: 4, Kind: algo.EventFound, Indices: []int{3}, Value: 4},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleRecord(), sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "binary_") {
		t.Errorf("expected generated id with algorithm prefix, got %q", runID)
	}

	rec, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Seed != 42 || rec.Index != 3 || rec.Target == nil || *rec.Target != 4 {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Metrics["comparisons"] != 2 {
		t.Errorf("expected comparisons 2, got %f", rec.Metrics["comparisons"])
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace) != 4 {
		t.Fatalf("expected 4 events, got %d", len(trace))
	}
	if trace[2].Kind != algo.EventSwap || len(trace[2].Indices) != 2 || trace[2].Indices[1] != 1 {
		t.Errorf("swap event lost shape: %+v", trace[2])
	}
	if trace[3].Value != 4 {
		t.Errorf("expected found value 4, got %d", trace[3].Value)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	older := sampleRecord()
	older.ID = "older"
	older.Timestamp = time.Now().Add(-time.Hour)
	newer := sampleRecord()
	newer.ID = "newer"
	for _, rec := range []*Record{older, newer} {
		if _, err := st.Save(rec, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "newer" {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrace("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	rec := sampleRecord()
	rec.ID = "fixed"

	runID, err := st.Save(rec, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "fixed" {
		t.Errorf("expected caller id to be kept, got %s", runID)
	}

	for _, name := range []string{metadataFile, traceFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	raw, _ := os.ReadFile(filepath.Join(tmpDir, runID, traceFile))
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "seq,kind,indices,value" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[3] != "3,swap,0;1,0" {
		t.Errorf("unexpected swap row %q", lines[3])
	}
}

func TestReadTraceCSVSkipsMalformedRows(t *testing.T) {
	in := "seq,kind,indices,value\n1,compare,0;1,0\nx,compare,0,0\n2,teleport,0,0\n3,write,2,17\n"
	trace, err := ReadTraceCSV(csv.NewReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(trace) != 2 || trace[1].Kind != algo.EventWrite || trace[1].Value != 17 {
		t.Errorf("unexpected trace %+v", trace)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, sampleRecord(), sampleTrace()); err != nil {
		t.Fatalf("export: %v", err)
	}

	var out struct {
		Algorithm string `json:"algorithm"`
		Steps     int    `json:"steps"`
		Trace     []struct {
			Kind string `json:"kind"`
		} `json:"trace"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Algorithm != "binary" || out.Steps != 4 || out.Trace[3].Kind != "found" {
		t.Errorf("unexpected export %+v", out)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.OnStep(algo.Event{Seq: 1, Kind: algo.EventCompare})
	got := r.Trace()
	r.OnStep(algo.Event{Seq: 2, Kind: algo.EventSwap})

	if len(got) != 1 || r.Len() != 2 {
		t.Errorf("trace copy aliased recorder: %d, %d", len(got), r.Len())
	}
	r.Reset()
	if r.Len() != 0 {
		t.Error("expected empty recorder after reset")
	}
}
