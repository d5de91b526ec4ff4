package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/sortviz/internal/algo"
)

var traceHeader = []string{"seq", "kind", "indices", "value"}

type ExportData struct {
	Record
	Steps int   `json:"steps"`
	Trace Trace `json:"trace"`
}

// ExportJSON writes rec with its full trace as indented JSON.
func ExportJSON(w io.Writer, rec *Record, trace Trace) error {
	data := ExportData{Record: *rec, Steps: len(trace), Trace: trace}
	if data.Trace == nil {
		data.Trace = Trace{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteTraceCSV writes one row per event. Indices are joined with ';'.
func WriteTraceCSV(w io.Writer, trace Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, ev := range trace {
		idx := make([]string, len(ev.Indices))
		for i, v := range ev.Indices {
			idx[i] = strconv.Itoa(v)
		}
		row := []string{
			strconv.Itoa(ev.Seq),
			ev.Kind.String(),
			strings.Join(idx, ";"),
			strconv.Itoa(ev.Value),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTraceCSV parses what WriteTraceCSV wrote. Blank and malformed rows are
// skipped.
func ReadTraceCSV(r *csv.Reader) (Trace, error) {
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return Trace{}, nil
	}

	trace := make(Trace, 0, len(records)-1)
	for _, record := range records[1:] {
		ev, err := parseTraceRow(record)
		if err != nil {
			continue
		}
		trace = append(trace, ev)
	}
	return trace, nil
}

func parseTraceRow(record []string) (algo.Event, error) {
	if len(record) != len(traceHeader) {
		return algo.Event{}, fmt.Errorf("storage: trace row has %d fields", len(record))
	}
	seq, err := strconv.Atoi(record[0])
	if err != nil {
		return algo.Event{}, err
	}
	kind, err := algo.ParseEventKind(record[1])
	if err != nil {
		return algo.Event{}, err
	}
	var indices []int
	if record[2] != "" {
		for _, s := range strings.Split(record[2], ";") {
			v, err := strconv.Atoi(s)
			if err != nil {
				return algo.Event{}, err
			}
			indices = append(indices, v)
		}
	}
	value, err := strconv.Atoi(record[3])
	if err != nil {
		return algo.Event{}, err
	}
	return algo.Event{Seq: seq, Kind: kind, Indices: indices, Value: value}, nil
}
