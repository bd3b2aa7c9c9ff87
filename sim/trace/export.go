package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Line is one JSONL entry of an exported trace. Exactly one of the record
// pointers is set, matching Type.
type Line struct {
	Type    string         `json:"type"`
	RunID   string         `json:"run_id"`
	Routing *RoutingRecord `json:"routing,omitempty"`
	Stall   *StallRecord   `json:"stall,omitempty"`
	Cycle   *CycleRecord   `json:"cycle,omitempty"`
}

// WriteJSONL writes every record of st to path, one JSON object per line.
// A path ending in ".zst" is zstd-compressed.
func WriteJSONL(path string, st *SimulationTrace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing trace file: %w", cerr)
		}
	}()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		w = enc
	}

	if err := Encode(w, st); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing zstd stream: %w", err)
		}
	}
	return nil
}

// Encode writes st to w as JSONL: routings first, then stalls, then cycles.
func Encode(w io.Writer, st *SimulationTrace) error {
	if st == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range st.Routings {
		if err := enc.Encode(Line{Type: "routing", RunID: st.RunID, Routing: &st.Routings[i]}); err != nil {
			return fmt.Errorf("encoding routing record: %w", err)
		}
	}
	for i := range st.Stalls {
		if err := enc.Encode(Line{Type: "stall", RunID: st.RunID, Stall: &st.Stalls[i]}); err != nil {
			return fmt.Errorf("encoding stall record: %w", err)
		}
	}
	for i := range st.Cycles {
		if err := enc.Encode(Line{Type: "cycle", RunID: st.RunID, Cycle: &st.Cycles[i]}); err != nil {
			return fmt.Errorf("encoding cycle record: %w", err)
		}
	}
	return bw.Flush()
}

// ReadJSONL reads a trace previously written by WriteJSONL.
func ReadJSONL(path string) (*SimulationTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return Decode(r)
}

// Decode parses a JSONL trace stream.
func Decode(r io.Reader) (*SimulationTrace, error) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelCycles})
	dec := json.NewDecoder(r)
	for {
		var line Line
		if err := dec.Decode(&line); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding trace line: %w", err)
		}
		st.RunID = line.RunID
		switch {
		case line.Routing != nil:
			st.RecordRouting(*line.Routing)
		case line.Stall != nil:
			st.RecordStall(*line.Stall)
		case line.Cycle != nil:
			st.RecordCycle(*line.Cycle)
		default:
			return nil, fmt.Errorf("trace line of type %q carries no record", line.Type)
		}
	}
	return st, nil
}
