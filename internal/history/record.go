package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the persisted and wire form of Record.Timestamp:
// UTC with millisecond precision, so values sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one successful calculation. It is created once, immediately
// before insertion, and never modified afterwards.
type Record struct {
	ID         int64
	Expression string
	Result     float64
	Timestamp  time.Time
}

type recordJSON struct {
	ID         int64   `json:"id"`
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	Timestamp  string  `json:"ts"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		ID:         r.ID,
		Expression: r.Expression,
		Result:     r.Result,
		Timestamp:  r.Timestamp.UTC().Format(TimestampLayout),
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("record %d: parse ts: %w", raw.ID, err)
	}

	*r = Record{
		ID:         raw.ID,
		Expression: raw.Expression,
		Result:     raw.Result,
		Timestamp:  ts.UTC(),
	}
	return nil
}

// encodeRecords renders the persisted form: an indented JSON array,
// newest first. An empty log encodes as "[]".
func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// decodeRecords parses the persisted form. Blank input and JSON null both
// mean an empty log.
func decodeRecords(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
