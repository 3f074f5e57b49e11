package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/quotes-importer/constants"
)

// Unit is one import unit in loose form: a persisted snapshot file or an
// assembled document. Non-object Logs entries found in a snapshot are skipped
// and counted in Dropped; Products must be an array of objects.
type Unit struct {
	Campaigns Record   `json:"Campaigns"`
	Clients   Record   `json:"Clients"`
	Contacts  Record   `json:"Contacts"`
	Logs      []Record `json:"Logs"`
	Products  []Record `json:"Products"`

	Dropped int `json:"-"`
}

// Rows returns the records destined for table t.
func (u Unit) Rows(t constants.Table) []Record {
	switch t {
	case constants.Campaigns:
		return []Record{u.Campaigns}
	case constants.Clients:
		return []Record{u.Clients}
	case constants.Contacts:
		return []Record{u.Contacts}
	case constants.Logs:
		return u.Logs
	case constants.Products:
		return u.Products
	default:
		return nil
	}
}

// Len is the number of records the unit would persist.
func (u Unit) Len() int {
	return 3 + len(u.Logs) + len(u.Products)
}

type rawUnit struct {
	Campaigns json.RawMessage `json:"Campaigns"`
	Clients   json.RawMessage `json:"Clients"`
	Contacts  json.RawMessage `json:"Contacts"`
	Logs      json.RawMessage `json:"Logs"`
	Products  json.RawMessage `json:"Products"`
}

// UnmarshalJSON accepts Logs as either one object or an array of objects.
// Missing groups decode to empty records.
func (u *Unit) UnmarshalJSON(b []byte) error {
	var raw rawUnit
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Unit
	var err error
	if out.Campaigns, err = objectOrEmpty(raw.Campaigns); err != nil {
		return fmt.Errorf("decode Campaigns: %w", err)
	}
	if out.Clients, err = objectOrEmpty(raw.Clients); err != nil {
		return fmt.Errorf("decode Clients: %w", err)
	}
	if out.Contacts, err = objectOrEmpty(raw.Contacts); err != nil {
		return fmt.Errorf("decode Contacts: %w", err)
	}
	var dropped int
	if out.Logs, dropped, err = objectList(raw.Logs); err != nil {
		return fmt.Errorf("decode Logs: %w", err)
	}
	out.Dropped += dropped
	if out.Products, err = recordList(raw.Products); err != nil {
		return fmt.Errorf("decode Products: %w", err)
	}
	*u = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func objectOrEmpty(raw json.RawMessage) (Record, error) {
	if isNull(raw) {
		return Record{}, nil
	}
	return decodeRecord(raw)
}

// recordList decodes an array whose every element is an object.
func recordList(raw json.RawMessage) ([]Record, error) {
	if isNull(raw) {
		return []Record{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func objectList(raw json.RawMessage) ([]Record, int, error) {
	if isNull(raw) {
		return []Record{}, 0, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '{' {
		rec, err := decodeRecord(trimmed)
		if err != nil {
			return nil, 0, err
		}
		return []Record{rec}, 0, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, 0, err
	}
	out := make([]Record, 0, len(items))
	dropped := 0
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			dropped++
			continue
		}
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, dropped, nil
}
