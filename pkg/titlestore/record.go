package titlestore

import (
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Record is what the store keeps for each fingerprint.
type Record struct {
	Fingerprint string
	Title       string
	Normalized  string
	Source      string
	FirstSeen   time.Time
}

func (r Record) marshal() ([]byte, error) {
	var (
		doc = []byte("{}")
		err error
	)
	fields := []struct {
		path  string
		value interface{}
	}{
		{"fingerprint", r.Fingerprint},
		{"title", r.Title},
		{"normalized", r.Normalized},
		{"source", r.Source},
		{"first_seen", r.FirstSeen.UnixMilli()},
	}
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func unmarshalRecord(data []byte) (Record, error) {
	if !gjson.ValidBytes(data) {
		return Record{}, ErrCorruptRecord
	}
	res := gjson.GetManyBytes(data, "fingerprint", "title", "normalized", "source", "first_seen")
	return Record{
		Fingerprint: res[0].String(),
		Title:       res[1].String(),
		Normalized:  res[2].String(),
		Source:      res[3].String(),
		FirstSeen:   time.UnixMilli(res[4].Int()).UTC(),
	}, nil
}

// Fields flattens the record into field/value pairs for RESP replies.
func (r Record) Fields() []string {
	return []string{
		"fingerprint", r.Fingerprint,
		"title", r.Title,
		"normalized", r.Normalized,
		"source", r.Source,
		"first_seen", r.FirstSeen.Format(time.RFC3339),
	}
}
