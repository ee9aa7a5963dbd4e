package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matheus3301/knock/internal/model"
)

// EncodeSnapshot renders each collection of snap as the JSON blob stored
// under its key.
func EncodeSnapshot(snap model.Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, 4)
	for key, v := range map[string]any{
		KeyContacts:  emptyIfNil(snap.Contacts),
		KeyScheduled: emptyIfNil(snap.Scheduled),
		KeyReceived:  emptyIfNil(snap.Received),
		KeySettings:  snap.Settings,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// DecodeSnapshot parses the keyed blobs. Missing keys decode to empty
// collections and default settings. Entries that fail to decode or validate
// are dropped; the returned error joins one diagnostic per dropped entry and
// the snapshot is usable regardless.
func DecodeSnapshot(blobs map[string][]byte) (model.Snapshot, error) {
	var errs []error
	snap := model.Snapshot{Settings: model.DefaultSettings()}

	snap.Contacts = decodeList(blobs[KeyContacts], KeyContacts, &errs, func(c *model.Contact) error { return c.Validate() })
	snap.Scheduled = decodeList(blobs[KeyScheduled], KeyScheduled, &errs, func(m *model.ScheduledMessage) error { return m.Validate() })
	snap.Received = decodeList(blobs[KeyReceived], KeyReceived, &errs, func(m *model.ReceivedMessage) error { return m.Validate() })

	if data, ok := blobs[KeySettings]; ok {
		settings := model.DefaultSettings()
		if err := json.Unmarshal(data, &settings); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeySettings, err))
		} else if err := settings.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeySettings, err))
		} else {
			snap.Settings = settings
		}
	}
	return snap, errors.Join(errs...)
}

func decodeList[T any](data []byte, key string, errs *[]error, validate func(*T) error) []T {
	if data == nil {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return nil
	}
	var out []T
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			*errs = append(*errs, fmt.Errorf("%s[%d]: %w", key, i, err))
			continue
		}
		if err := validate(&v); err != nil {
			*errs = append(*errs, fmt.Errorf("%s[%d]: %w", key, i, err))
			continue
		}
		out = append(out, v)
	}
	return out
}
