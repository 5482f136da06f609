package statekey

import "encoding/json"

// Instance is a materialized entity as held by a state store: its
// addressing key, the kind reference it was stored under, and the opaque
// state document. Revision is the store's CAS revision and never
// serializes with the instance.
type Instance struct {
	StateKey string          `json:"stateKey,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	State    json.RawMessage `json:"state,omitempty"`
	Revision uint64          `json:"-"`
}

// maxInstanceRender bounds the JSON rendering embedded in
// ErrMissingStateKey messages. State documents can be large; the fault
// only needs enough of the instance to identify it.
const maxInstanceRender = 512

// StateKeyOf returns the instance's addressing key, failing with
// ErrMissingStateKey when the field was never set. The fault carries a
// bounded JSON rendering of the offending instance.
func StateKeyOf(inst Instance) (string, error) {
	if inst.StateKey == "" {
		return "", &KeyError{Kind: ErrMissingStateKey, Value: renderInstance(inst)}
	}
	return inst.StateKey, nil
}

func renderInstance(inst Instance) string {
	data, err := json.Marshal(inst)
	if err != nil {
		return "(unrenderable instance)"
	}
	if len(data) > maxInstanceRender {
		data = append(data[:maxInstanceRender], "..."...)
	}
	return string(data)
}
