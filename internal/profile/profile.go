package profile

import (
	"encoding/json"
	"fmt"
)

// Profile is the business profile returned by the server. Fields the client
// does not know about are kept in Extra and written back unchanged.
type Profile struct {
	BusinessName string
	BusinessType string
	Email        string

	Extra map[string]json.RawMessage
}

var knownFields = []string{"businessName", "businessType", "email"}

func (p *Profile) fields() []*string {
	return []*string{&p.BusinessName, &p.BusinessType, &p.Email}
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+len(knownFields))
	for k, v := range p.Extra {
		out[k] = v
	}

	for i, field := range p.fields() {
		key := knownFields[i]
		if _, kept := p.Extra[key]; kept && *field == "" {
			continue
		}

		raw, err := json.Marshal(*field)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}

		out[key] = raw
	}

	return json.Marshal(out)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding profile: %w", err)
	}

	*p = Profile{}

	for i, field := range p.fields() {
		key := knownFields[i]

		value, ok := raw[key]
		if !ok {
			continue
		}

		// Non-string values stay opaque.
		if json.Unmarshal(value, field) == nil {
			delete(raw, key)
		}
	}

	if len(raw) > 0 {
		p.Extra = raw
	}

	return nil
}
