package rider

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// The family_contacts column stores registered contact ids in one of two
// shapes:
//
//	legacy: ["id", "id", ...]
//	v1:     {"v": 1, "contacts": ["id", "id", ...]}
//
// The column came denormalized from the mobile client; validation happens
// here at the read boundary and nowhere else.

var ErrMalformedContacts = errors.New("malformed contact list")

type versionedContacts struct {
	V        int      `json:"v"`
	Contacts []string `json:"contacts"`
}

// ParseContactList decodes and validates a stored contact list. A nil or
// empty value parses to no contacts without error; anything that is not
// valid JSON in a known shape, or contains a non-UUID entry, is rejected
// with ErrMalformedContacts.
func ParseContactList(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	data := []byte(*raw)

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		var vc versionedContacts
		if err := json.Unmarshal(data, &vc); err != nil {
			return nil, fmt.Errorf("%w: not a contact array or versioned object", ErrMalformedContacts)
		}
		if vc.V != 1 {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedContacts, vc.V)
		}
		ids = vc.Contacts
	}

	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid id", ErrMalformedContacts, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
