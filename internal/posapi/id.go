package posapi

import (
	"encoding/json"
	"fmt"
)

// FlexID accepts identifiers sent either as JSON strings or numbers.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string {
	return string(f)
}

// PinCode holds a staff PIN. Only JSON strings are PINs; numbers and any
// other value decode as no PIN so they can never be matched.
type PinCode string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PinCode) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("pin: %w", err)
	}
	*p = PinCode(s)
	return nil
}
