package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload of e as T. In-process events already carry
// T; events that crossed a wire arrive as generic maps and are re-decoded.
func DecodePayload[T any](e Event) (T, error) {
	var out T
	switch p := e.Payload.(type) {
	case T:
		return p, nil
	case *T:
		if p != nil {
			return *p, nil
		}
		return out, fmt.Errorf("%s %s: nil payload", ErrMsgDecodePayload, e.Type)
	}

	data, err := json.Marshal(e.Payload)
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, e.Type, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, e.Type, err)
	}
	return out, nil
}
