package push

import (
	"encoding/json"
	"fmt"

	"github.com/ytget/eliot-client/internal/model"
)

// ParseEventPacket decodes the body of a Socket.IO EVENT packet (the part
// after "42"): an optional "/namespace," and ack id followed by a JSON array
// ["name", data]. Unknown event names yield (nil, nil).
func ParseEventPacket(body []byte) (model.Event, error) {
	if len(body) > 0 && body[0] == '/' {
		i := 0
		for i < len(body) && body[i] != ',' {
			i++
		}
		if i == len(body) {
			return nil, fmt.Errorf("namespace without payload")
		}
		body = body[i+1:]
	}
	for len(body) > 0 && body[0] >= '0' && body[0] <= '9' {
		body = body[1:]
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("decode event array: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty event array")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return nil, fmt.Errorf("decode event name: %w", err)
	}
	var data json.RawMessage
	if len(parts) > 1 {
		data = parts[1]
	}
	return DecodeEvent(name, data)
}

// DecodeEvent maps an event name and its JSON payload to a model.Event
func DecodeEvent(name string, data json.RawMessage) (model.Event, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	switch model.EventKind(name) {
	case model.EventProgress:
		var ev model.ProgressEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case model.EventComplete:
		var ev model.CompleteEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case model.EventError:
		var ev model.ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	case model.EventCancelled:
		var ev model.CancelledEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ev, nil
	default:
		return nil, nil
	}
}
