package wire

import (
	"encoding/json"
	"errors"
	"net"
)

// ErrMissingCommand is returned when a datagram has no "command" key
var ErrMissingCommand = errors.New("datagram is missing the command key")

// Envelope is a decoded inbound datagram. The command has been extracted;
// the payload stays raw until a handler decodes it into its typed struct.
type Envelope struct {
	Command Command
	Addr    *net.UDPAddr

	raw []byte
}

// Decode unmarshals the datagram's payload into v
func (e *Envelope) Decode(v interface{}) error {
	return json.Unmarshal(e.raw, v)
}

// Marshal builds a single flat JSON datagram from a command and payload.
// The payload must marshal to a JSON object (or be nil).
func Marshal(cmd Command, payload interface{}) ([]byte, error) {
	fields := map[string]json.RawMessage{}

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, err
		}
	}

	cmdJSON, err := json.Marshal(string(cmd))
	if err != nil {
		return nil, err
	}

	fields["command"] = cmdJSON
	return json.Marshal(fields)
}

// ParseEnvelope decodes an inbound datagram into an Envelope
func ParseEnvelope(data []byte, addr *net.UDPAddr) (*Envelope, error) {
	var probe struct {
		Command Command `json:"command"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	if probe.Command == "" {
		return nil, ErrMissingCommand
	}

	raw := make([]byte, len(data))
	copy(raw, data)

	return &Envelope{
		Command: probe.Command,
		Addr:    addr,
		raw:     raw,
	}, nil
}
