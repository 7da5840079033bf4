package event

import (
	"fmt"
	"time"

	"github.com/hamba/avro/v2"
)

// SchemaV1 is the Avro schema of the wire record
const SchemaV1 = `{
  "type": "record",
  "name": "StorefrontEvent",
  "namespace": "storefront.analytics.v1",
  "fields": [
    {"name": "id", "type": "string"},
    {"name": "type", "type": "string"},
    {"name": "subject", "type": "string"},
    {"name": "session_id", "type": "string", "default": ""},
    {"name": "attributes", "type": {"type": "map", "values": "string"}},
    {"name": "occurred_at", "type": "long"}
  ]
}`

type recordV1 struct {
	ID         string            `avro:"id"`
	Type       string            `avro:"type"`
	Subject    string            `avro:"subject"`
	SessionID  string            `avro:"session_id"`
	Attributes map[string]string `avro:"attributes"`
	OccurredAt int64             `avro:"occurred_at"` // unix millis
}

// Codec encodes events as Avro binary
type Codec struct {
	schema avro.Schema
}

// NewCodec parses SchemaV1
func NewCodec() (*Codec, error) {
	s, err := avro.Parse(SchemaV1)
	if err != nil {
		return nil, fmt.Errorf("event: parse schema: %w", err)
	}
	return &Codec{schema: s}, nil
}

// Encode serializes e
func (c *Codec) Encode(e Event) ([]byte, error) {
	attrs := e.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return avro.Marshal(c.schema, recordV1{
		ID:         e.ID,
		Type:       e.Type,
		Subject:    e.Subject,
		SessionID:  e.SessionID,
		Attributes: attrs,
		OccurredAt: e.OccurredAt.UnixMilli(),
	})
}

// Decode deserializes data produced by Encode
func (c *Codec) Decode(data []byte) (Event, error) {
	var r recordV1
	if err := avro.Unmarshal(c.schema, data, &r); err != nil {
		return Event{}, fmt.Errorf("event: decode: %w", err)
	}
	return Event{
		ID:         r.ID,
		Type:       r.Type,
		Subject:    r.Subject,
		SessionID:  r.SessionID,
		Attributes: r.Attributes,
		OccurredAt: time.UnixMilli(r.OccurredAt).UTC(),
	}, nil
}
