package event

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// testEvent is the Event value of the probe S3 sends when a notification is configured.
const testEvent = "s3:TestEvent"

// Notification is either a Probe or an Upload.
type Notification interface {
	notification()
}

// Probe is the s3:TestEvent message. It never launches a task.
type Probe struct {
	Bucket string
	Time   string
}

// Upload is a single object-created record.
type Upload struct {
	// Bucket is the bucket that received the object
	Bucket string

	// Key is the object key exactly as delivered in the notification
	Key string

	// EventTime is the parsed record event time
	EventTime time.Time

	// RawEventTime is the event time as delivered
	RawEventTime string

	// Extra is the number of records in the envelope beyond the first
	Extra int
}

func (Probe) notification()  {}
func (Upload) notification() {}

// DecodedKey returns the key with notification URL encoding removed
// ("+" as space, %XX escapes). Keys that fail to decode are returned as-is.
func (u Upload) DecodedKey() string {
	decoded, err := url.QueryUnescape(u.Key)
	if err != nil {
		return u.Key
	}
	return decoded
}

type envelope struct {
	Event   string          `json:"Event"`
	Bucket  string          `json:"Bucket"`
	Time    string          `json:"Time"`
	Records json.RawMessage `json:"Records"`
}

type record struct {
	EventTime string `json:"eventTime"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// Parse decodes a queue message body. Only the first record of a
// notification is returned; the number of remaining records is kept in
// Upload.Extra.
func Parse(body []byte) (Notification, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if env.Event == testEvent {
		return Probe{Bucket: env.Bucket, Time: env.Time}, nil
	}

	if len(env.Records) == 0 || string(env.Records) == "null" {
		return nil, ErrUnknownEnvelope
	}

	var records []record
	if err := json.Unmarshal(env.Records, &records); err != nil {
		return nil, fmt.Errorf("%w: Records: %v", ErrUnknownEnvelope, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty Records", ErrUnknownEnvelope)
	}

	r := records[0]
	switch {
	case r.S3.Bucket.Name == "":
		return nil, fmt.Errorf("%w: missing bucket name", ErrIncompleteRecord)
	case r.S3.Object.Key == "":
		return nil, fmt.Errorf("%w: missing object key", ErrIncompleteRecord)
	case r.EventTime == "":
		return nil, fmt.Errorf("%w: missing eventTime", ErrIncompleteRecord)
	}

	t, err := ParseTime(r.EventTime)
	if err != nil {
		return nil, err
	}

	return Upload{
		Bucket:       r.S3.Bucket.Name,
		Key:          r.S3.Object.Key,
		EventTime:    t,
		RawEventTime: r.EventTime,
		Extra:        len(records) - 1,
	}, nil
}
