// Package event decodes the queue messages that announce object uploads.
//
// A message body is either an S3 event notification carrying a Records
// array, or the s3:TestEvent probe S3 sends when a notification target is
// first configured. Parse returns one of the two as a Notification:
//
//	n, err := event.Parse(body)
//	if err != nil {
//	    return err
//	}
//	switch n := n.(type) {
//	case event.Probe:
//	    // nothing to launch
//	case event.Upload:
//	    ts := event.FormatTimestamp(n.EventTime)
//	}
package event
