package dispatcher

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// Kind tells what Dispatch did with a message.
type Kind int

const (
	// KindProbe is a test event; nothing was launched.
	KindProbe Kind = iota
	// KindLaunched means RunTask was called.
	KindLaunched
	// KindSkipped means the key matched the skip prefix.
	KindSkipped
	// KindDuplicate means the launch key was already reserved.
	KindDuplicate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindProbe:
		return "probe"
	case KindLaunched:
		return "launched"
	case KindSkipped:
		return "skipped"
	case KindDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// probeMarker is returned to the Lambda runtime for test events.
const probeMarker = "TestEvent"

// Result describes the outcome of one Dispatch call.
type Result struct {
	Kind   Kind
	Bucket string
	Key    string

	// EventTime is the formatted timestamp forwarded to the task
	EventTime string

	// Output is the RunTask response, set for KindLaunched
	Output *ecs.RunTaskOutput
}

// String renders the result for the invocation response.
// Test events render as the fixed marker "TestEvent".
func (r *Result) String() string {
	if r == nil {
		return ""
	}

	switch r.Kind {
	case KindProbe:
		return probeMarker
	case KindSkipped, KindDuplicate:
		return r.Kind.String() + " " + r.Bucket + "/" + r.Key
	}

	var b strings.Builder
	b.WriteString("launched " + r.Bucket + "/" + r.Key)
	if r.Output == nil {
		return b.String()
	}
	for _, task := range r.Output.Tasks {
		b.WriteString(" task=")
		b.WriteString(aws.ToString(task.TaskArn))
	}
	for _, f := range r.Output.Failures {
		b.WriteString(" failure=")
		b.WriteString(aws.ToString(f.Reason))
		if arn := aws.ToString(f.Arn); arn != "" {
			b.WriteString("(" + arn + ")")
		}
	}
	return b.String()
}
