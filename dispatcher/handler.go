package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	perrors "github.com/saleem-mirza/aws-demos/errors"
)

// Handler adapts a Dispatcher to the Lambda SQS event source.
type Handler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewHandler wraps d. A nil logger disables logging.
func NewHandler(d *Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{dispatcher: d, logger: logger}
}

// HandleSQS dispatches every record in order. The first failing record
// fails the whole invocation so the queue redelivers the batch.
func (h *Handler) HandleSQS(ctx context.Context, evt events.SQSEvent) (string, error) {
	lines := make([]string, 0, len(evt.Records))

	for _, msg := range evt.Records {
		result, err := h.dispatcher.Dispatch(ctx, []byte(msg.Body))
		if err != nil {
			if h.logger != nil {
				code := perrors.Classify(err)
				h.logger.ErrorContext(ctx, "failed to dispatch message",
					"message_id", msg.MessageId,
					"error", err,
					"error_code", code,
					"retryable", code.Retryable(),
				)
			}
			return "", fmt.Errorf("message %s: %w", msg.MessageId, err)
		}
		lines = append(lines, result.String())
	}

	return strings.Join(lines, "\n"), nil
}
