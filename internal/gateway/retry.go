package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/logging"
)

// RetryingSender wraps a Sender with bounded exponential backoff. State
// mutations always commit before delivery, so a failed send is only a
// messaging gap: the failure is parked per user and surfaced on that
// user's next interaction instead of being silently dropped.
type RetryingSender struct {
	next       Sender
	log        logging.Logger
	maxRetries uint64
	baseDelay  time.Duration

	mu      sync.Mutex
	pending map[int64]string
}

func NewRetryingSender(next Sender, log logging.Logger) *RetryingSender {
	return &RetryingSender{
		next:       next,
		log:        log,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		pending:    make(map[int64]string),
	}
}

func (s *RetryingSender) Send(ctx context.Context, msg Message) error {
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.next.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		return nil
	}

	s.log.Warn(ctx, "delivery failed after retries", "user_id", msg.UserID, "error", err.Error())

	s.mu.Lock()
	s.pending[msg.UserID] = "Heads up: I could not reach you earlier, a scheduled message was lost."
	s.mu.Unlock()

	return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
}

// TakeNotice returns and clears the parked delivery-failure notice for the
// user, if any. The front end calls this on every inbound interaction.
func (s *RetryingSender) TakeNotice(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notice, ok := s.pending[userID]
	if ok {
		delete(s.pending, userID)
	}
	return notice, ok
}
