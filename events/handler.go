package events

import (
	"context"

	"healthpulse/logger"
	"healthpulse/types"
)

// PersonalizationRunner is the slice of the orchestrator the event handler
// needs.
type PersonalizationRunner interface {
	Run(ctx context.Context, userID string) (types.RunResult, error)
}

// NewLabResultHandler builds the handler that refreshes a user's article
// recommendations whenever their lab snapshot changes. Events without a user
// ID are skipped and marked so they are not retried forever.
func NewLabResultHandler(runner PersonalizationRunner, log *logger.Logger) MessageHandler {
	return &TypedMessageHandler[LabResultUpdated]{
		AlwaysMark: true,
		Logger:     log,
		Validate: func(msg *LabResultUpdated) bool {
			if msg.UserID == "" {
				log.Warn("lab result event missing user id, skipping")
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *LabResultUpdated) error {
			log.Info("lab result updated, refreshing recommendations", "user_id", msg.UserID)
			result, err := runner.Run(ctx, msg.UserID)
			if err != nil {
				return err
			}
			if !result.Success {
				// a concurrent run or empty fetch is a terminal outcome
				// for this event, not a reason to redeliver it
				log.Warn("personalization run did not complete",
					"user_id", msg.UserID, "message", result.Message)
			}
			return nil
		},
	}
}
