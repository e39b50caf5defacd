// Package notifications translates lifecycle transitions into user-facing messages.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"airtecs/internal/middleware"
	"airtecs/internal/models"
	"airtecs/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Relay persists notifications and publishes them to the recipient's Redis
// channel. Delivery is fire-and-forget: every error is logged and swallowed so
// a notification failure can never fail the lifecycle operation that
// triggered it.
type Relay struct {
	repo repository.NotificationRepository
	rdb  *redis.Client
}

// NewRelay creates a relay. rdb may be nil, in which case only the store is used.
func NewRelay(repo repository.NotificationRepository, rdb *redis.Client) *Relay {
	return &Relay{repo: repo, rdb: rdb}
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// Notify records a message for the user and publishes it, best-effort.
func (r *Relay) Notify(ctx context.Context, userID uint, message string) {
	if r.repo != nil {
		n := &models.Notification{
			UserID:    userID,
			Message:   message,
			ExpiresAt: time.Now().Add(models.NotificationTTL),
		}
		if err := r.repo.Create(ctx, n); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to store notification",
				slog.Any("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	if r.rdb != nil {
		if err := r.rdb.Publish(ctx, UserChannel(userID), message).Err(); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish notification",
				slog.Any("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Stage transition messages shown to the customer.
var stageMessages = map[models.Stage]string{
	models.StageEnRoute:    "Your technician is on the way.",
	models.StageOnSite:     "Your technician has arrived.",
	models.StageInProgress: "Work on your appliance has started.",
	models.StageCompleted:  "The service has been completed.",
}

// NotifyAssigned tells the customer a technician accepted, sharing the code.
func (r *Relay) NotifyAssigned(ctx context.Context, customerID uint, code string) {
	r.Notify(ctx, customerID, fmt.Sprintf("A technician has been assigned to your request. Confirmation code: %s", code))
}

// NotifyStage tells the customer the request advanced to a stage.
func (r *Relay) NotifyStage(ctx context.Context, customerID uint, stage models.Stage, detail string) {
	msg, ok := stageMessages[stage]
	if !ok {
		msg = fmt.Sprintf("Your service status changed to %s.", stage)
	}
	if detail != "" {
		msg = msg + " " + detail
	}
	r.Notify(ctx, customerID, msg)
}

// NotifyExpired tells the customer their pending request lapsed.
func (r *Relay) NotifyExpired(ctx context.Context, customerID uint) {
	r.Notify(ctx, customerID, "Your service request expired before a technician accepted it.")
}

// NotifyPaid tells the customer the payment settled.
func (r *Relay) NotifyPaid(ctx context.Context, customerID uint) {
	r.Notify(ctx, customerID, "Your payment was confirmed. Thank you for using AirTecs.")
}
