package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AlertEmitter is what other services use to notify a user.
type AlertEmitter interface {
	Emit(ctx context.Context, userID uint, typ, source, message string)
}

// Pusher delivers a mobile push notification.
type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string)
}

// Broadcaster sends a payload to users' open websocket connections.
type Broadcaster interface {
	Broadcast(userID uint, payload any)
	BroadcastMany(userIDs []uint, payload any)
}

// AlertBus stores an alert, then fans it out to websockets and push.
// The realtime and push legs are optional.
type AlertBus struct {
	db   *gorm.DB
	rt   Broadcaster
	push Pusher
	log  *logrus.Logger
}

func NewAlertBus(db *gorm.DB, rt Broadcaster, push Pusher, log *logrus.Logger) *AlertBus {
	return &AlertBus{db: db, rt: rt, push: push, log: log}
}

func (b *AlertBus) Emit(ctx context.Context, userID uint, typ, source, message string) {
	a := &models.Alert{UserID: userID, Type: typ, Source: source, Message: message, CreatedAt: time.Now()}
	if err := b.db.WithContext(ctx).Create(a).Error; err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"source":  source,
		}).Error("alert not stored")
		return
	}

	if b.rt != nil {
		b.rt.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if b.push != nil {
		b.push.PushToUser(ctx, userID, "HealthPlus", message, map[string]string{
			"type":    typ,
			"source":  source,
			"alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// List returns the user's alerts, newest first.
func (b *AlertBus) List(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var alerts []models.Alert
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
