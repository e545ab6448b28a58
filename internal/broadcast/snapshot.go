package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/geofence_resolver/internal/models"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "geofence:session:"

// Source источник снимков, например interaction.Router
type Source interface {
	Subscribe(fn func(models.GeofenceState)) func()
}

// SnapshotPublisher публикует снимки сессии в канал Redis Pub/Sub
type SnapshotPublisher struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewSnapshotPublisher(client *redis.Client, logger *logrus.Logger) *SnapshotPublisher {
	return &SnapshotPublisher{
		redisClient: client,
		logger:      logger,
	}
}

// ChannelName канал, в который уходят снимки сессии
func ChannelName(sessionID uuid.UUID) string {
	return channelPrefix + sessionID.String()
}

func (p *SnapshotPublisher) Publish(ctx context.Context, sessionID uuid.UUID, state models.GeofenceState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal geofence snapshot: %w", err)
	}
	if err := p.redisClient.Publish(ctx, ChannelName(sessionID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish geofence snapshot to Redis: %w", err)
	}
	return nil
}

// Attach подписывается на source и публикует снимки в отдельной горутине,
// чтобы сетевой вызов не задерживал цикл роутера. Если публикация отстаёт,
// промежуточные снимки отбрасываются и уходит только последний.
func (p *SnapshotPublisher) Attach(ctx context.Context, sessionID uuid.UUID, source Source) func() {
	mailbox := make(chan models.GeofenceState, 1)
	unsubscribe := source.Subscribe(func(state models.GeofenceState) {
		select {
		case mailbox <- state:
			return
		default:
		}
		select {
		case <-mailbox:
		default:
		}
		select {
		case mailbox <- state:
		default:
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	log := p.logger.WithFields(logrus.Fields{
		"component":  "snapshot_publisher",
		"session_id": sessionID,
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case state := <-mailbox:
				if err := p.Publish(ctx, sessionID, state); err != nil {
					log.WithError(err).Warn("Failed to broadcast snapshot")
				}
			}
		}
	}()

	return func() {
		unsubscribe()
		cancel()
	}
}
