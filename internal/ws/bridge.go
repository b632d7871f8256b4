package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const roomChannelPrefix = "chat:room:"

// envelope is what travels over Redis between instances: the outbound event
// plus routing metadata. ExcludeConnID lets the sender's own connection be
// skipped on fan-out (join/leave notices go to the room's other members).
type envelope struct {
	Room          string      `json:"room"`
	ExcludeConnID string      `json:"exclude_conn_id,omitempty"`
	Event         ServerEvent `json:"event"`
}

// EventPublisher pushes a room event into the fan-out path.
type EventPublisher interface {
	Publish(ctx context.Context, room string, event ServerEvent, excludeConnID string) error
}

// RedisPublisher publishes room events to Redis Pub/Sub; the shared
// subscriber on each instance feeds them back into its local hub.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, room string, event ServerEvent, excludeConnID string) error {
	data, err := json.Marshal(envelope{Room: room, ExcludeConnID: excludeConnID, Event: event})
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, roomChannelPrefix+room, data).Err()
}

var subscriberStarted sync.Once

// StartRoomSubscriber ensures a single shared Redis listener per instance.
func StartRoomSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	subscriberStarted.Do(func() {
		go runRoomSubscriber(ctx, rdb, hub)
	})
}

func runRoomSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := rdb.PSubscribe(ctx, roomChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Room event subscriber started (pattern: " + roomChannelPrefix + "*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("failed to unmarshal room event: %v", err)
					continue
				}

				hub.Broadcast(env.Room, env.Event, env.ExcludeConnID)
			}
		}()

		if ctx.Err() != nil {
			return
		}
	}
}
