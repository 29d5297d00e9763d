package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamcollab-api/internal/middleware"
)

const (
	eventsChannel     = "teamcollab:events"
	presenceKeyPrefix = "presence:"
	redisOpTimeout    = 2 * time.Second
)

// Notifier is the fan-out surface the domain services push through.
// Delivery is best-effort and never transactional with a store write.
type Notifier interface {
	Broadcast(event string, data interface{})
	SendToUser(userID uint, event string, data interface{})
	IsOnline(userID uint) bool
	OnlineUsers() []uint
}

// Hub is the process-wide presence registry and fan-out dispatcher. It maps
// each user id to at most one live connection (last connection wins) and
// pushes the full online set to everyone whenever that mapping changes.
//
// When a Redis client is configured the hub also mirrors presence entries to
// presence:<userID> keys and bridges events across instances over pub/sub;
// with a nil client it runs purely in-process.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*Client

	logger     *zap.Logger
	redis      *redis.Client
	instanceID string
}

func NewHub(logger *zap.Logger, redisClient *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[uint]*Client),
		logger:     logger,
		redis:      redisClient,
		instanceID: uuid.NewString(),
	}
}

// Connect registers the client as its user's live connection, displacing any
// previous connection for the same user id. The online-set broadcast happens
// under the registry lock, so concurrent connects cannot reorder it.
func (h *Hub) Connect(c *Client) {
	h.mu.Lock()
	if prev, ok := h.clients[c.userID]; ok && prev != c {
		close(prev.send)
	}
	h.clients[c.userID] = c
	h.broadcastOnlineSetLocked()
	count := len(h.clients)
	h.mu.Unlock()

	middleware.RecordWebSocketConnection()
	middleware.SetOnlineUsers(float64(count))
	h.mirrorPresence(c.userID, true)

	h.logger.Info("client connected",
		zap.Uint("userId", c.userID),
		zap.String("username", c.username),
		zap.String("connId", c.id.String()))
}

// Disconnect removes the client's presence entry if it is still the live one.
// A stale disconnect racing a rapid reconnect is a no-op: the entry already
// belongs to the newer connection.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	cur, ok := h.clients[c.userID]
	if !ok || cur != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.userID)
	close(c.send)
	h.broadcastOnlineSetLocked()
	count := len(h.clients)
	h.mu.Unlock()

	middleware.RecordWebSocketDisconnection()
	middleware.SetOnlineUsers(float64(count))
	h.mirrorPresence(c.userID, false)

	h.logger.Info("client disconnected",
		zap.Uint("userId", c.userID),
		zap.String("connId", c.id.String()))
}

// Lookup returns the live connection for a user, or nil.
func (h *Hub) Lookup(userID uint) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// IsOnline reports whether the user holds a live connection on this instance.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineUsers returns the current online set, ascending by user id.
func (h *Hub) OnlineUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineUsersLocked()
}

func (h *Hub) onlineUsersLocked() []uint {
	users := make([]uint, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}

// Broadcast pushes a named event to every connected client and, when Redis
// is configured, to the other instances.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := EncodeEvent(event, data)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	h.deliverAllLocked(payload)
	h.mu.RUnlock()

	h.publish(nil, payload)
}

// SendToUser pushes a named event to exactly one user's connection. If the
// user is not connected here the presence mirror decides whether another
// instance should receive the push; with no match anywhere it silently
// no-ops, which is fine because every targeted event is also part of a
// broadcast.
func (h *Hub) SendToUser(userID uint, event string, data interface{}) {
	payload, err := EncodeEvent(event, data)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	client, ok := h.clients[userID]
	if ok {
		h.deliverLocked(client, payload)
	}
	h.mu.RUnlock()

	if !ok {
		h.forwardTargeted(userID, payload)
	}
}

// forwardTargeted hands a targeted push to the bus only when the presence
// mirror says another instance owns the user. A user online nowhere, or a
// stale entry still pointing at this instance, gets a silent drop; the cron
// job prunes the latter.
func (h *Hub) forwardTargeted(userID uint, payload []byte) {
	if h.redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	owner, err := h.redis.Get(ctx, PresenceKey(userID)).Result()
	if err == redis.Nil {
		return
	}
	if err != nil {
		// mirror unreachable, forward anyway and let remote hubs filter
		h.logger.Warn("presence lookup failed, forwarding blind",
			zap.Uint("userId", userID),
			zap.Error(err))
		h.publish(&userID, payload)
		return
	}
	if owner == h.instanceID {
		return
	}

	h.publish(&userID, payload)
}

// deliverLocked drops the frame rather than block when a client's buffer is
// full; a slow reader must never stall the registry.
func (h *Hub) deliverLocked(c *Client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Warn("client send buffer full, dropping frame",
			zap.Uint("userId", c.userID))
	}
}

func (h *Hub) deliverAllLocked(payload []byte) {
	for _, client := range h.clients {
		h.deliverLocked(client, payload)
	}
}

func (h *Hub) broadcastOnlineSetLocked() {
	payload, err := EncodeEvent(EventUpdateUsers, h.onlineUsersLocked())
	if err != nil {
		h.logger.Error("failed to encode online set", zap.Error(err))
		return
	}
	h.deliverAllLocked(payload)
}

// ----- Redis bridge -----

type envelope struct {
	Origin  string          `json:"origin"`
	Target  *uint           `json:"target,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Run bridges events published by other instances into this hub's local
// connections. It returns immediately when Redis is not configured.
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}

	pubsub := h.redis.Subscribe(ctx, eventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleRemote([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleRemote(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("failed to parse remote event", zap.Error(err))
		return
	}
	if env.Origin == h.instanceID {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if env.Target != nil {
		if client, ok := h.clients[*env.Target]; ok {
			h.deliverLocked(client, env.Payload)
		}
		return
	}
	h.deliverAllLocked(env.Payload)
}

func (h *Hub) publish(target *uint, payload []byte) {
	if h.redis == nil {
		return
	}

	raw, err := json.Marshal(envelope{
		Origin:  h.instanceID,
		Target:  target,
		Payload: payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal event envelope", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := h.redis.Publish(ctx, eventsChannel, raw).Err(); err != nil {
		h.logger.Warn("failed to publish event to redis", zap.Error(err))
	}
}

func (h *Hub) mirrorPresence(userID uint, online bool) {
	if h.redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	key := PresenceKey(userID)
	var err error
	if online {
		err = h.redis.Set(ctx, key, h.instanceID, 0).Err()
	} else {
		err = h.redis.Del(ctx, key).Err()
	}
	if err != nil {
		h.logger.Warn("failed to mirror presence to redis",
			zap.Uint("userId", userID),
			zap.Bool("online", online),
			zap.Error(err))
	}
}

// InstanceID identifies this server process in the Redis presence mirror.
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// PresenceKey is the Redis key holding a user's presence entry.
func PresenceKey(userID uint) string {
	return fmt.Sprintf("%s%d", presenceKeyPrefix, userID)
}

// PresenceKeyPattern matches every presence entry in Redis.
const PresenceKeyPattern = presenceKeyPrefix + "*"
