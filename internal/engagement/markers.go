package engagement

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkerStore holds the per-device throttle state. Each claim is atomic:
// it returns true and records the marker only when the throttle allows it.
type MarkerStore interface {
	// ClaimBriefing records day (YYYY-MM-DD in the device's zone) as the
	// device's last briefing day unless it already is.
	ClaimBriefing(ctx context.Context, deviceID, day string) (bool, error)
	// ClaimGhostAlert records now as the device's last ghost alert unless
	// the previous one is less than cooldown old.
	ClaimGhostAlert(ctx context.Context, deviceID string, now time.Time, cooldown time.Duration) (bool, error)
}

type deviceMarker struct {
	lastBriefingDay  string
	lastGhostAlertAt time.Time
}

// MemoryMarkerStore keeps markers in process. Markers are lost on restart.
type MemoryMarkerStore struct {
	mu      sync.Mutex
	markers map[string]deviceMarker
}

func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: make(map[string]deviceMarker)}
}

func (s *MemoryMarkerStore) ClaimBriefing(_ context.Context, deviceID, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.markers[deviceID]
	if m.lastBriefingDay == day {
		return false, nil
	}
	m.lastBriefingDay = day
	s.markers[deviceID] = m
	return true, nil
}

func (s *MemoryMarkerStore) ClaimGhostAlert(_ context.Context, deviceID string, now time.Time, cooldown time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.markers[deviceID]
	if !m.lastGhostAlertAt.IsZero() && now.Sub(m.lastGhostAlertAt) < cooldown {
		return false, nil
	}
	m.lastGhostAlertAt = now
	s.markers[deviceID] = m
	return true, nil
}

const (
	fieldBriefingDay  = "last_briefing_day"
	fieldGhostAlertAt = "last_ghost_alert_at"
)

// claimBriefingScript sets the briefing day only when it differs.
var claimBriefingScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if current == ARGV[2] then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// claimGhostScript sets the ghost alert time only when the cooldown elapsed.
var claimGhostScript = redis.NewScript(`
local last = redis.call('HGET', KEYS[1], ARGV[1])
if last and (tonumber(ARGV[2]) - tonumber(last)) < tonumber(ARGV[3]) then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisMarkerStore keeps markers in a Redis hash per device so every API
// instance shares the same throttle state.
type RedisMarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMarkerStore wraps client. Device hashes expire ttl after their
// last update.
func NewRedisMarkerStore(client *redis.Client, ttl time.Duration) *RedisMarkerStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisMarkerStore{client: client, ttl: ttl}
}

func markerKey(deviceID string) string {
	return "engagement:device:" + deviceID
}

func (s *RedisMarkerStore) ClaimBriefing(ctx context.Context, deviceID, day string) (bool, error) {
	n, err := claimBriefingScript.Run(ctx, s.client, []string{markerKey(deviceID)},
		fieldBriefingDay, day, s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("claim briefing marker: %w", err)
	}
	return n == 1, nil
}

func (s *RedisMarkerStore) ClaimGhostAlert(ctx context.Context, deviceID string, now time.Time, cooldown time.Duration) (bool, error) {
	n, err := claimGhostScript.Run(ctx, s.client, []string{markerKey(deviceID)},
		fieldGhostAlertAt, strconv.FormatInt(now.UnixMilli(), 10), cooldown.Milliseconds(), s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("claim ghost alert marker: %w", err)
	}
	return n == 1, nil
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
