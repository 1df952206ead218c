package slots

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AtomicRedisOperations handles atomic Redis operations for slot holding
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// Lua script for atomic slot holding - prevents race conditions
const luaAtomicSlotHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = venue_id
-- ARGV[3] = ttl_seconds
-- ARGV[4] = slot_id

local hold_id = KEYS[1]
local user_id = ARGV[1]
local venue_id = ARGV[2]
local ttl = tonumber(ARGV[3])
local slot_id = ARGV[4]

local slot_hold_key = "parkly:slot_hold:" .. slot_id

-- Check the slot is not already held
if redis.call("EXISTS", slot_hold_key) == 1 then
    return {0, slot_id}
end

local hold_key = "parkly:hold:" .. hold_id
local user_holds_key = "parkly:user_holds:" .. user_id
local created_at = redis.call("TIME")[1]

-- Create hold metadata
redis.call("HMSET", hold_key,
    "user_id", user_id,
    "venue_id", venue_id,
    "slot_id", slot_id,
    "created_at", created_at
)
redis.call("EXPIRE", hold_key, ttl)

-- Hold the slot
redis.call("SETEX", slot_hold_key, ttl, user_id .. ":" .. hold_id)

-- Add to user's holds
redis.call("SADD", user_holds_key, hold_id)
redis.call("EXPIRE", user_holds_key, ttl)

return {1, "success"}
`

// Lua script for atomic slot release
const luaAtomicSlotRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local hold_key = "parkly:hold:" .. hold_id

-- Get hold metadata
local hold_data = redis.call("HGETALL", hold_key)
if #hold_data == 0 then
    return {0, "hold_not_found"}
end

local user_id = nil
local slot_id = nil
for i = 1, #hold_data, 2 do
    if hold_data[i] == "user_id" then
        user_id = hold_data[i + 1]
    elseif hold_data[i] == "slot_id" then
        slot_id = hold_data[i + 1]
    end
end

if not user_id or not slot_id then
    return {0, "invalid_hold_data"}
end

-- Release the slot hold
redis.call("DEL", "parkly:slot_hold:" .. slot_id)

-- Remove from user's holds
redis.call("SREM", "parkly:user_holds:" .. user_id, hold_id)

-- Clean up hold metadata
redis.call("DEL", hold_key)

return {1, slot_id}
`

// redis.Script tries EVALSHA first and transparently falls back to EVAL
// with a reload on NOSCRIPT.
var (
	slotHoldScript    = redis.NewScript(luaAtomicSlotHold)
	slotReleaseScript = redis.NewScript(luaAtomicSlotRelease)
)

// AtomicHoldSlot atomically holds a slot using a Lua script
func (a *AtomicRedisOperations) AtomicHoldSlot(ctx context.Context, slotID uuid.UUID, userID, holdID, venueID string, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{holdID}
	args := []interface{}{
		userID,
		venueID,
		strconv.Itoa(int(ttl.Seconds())),
		slotID.String(),
	}

	result, err := slotHoldScript.Run(ctx, a.redis, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("failed to execute atomic slot hold: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		return ErrSlotHeld
	}

	return nil
}

// AtomicReleaseHold atomically releases a hold using a Lua script
func (a *AtomicRedisOperations) AtomicReleaseHold(ctx context.Context, holdID string) (string, error) {
	if a.redis == nil {
		return "", fmt.Errorf("redis client not available")
	}

	result, err := slotReleaseScript.Run(ctx, a.redis, []string{holdID}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to execute atomic slot release: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return "", fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return "", fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		reason, _ := resultArray[1].(string)
		if reason == "hold_not_found" {
			return "", ErrHoldNotFound
		}
		return "", fmt.Errorf("failed to release hold: %s", reason)
	}

	slotID, _ := resultArray[1].(string)
	return slotID, nil
}

// GetHoldInfo reads a hold's metadata and remaining TTL.
func (a *AtomicRedisOperations) GetHoldInfo(ctx context.Context, holdID string) (map[string]string, time.Duration, error) {
	if a.redis == nil {
		return nil, 0, fmt.Errorf("redis client not available")
	}

	holdKey := "parkly:hold:" + holdID
	data, err := a.redis.HGetAll(ctx, holdKey).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(data) == 0 {
		return nil, 0, ErrHoldNotFound
	}

	ttl, err := a.redis.TTL(ctx, holdKey).Result()
	if err != nil {
		return nil, 0, err
	}

	return data, ttl, nil
}

// GetUserHoldIDs lists the hold ids a user currently owns.
func (a *AtomicRedisOperations) GetUserHoldIDs(ctx context.Context, userID string) ([]string, error) {
	if a.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}
	return a.redis.SMembers(ctx, "parkly:user_holds:"+userID).Result()
}

// IsSlotHeld checks the hold flag for a single slot.
func (a *AtomicRedisOperations) IsSlotHeld(ctx context.Context, slotID uuid.UUID) (bool, error) {
	if a.redis == nil {
		return false, nil
	}
	exists, err := a.redis.Exists(ctx, "parkly:slot_hold:"+slotID.String()).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if err := slotHoldScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load slot hold script: %w", err)
	}

	if err := slotReleaseScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load slot release script: %w", err)
	}

	return nil
}
