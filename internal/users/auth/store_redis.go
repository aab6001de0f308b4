// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/reviewboard/internal/platform/constants"
)

// Hash fields of a pending confirmation code.
const (
	codeFieldHash      = "hash"
	codeFieldIssuedAt  = "issued_at"
	codeFieldExpiresAt = "expires_at"
)

/*
consumeScript compares the stored digest and expiry and deletes the record in
one server-side step, so two concurrent exchanges of the same code cannot both
succeed.

KEYS[1] = record key, ARGV[1] = presented digest, ARGV[2] = now (unix seconds).
Returns 1 when the code was valid and has been consumed, 0 otherwise. A wrong
digest leaves the record untouched.
*/
var consumeScript = redis.NewScript(`
local stored = redis.call('HGET', KEYS[1], 'hash')
if not stored or stored ~= ARGV[1] then
	return 0
end
local expires = tonumber(redis.call('HGET', KEYS[1], 'expires_at'))
redis.call('DEL', KEYS[1])
if not expires or expires <= tonumber(ARGV[2]) then
	return 0
end
return 1
`)

// RedisCodeRepository implements [CodeRepository] with one hash per user.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewCodeRepository creates a new Redis-backed CodeRepository.
func NewCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

func codeKey(userID string) string {
	return constants.RedisPrefixConfirmationCode + userID
}

/*
Issue replaces the pending code of userID.

The record is rewritten and given a TTL in a single MULTI/EXEC so a reader
never observes a half-written hash.
*/
func (repository *RedisCodeRepository) Issue(context context.Context, userID string, code ConfirmationCode) error {
	key := codeKey(userID)
	ttl := code.ExpiresAt.Sub(code.IssuedAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_confirmation_code_issue_failed: expiry is not after issue time")
	}

	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, key)
		pipe.HSet(context, key,
			codeFieldHash, code.Hash,
			codeFieldIssuedAt, strconv.FormatInt(code.IssuedAt.Unix(), 10),
			codeFieldExpiresAt, strconv.FormatInt(code.ExpiresAt.Unix(), 10),
		)
		pipe.Expire(context, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_confirmation_code_issue_failed: %w", err)
	}
	return nil
}

// Consume runs [consumeScript] for userID.
func (repository *RedisCodeRepository) Consume(context context.Context, userID, hash string, now time.Time) (bool, error) {
	result, err := consumeScript.Run(context, repository.client, []string{codeKey(userID)}, hash, now.Unix()).Int()
	if err != nil {
		return false, fmt.Errorf("redis_confirmation_code_consume_failed: %w", err)
	}
	return result == 1, nil
}
