package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const loyaltyKeyPrefix = "loyalty:points:"

// redeemScript atomically takes up to ARGV[1] points and returns how many were taken.
var redeemScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local want = tonumber(ARGV[1])
if want <= 0 or balance <= 0 then
  return 0
end
local take = want
if balance < want then
  take = balance
end
redis.call("DECRBY", KEYS[1], take)
return take
`)

// LoyaltyRepository keeps owner loyalty point balances in Redis.
type LoyaltyRepository struct {
	client *redis.Client
}

// NewLoyaltyRepository constructs a loyalty repository.
func NewLoyaltyRepository(client *redis.Client) *LoyaltyRepository {
	return &LoyaltyRepository{client: client}
}

func loyaltyKey(ownerID string) string {
	return loyaltyKeyPrefix + ownerID
}

// LookupBalance returns the owner's point balance; unknown owners have zero points.
func (r *LoyaltyRepository) LookupBalance(ctx context.Context, ownerID string) (int64, error) {
	n, err := r.client.Get(ctx, loyaltyKey(ownerID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("lookup loyalty balance: %w", err)
	}
	return n, nil
}

// Redeem deducts up to points from the balance and returns the points actually applied.
func (r *LoyaltyRepository) Redeem(ctx context.Context, ownerID string, points int64) (int64, error) {
	taken, err := redeemScript.Run(ctx, r.client, []string{loyaltyKey(ownerID)}, points).Int64()
	if err != nil {
		return 0, fmt.Errorf("redeem loyalty points: %w", err)
	}
	return taken, nil
}

// Restore credits points back, compensating a redemption whose booking failed.
func (r *LoyaltyRepository) Restore(ctx context.Context, ownerID string, points int64) error {
	if points <= 0 {
		return nil
	}
	if err := r.client.IncrBy(ctx, loyaltyKey(ownerID), points).Err(); err != nil {
		return fmt.Errorf("restore loyalty points: %w", err)
	}
	return nil
}
