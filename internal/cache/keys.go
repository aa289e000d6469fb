package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	RecipeKeyPrefix     = "recipe:%d"
	FeedVersionKey      = "feed:global:version"
	GlobalFeedKeyPrefix = "feed:global:v%d:%d:%d"
)

const (
	UserTTL   = 5 * time.Minute
	RecipeTTL = 10 * time.Minute
	FeedTTL   = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

// GlobalFeedKey builds the key of one global feed page under the current feed version.
// Bumping the version orphans every cached page at once; the TTL reclaims them.
func GlobalFeedKey(ctx context.Context, limit, offset int) string {
	var version int64
	if client != nil {
		v, err := client.Get(ctx, FeedVersionKey).Int64()
		if err == nil {
			version = v
		}
	}
	return fmt.Sprintf(GlobalFeedKeyPrefix, version, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}

// InvalidateFeed drops every cached global feed page.
func InvalidateFeed(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, FeedVersionKey)
	}
}
