package service

import (
	"context"
	"strings"
	"time"

	"brewhub/internal/cache"
	"brewhub/internal/featureflags"
	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	defaultFeedLimit   = 20
	maxFeedLimit       = 100
	defaultSearchLimit = 20
)

// FeedService composes the global and follow-scoped feeds and the identity search.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	identities IdentityLookup
	flags      *featureflags.Manager
	cacheTTL   time.Duration
}

func NewFeedService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	identities IdentityLookup,
	flags *featureflags.Manager,
	cacheTTL time.Duration,
) *FeedService {
	if cacheTTL <= 0 {
		cacheTTL = cache.FeedTTL
	}
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
		identities: identities,
		flags:      flags,
		cacheTTL:   cacheTTL,
	}
}

// NormalizePage applies the feed paging rules: default 20, at most 100, offset never negative.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetFeed returns posts newest first. Without a viewer every post is eligible;
// with one, only posts by the identities they follow and by the viewer.
// A viewer who follows nobody gets an empty feed.
func (s *FeedService) GetFeed(ctx context.Context, limit, offset int, viewerID *uint) ([]models.Post, error) {
	limit, offset = NormalizePage(limit, offset)
	if viewerID == nil {
		return s.globalFeed(ctx, limit, offset)
	}

	following, err := s.followRepo.FollowingIDs(ctx, *viewerID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []models.Post{}, nil
	}
	authors := append(following, *viewerID)
	return s.postRepo.ListByAuthors(ctx, authors, limit, offset)
}

func (s *FeedService) globalFeed(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if !s.flags.EnabledGlobally(featureflags.GlobalFeedCache) {
		return s.postRepo.List(ctx, limit, offset)
	}

	var posts []models.Post
	hit, err := cache.Aside(ctx, cache.GlobalFeedKey(ctx, limit, offset), &posts, s.cacheTTL, func() error {
		var err error
		posts, err = s.postRepo.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.RecordFeedCache(hit)
	return posts, nil
}

// SearchIdentities finds identities by name or email, excluding the caller, and
// annotates each one with the caller's follow state and its follower count.
func (s *FeedService) SearchIdentities(ctx context.Context, query string, callerID uint, limit int) ([]models.IdentityWithFollow, error) {
	if strings.TrimSpace(query) == "" {
		return []models.IdentityWithFollow{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	users, err := s.identities.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]models.IdentityWithFollow, 0, len(users))
	for i := range users {
		if users[i].ID == callerID {
			continue
		}
		results = append(results, models.IdentityWithFollow{Identity: users[i].Identity()})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range results {
		g.Go(func() error {
			following, err := s.followRepo.Exists(gctx, callerID, results[i].ID)
			if err != nil {
				return err
			}
			count, err := s.followRepo.CountFollowers(gctx, results[i].ID)
			if err != nil {
				return err
			}
			results[i].IsFollowing = following
			results[i].FollowersCount = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
