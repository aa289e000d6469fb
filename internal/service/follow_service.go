package service

import (
	"context"

	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"

	"golang.org/x/sync/errgroup"
)

// FollowService manages directed follow edges between identities.
type FollowService struct {
	followRepo repository.FollowRepository
	identities IdentityLookup
}

func NewFollowService(followRepo repository.FollowRepository, identities IdentityLookup) *FollowService {
	return &FollowService{followRepo: followRepo, identities: identities}
}

func rejectSelfFollow(followerID, followingID uint) error {
	if followerID == followingID {
		return models.NewValidationError("You cannot follow yourself")
	}
	return nil
}

// Follow creates the edge follower -> following.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) error {
	if err := rejectSelfFollow(followerID, followingID); err != nil {
		return err
	}
	if _, err := s.identities.GetByID(ctx, followingID); err != nil {
		return err
	}
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflictError("Already following this user")
	}
	// A concurrent follow that slipped past the check surfaces as Conflict from the unique index.
	if err := s.followRepo.Create(ctx, followerID, followingID); err != nil {
		return err
	}
	observability.RecordSocialAction("follow")
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	removed, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Follow", followingID)
	}
	observability.RecordSocialAction("unfollow")
	return nil
}

// ToggleFollow follows or unfollows depending on the current edge.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followingID uint) (*models.FollowToggleResult, error) {
	if err := rejectSelfFollow(followerID, followingID); err != nil {
		return nil, err
	}
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.Unfollow(ctx, followerID, followingID); err != nil {
			return nil, err
		}
		return &models.FollowToggleResult{Following: false}, nil
	}
	if err := s.Follow(ctx, followerID, followingID); err != nil {
		return nil, err
	}
	return &models.FollowToggleResult{Following: true}, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followingID)
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint) ([]models.Identity, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveIdentities(ctx, ids)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint) ([]models.Identity, error) {
	ids, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveIdentities(ctx, ids)
}

// resolveIdentities looks up every id on its own, keeping the input order.
// Ids whose identity no longer exists are dropped; any other lookup error fails the list.
func (s *FollowService) resolveIdentities(ctx context.Context, ids []uint) ([]models.Identity, error) {
	resolved := make([]*models.Identity, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, id := range ids {
		g.Go(func() error {
			user, err := s.identities.GetByID(gctx, id)
			if models.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			identity := user.Identity()
			resolved[i] = &identity
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Identity, 0, len(ids))
	for _, identity := range resolved {
		if identity != nil {
			out = append(out, *identity)
		}
	}
	return out, nil
}
