package course

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

// FavoriteStatus is what the course page's heart button renders from.
type FavoriteStatus struct {
	IsFavorite    bool `json:"isFavorite"`
	FavoriteCount int  `json:"favoriteCount"`
}

type Favoriter struct {
	clock       clock.Clock
	repo        Repository
	invalidator *Invalidator
}

func NewFavoriter(clk clock.Clock, repo Repository, cache cachelib.Cache) *Favoriter {
	return &Favoriter{
		clock:       clk,
		repo:        repo,
		invalidator: NewInvalidator(cache),
	}
}

// Add marks a course as a favorite and reports the resulting state.
// Favoriting is best effort: storage failures are logged and reported as
// "not favorited" rather than failing the caller, and adding an existing
// favorite is a no-op.
func (f *Favoriter) Add(ctx context.Context, userID, courseID uuid.UUID) bool {
	err := f.repo.CreateFavorite(ctx, Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: f.clock.Now().UTC(),
	})
	if err != nil {
		slog.Warn("favorite add failed", "course_id", courseID, "error", err)

		return false
	}

	f.invalidator.CourseLists(ctx)

	return true
}

// Remove is the best-effort inverse of Add. Removing a favorite that does not
// exist is a no-op reported as success.
func (f *Favoriter) Remove(ctx context.Context, userID, courseID uuid.UUID) bool {
	if err := f.repo.DeleteFavorite(ctx, userID, courseID); err != nil {
		slog.Warn("favorite remove failed", "course_id", courseID, "error", err)

		return false
	}

	f.invalidator.CourseLists(ctx)

	return true
}

// Get returns the favorite count and, when a viewer is known, whether that
// viewer has favorited the course.
func (f *Favoriter) Get(ctx context.Context, courseID uuid.UUID, viewerID *uuid.UUID) (FavoriteStatus, error) {
	if _, err := f.repo.GetCourse(ctx, courseID); err != nil {
		return FavoriteStatus{}, errors.Trace(err)
	}

	var status FavoriteStatus

	count, err := f.repo.CountFavorites(ctx, courseID)
	if err != nil {
		return FavoriteStatus{}, errors.Trace(err)
	}
	status.FavoriteCount = count

	if viewerID != nil {
		status.IsFavorite, err = f.repo.HasFavorite(ctx, *viewerID, courseID)
		if err != nil {
			return FavoriteStatus{}, errors.Trace(err)
		}
	}

	return status, nil
}

func (f *Favoriter) ListMine(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	favorites, err := f.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return favorites, nil
}
