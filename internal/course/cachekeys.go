package course

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

const (
	searchCacheTTL          = 2 * time.Minute
	instructorStatsCacheTTL = 5 * time.Minute
	courseReviewsCacheTTL   = time.Minute

	// Canonical page sizes baked into the invalidation sweeps. Entries cached
	// under other page sizes are never swept and age out via TTL.
	searchSweepPageSize  = 20
	reviewsSweepPageSize = 10
)

func searchCacheKey(sort SortMode, categorySlug string, page, pageSize int) string {
	cat := categorySlug
	if cat == "" {
		cat = "all"
	}

	return fmt.Sprintf("courses:search:%s:%s:%d:%d", sort, cat, page, pageSize)
}

func instructorStatsCacheKey(instructorID uuid.UUID) string {
	return fmt.Sprintf("instructor:stats:%s", instructorID)
}

func courseReviewsCacheKey(courseID uuid.UUID, sort ReviewSort, page, pageSize int) string {
	return fmt.Sprintf("course:reviews:%s:%s:%d:%d", courseID, sort, page, pageSize)
}

// Invalidator deletes the cache entries a mutation may have staled. The
// backing store has no pattern-based deletion, so the swept keys are a fixed
// enumerated set: untracked combinations (pages >= 3, non-canonical page
// sizes, specific categories) serve stale data until their TTL expires.
type Invalidator struct {
	cache cachelib.Cache
}

func NewInvalidator(cache cachelib.Cache) *Invalidator {
	return &Invalidator{cache: cache}
}

var (
	sweepSorts      = []SortMode{SortPopular, SortRecommended}
	sweepCategories = []string{"all", ""}
	sweepPages      = []int{1, 2}

	reviewSweepSorts = []ReviewSort{ReviewSortLatest, ReviewSortOldest, ReviewSortRatingHigh, ReviewSortRatingLow}
)

// CourseLists sweeps the ranked search pages after an enrollment or favorite
// count changed.
func (i *Invalidator) CourseLists(ctx context.Context) {
	for _, sort := range sweepSorts {
		for _, category := range sweepCategories {
			for _, page := range sweepPages {
				i.delete(ctx, searchCacheKey(sort, category, page, searchSweepPageSize))
			}
		}
	}
}

// CourseReviews sweeps a course's cached review pages after a review was
// created, updated, deleted, or replied to.
func (i *Invalidator) CourseReviews(ctx context.Context, courseID uuid.UUID) {
	for _, sort := range reviewSweepSorts {
		for _, page := range sweepPages {
			i.delete(ctx, courseReviewsCacheKey(courseID, sort, page, reviewsSweepPageSize))
		}
	}
}

// InstructorStats drops an instructor's aggregate-stats entry.
func (i *Invalidator) InstructorStats(ctx context.Context, instructorID uuid.UUID) {
	i.delete(ctx, instructorStatsCacheKey(instructorID))
}

// Invalidation is best effort: a failed delete leaves an entry to expire on
// its own, it never fails the mutation.
func (i *Invalidator) delete(ctx context.Context, key string) {
	if err := i.cache.Delete(ctx, key); err != nil {
		slog.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
