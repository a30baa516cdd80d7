package course

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
	"github.com/JongMin999/inflearn-fullstack-clone/common/pagination"
)

type ReviewSort string

const (
	ReviewSortLatest     ReviewSort = "latest"
	ReviewSortOldest     ReviewSort = "oldest"
	ReviewSortRatingHigh ReviewSort = "rating_high"
	ReviewSortRatingLow  ReviewSort = "rating_low"
)

// ParseReviewSort maps a raw sort parameter to a ReviewSort, defaulting to latest.
func ParseReviewSort(s string) ReviewSort {
	switch ReviewSort(s) {
	case ReviewSortOldest, ReviewSortRatingHigh, ReviewSortRatingLow:
		return ReviewSort(s)
	default:
		return ReviewSortLatest
	}
}

func (s ReviewSort) OrderBy() string {
	switch s {
	case ReviewSortOldest:
		return "rv.created_at ASC"
	case ReviewSortRatingHigh:
		return "rv.rating DESC, rv.created_at DESC"
	case ReviewSortRatingLow:
		return "rv.rating ASC, rv.created_at DESC"
	default:
		return "rv.created_at DESC"
	}
}

// ReviewPage is one page of a course's reviews. MyReviewExists is viewer
// specific and therefore never part of the cached payload.
type ReviewPage struct {
	Reviews        []Review         `json:"reviews"`
	Pagination     pagination.Pages `json:"pagination"`
	MyReviewExists bool             `json:"myReviewExists"`
}

type cachedReviewPage struct {
	Reviews    []Review         `json:"reviews"`
	Pagination pagination.Pages `json:"pagination"`
}

// InstructorReview is a review as shown on the instructor dashboard.
type InstructorReview struct {
	Review
	CourseTitle string `json:"course_title"`
}

type Reviewer struct {
	clock       clock.Clock
	repo        Repository
	cache       cachelib.Cache
	invalidator *Invalidator
}

func NewReviewer(clk clock.Clock, repo Repository, cache cachelib.Cache) *Reviewer {
	return &Reviewer{
		clock:       clk,
		repo:        repo,
		cache:       cache,
		invalidator: NewInvalidator(cache),
	}
}

// Create adds a review for an enrolled learner. Instructors cannot review
// their own courses, and each learner gets at most one review per course.
func (r *Reviewer) Create(ctx context.Context, userID, courseID uuid.UUID, rating int, content string) (Review, error) {
	course, err := r.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	if course.InstructorID == userID {
		return Review{}, errors.Trace(ErrOwnCourseReview)
	}

	enrolled, err := r.repo.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}
	if !enrolled {
		return Review{}, errors.Trace(ErrNotEnrolled)
	}

	review := Review{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Rating:    rating,
		Content:   content,
		CreatedAt: r.clock.Now().UTC(),
	}

	if err := r.repo.CreateReview(ctx, review); err != nil {
		return Review{}, errors.Trace(err)
	}

	r.invalidator.CourseReviews(ctx, courseID)
	r.invalidator.InstructorStats(ctx, course.InstructorID)

	return review, nil
}

func (r *Reviewer) Update(ctx context.Context, userID, reviewID uuid.UUID, rating int, content string) (Review, error) {
	review, err := r.repo.GetReview(ctx, reviewID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	if review.UserID != userID {
		return Review{}, errors.Trace(ErrNotReviewAuthor)
	}

	course, err := r.repo.GetCourse(ctx, review.CourseID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	updated, err := r.repo.UpdateReview(ctx, reviewID, rating, content, r.clock.Now().UTC())
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	r.invalidator.CourseReviews(ctx, review.CourseID)
	r.invalidator.InstructorStats(ctx, course.InstructorID)

	return updated, nil
}

func (r *Reviewer) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := r.repo.GetReview(ctx, reviewID)
	if err != nil {
		return errors.Trace(err)
	}

	if review.UserID != userID {
		return errors.Trace(ErrNotReviewAuthor)
	}

	course, err := r.repo.GetCourse(ctx, review.CourseID)
	if err != nil {
		return errors.Trace(err)
	}

	if err := r.repo.DeleteReview(ctx, reviewID); err != nil {
		return errors.Trace(err)
	}

	r.invalidator.CourseReviews(ctx, review.CourseID)
	r.invalidator.InstructorStats(ctx, course.InstructorID)

	return nil
}

// Reply records or replaces the instructor's answer on a review.
func (r *Reviewer) Reply(ctx context.Context, instructorID, reviewID uuid.UUID, reply string) (Review, error) {
	review, err := r.repo.GetReview(ctx, reviewID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	course, err := r.repo.GetCourse(ctx, review.CourseID)
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	if course.InstructorID != instructorID {
		return Review{}, errors.Trace(ErrNotCourseOwner)
	}

	updated, err := r.repo.SetInstructorReply(ctx, reviewID, reply, r.clock.Now().UTC())
	if err != nil {
		return Review{}, errors.Trace(err)
	}

	r.invalidator.CourseReviews(ctx, review.CourseID)
	r.invalidator.InstructorStats(ctx, instructorID)

	return updated, nil
}

// CoursePage returns one page of a course's reviews, served read-through from
// the cache. The viewer's own-review flag is looked up live on every call.
func (r *Reviewer) CoursePage(ctx context.Context, courseID uuid.UUID, viewerID *uuid.UUID, sort ReviewSort, page pagination.Request) (ReviewPage, error) {
	if _, err := r.repo.GetCourse(ctx, courseID); err != nil {
		return ReviewPage{}, errors.Trace(err)
	}

	var out ReviewPage

	key := courseReviewsCacheKey(courseID, sort, page.Page, page.PageSize)
	cached, hit := r.lookup(ctx, key)
	if hit {
		out.Reviews = cached.Reviews
		out.Pagination = cached.Pagination
	} else {
		total, err := r.repo.CountCourseReviews(ctx, courseID)
		if err != nil {
			return ReviewPage{}, errors.Trace(err)
		}

		reviews, err := r.repo.ListCourseReviews(ctx, courseID, sort, page.Offset(), page.PageSize)
		if err != nil {
			return ReviewPage{}, errors.Trace(err)
		}

		out.Reviews = reviews
		out.Pagination = pagination.NewPages(page, total)

		r.store(ctx, key, cachedReviewPage{Reviews: reviews, Pagination: out.Pagination})
	}

	if viewerID != nil {
		exists, err := r.repo.HasUserReview(ctx, *viewerID, courseID)
		if err != nil {
			return ReviewPage{}, errors.Trace(err)
		}
		out.MyReviewExists = exists
	}

	return out, nil
}

// ForInstructor returns every review on the instructor's courses, unanswered
// ones first and newest first within each group.
func (r *Reviewer) ForInstructor(ctx context.Context, instructorID uuid.UUID) ([]InstructorReview, error) {
	reviews, err := r.repo.ListInstructorReviews(ctx, instructorID)
	if err != nil {
		return nil, errors.Trace(err)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if (a.InstructorReply == nil) != (b.InstructorReply == nil) {
			return a.InstructorReply == nil
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		return a.ID.String() > b.ID.String()
	})

	return reviews, nil
}

// A cache failure is served as a miss.
func (r *Reviewer) lookup(ctx context.Context, key string) (cachedReviewPage, bool) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cachelib.ErrNoValueForKey) {
			slog.Warn("review cache read failed", "key", key, "error", err)
		}

		return cachedReviewPage{}, false
	}

	var page cachedReviewPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		slog.Warn("review cache entry corrupt", "key", key, "error", err)

		return cachedReviewPage{}, false
	}

	return page, true
}

func (r *Reviewer) store(ctx context.Context, key string, page cachedReviewPage) {
	payload, err := json.Marshal(page)
	if err != nil {
		slog.Warn("review cache encode failed", "key", key, "error", err)

		return
	}

	if err := r.cache.SetEx(ctx, key, string(payload), courseReviewsCacheTTL); err != nil {
		slog.Warn("review cache write failed", "key", key, "error", err)
	}
}
