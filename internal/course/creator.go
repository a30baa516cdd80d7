package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/juju/errors"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

type CreateCourseRequest struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Price         int64       `json:"price"`
	DiscountPrice *int64      `json:"discount_price"`
	CategoryIDs   []uuid.UUID `json:"category_ids"`
}

func (r CreateCourseRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.Trace(ErrNoTitle)
	}

	if r.Price > MaxPrice {
		return errors.Trace(ErrPriceTooLarge)
	}
	if r.DiscountPrice != nil && *r.DiscountPrice > MaxPrice {
		return errors.Trace(ErrPriceTooLarge)
	}

	return nil
}

type Creator struct {
	clock       clock.Clock
	repo        Repository
	invalidator *Invalidator
}

func NewCreator(clk clock.Clock, repo Repository, cache cachelib.Cache) *Creator {
	return &Creator{
		clock:       clk,
		repo:        repo,
		invalidator: NewInvalidator(cache),
	}
}

// Create registers a new draft course for the instructor. Drafts stay out of
// the catalog until published, so no cache sweep is needed here.
func (c *Creator) Create(ctx context.Context, instructorID uuid.UUID, req CreateCourseRequest) (Course, error) {
	if err := req.Validate(); err != nil {
		return Course{}, errors.Trace(err)
	}

	courseSlug, err := c.uniqueSlug(ctx, req.Title)
	if err != nil {
		return Course{}, errors.Trace(err)
	}

	course := Course{
		ID:            uuid.New(),
		Slug:          courseSlug,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Status:        StatusDraft,
		InstructorID:  instructorID,
		CreatedAt:     c.clock.Now().UTC(),
	}

	if err := c.repo.CreateCourse(ctx, course, req.CategoryIDs); err != nil {
		return Course{}, errors.Trace(err)
	}

	return course, nil
}

// uniqueSlug derives a URL slug from the title and probes for a free one,
// appending -1, -2, ... until no existing course claims it.
func (c *Creator) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)

	candidate := base
	for n := 1; ; n++ {
		taken, err := c.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", errors.Trace(err)
		}
		if !taken {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// Update applies the set fields to the instructor's own course. Published
// courses are visible in the catalog, so the ranked list pages are swept.
func (c *Creator) Update(ctx context.Context, instructorID, courseID uuid.UUID, updates CourseUpdates) (Course, error) {
	course, err := c.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, errors.Trace(err)
	}

	if course.InstructorID != instructorID {
		return Course{}, errors.Trace(ErrNotCourseOwner)
	}

	if updates.Title != nil && strings.TrimSpace(*updates.Title) == "" {
		return Course{}, errors.Trace(ErrNoTitle)
	}
	if updates.Price != nil && *updates.Price > MaxPrice {
		return Course{}, errors.Trace(ErrPriceTooLarge)
	}
	if updates.DiscountPrice != nil && *updates.DiscountPrice > MaxPrice {
		return Course{}, errors.Trace(ErrPriceTooLarge)
	}

	if !updates.HasUpdates() {
		return course, nil
	}

	updated, err := c.repo.UpdateCourse(ctx, courseID, updates)
	if err != nil {
		return Course{}, errors.Trace(err)
	}

	c.invalidator.CourseLists(ctx)

	return updated, nil
}

func (c *Creator) Delete(ctx context.Context, instructorID, courseID uuid.UUID) error {
	course, err := c.repo.GetCourse(ctx, courseID)
	if err != nil {
		return errors.Trace(err)
	}

	if course.InstructorID != instructorID {
		return errors.Trace(ErrNotCourseOwner)
	}

	if err := c.repo.DeleteCourse(ctx, courseID); err != nil {
		return errors.Trace(err)
	}

	c.invalidator.CourseLists(ctx)
	c.invalidator.InstructorStats(ctx, instructorID)

	return nil
}
