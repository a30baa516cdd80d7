package course

import (
	"context"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

type Enroller struct {
	clock       clock.Clock
	repo        Repository
	invalidator *Invalidator
}

func NewEnroller(clk clock.Clock, repo Repository, cache cachelib.Cache) *Enroller {
	return &Enroller{
		clock:       clk,
		repo:        repo,
		invalidator: NewInvalidator(cache),
	}
}

// Enroll signs a user up for a free course. Anything with a non-zero
// effective price has to go through checkout, which confirms the enrollment
// itself after payment.
func (e *Enroller) Enroll(ctx context.Context, userID, courseID uuid.UUID) (Enrollment, error) {
	course, err := e.repo.GetCourse(ctx, courseID)
	if err != nil {
		return Enrollment{}, errors.Trace(err)
	}

	if course.EffectivePrice() > 0 {
		return Enrollment{}, errors.Trace(ErrPaymentRequired)
	}

	enrollment := Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: e.clock.Now().UTC(),
	}

	if err := e.repo.CreateEnrollment(ctx, enrollment); err != nil {
		return Enrollment{}, errors.Trace(err)
	}

	e.invalidator.CourseLists(ctx)
	e.invalidator.InstructorStats(ctx, course.InstructorID)

	return enrollment, nil
}

func (e *Enroller) Unenroll(ctx context.Context, userID, courseID uuid.UUID) error {
	course, err := e.repo.GetCourse(ctx, courseID)
	if err != nil {
		return errors.Trace(err)
	}

	if err := e.repo.DeleteEnrollment(ctx, userID, courseID); err != nil {
		return errors.Trace(err)
	}

	e.invalidator.CourseLists(ctx)
	e.invalidator.InstructorStats(ctx, course.InstructorID)

	return nil
}
