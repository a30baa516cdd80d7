package course

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
)

func TestEnroller_Enroll_FreeCourse(t *testing.T) {
	ctx := context.Background()
	userID := uuid.MustParse("4e37a600-c29e-4d0f-af44-66f2cd8cc1c9")
	courseID := uuid.MustParse("fb9ffe2c-ad66-4766-9b7b-46fd5d9acd72")
	instructorID := uuid.MustParse("60766223-ff9f-4871-a497-f765c05a0c5e")

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	mockRepo.On("GetCourse", ctx, courseID).Return(Course{
		ID:           courseID,
		Price:        0,
		Status:       StatusPublished,
		InstructorID: instructorID,
	}, nil)

	var persisted Enrollment
	mockRepo.On("CreateEnrollment", ctx, mock.MatchedBy(func(e Enrollment) bool {
		persisted = e

		return e.UserID == userID && e.CourseID == courseID && e.EnrolledAt.Equal(now)
	})).Return(nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	enroller := NewEnroller(clock.NewMock(now), mockRepo, mockCache)
	enrollment, err := enroller.Enroll(ctx, userID, courseID)

	assert.NoError(t, err)
	assert.Equal(t, userID, enrollment.UserID)
	assert.Equal(t, courseID, enrollment.CourseID)
	assert.Equal(t, now, enrollment.EnrolledAt)

	// The ID handed back to the caller is the one that was stored.
	assert.Equal(t, persisted.ID, enrollment.ID)

	// The ranked list pages and the instructor's stats entry are swept.
	mockCache.AssertCalled(t, "Delete", ctx, "courses:search:popular:all:1:20")
	mockCache.AssertCalled(t, "Delete", ctx, "courses:search:recommended:all:2:20")
	mockCache.AssertCalled(t, "Delete", ctx, "instructor:stats:"+instructorID.String())
	mockCache.AssertNumberOfCalls(t, "Delete", 9)

	mockRepo.AssertExpectations(t)
}

func TestEnroller_Enroll_PaidCourseNeedsCheckout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, Price: 55000}, nil)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)
	_, err := enroller.Enroll(ctx, userID, courseID)

	assert.ErrorIs(t, err, ErrPaymentRequired)
	mockRepo.AssertNotCalled(t, "CreateEnrollment", mock.Anything, mock.Anything)
}

func TestEnroller_Enroll_ZeroDiscountFallsBackToPrice(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	// A zero discount is "no discount", so the list price decides.
	zero := int64(0)
	mockRepo.On("GetCourse", ctx, courseID).Return(Course{
		ID:            courseID,
		Price:         55000,
		DiscountPrice: &zero,
	}, nil)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)
	_, err := enroller.Enroll(ctx, userID, courseID)

	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestEnroller_Enroll_AlreadyEnrolled(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID}, nil)
	mockRepo.On("CreateEnrollment", ctx, mock.Anything).Return(ErrAlreadyEnrolled)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)
	_, err := enroller.Enroll(ctx, userID, courseID)

	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEnroller_Enroll_CourseNotFound(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	courseID := uuid.New()
	mockRepo.On("GetCourse", ctx, courseID).Return(Course{}, ErrCourseNotFound)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)
	_, err := enroller.Enroll(ctx, uuid.New(), courseID)

	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnroller_Unenroll(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()
	instructorID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, InstructorID: instructorID}, nil)
	mockRepo.On("DeleteEnrollment", ctx, userID, courseID).Return(nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)

	assert.NoError(t, enroller.Unenroll(ctx, userID, courseID))
	mockCache.AssertCalled(t, "Delete", ctx, "instructor:stats:"+instructorID.String())
	mockRepo.AssertExpectations(t)
}

func TestEnroller_Unenroll_NotEnrolled(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID}, nil)
	mockRepo.On("DeleteEnrollment", ctx, userID, courseID).Return(ErrEnrollmentNotFound)

	enroller := NewEnroller(clock.Realtime(), mockRepo, mockCache)

	assert.ErrorIs(t, enroller.Unenroll(ctx, userID, courseID), ErrEnrollmentNotFound)
	mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
