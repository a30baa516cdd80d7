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

func TestCreator_Create(t *testing.T) {
	ctx := context.Background()
	instructorID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	categoryID := uuid.New()

	mockRepo.On("SlugExists", ctx, "intro-to-go").Return(false, nil)
	mockRepo.On("CreateCourse", ctx, mock.MatchedBy(func(c Course) bool {
		return c.Slug == "intro-to-go" &&
			c.Status == StatusDraft &&
			c.InstructorID == instructorID &&
			c.CreatedAt.Equal(now)
	}), []uuid.UUID{categoryID}).Return(nil)

	creator := NewCreator(clock.NewMock(now), mockRepo, mockCache)
	course, err := creator.Create(ctx, instructorID, CreateCourseRequest{
		Title:       "Intro to Go",
		Price:       33000,
		CategoryIDs: []uuid.UUID{categoryID},
	})

	assert.NoError(t, err)
	assert.Equal(t, "intro-to-go", course.Slug)
	assert.Equal(t, StatusDraft, course.Status)

	mockRepo.AssertExpectations(t)
}

func TestCreator_Create_SlugCollisionProbesSuffixes(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("SlugExists", ctx, "intro-to-go").Return(true, nil)
	mockRepo.On("SlugExists", ctx, "intro-to-go-1").Return(true, nil)
	mockRepo.On("SlugExists", ctx, "intro-to-go-2").Return(false, nil)
	mockRepo.On("CreateCourse", ctx, mock.Anything, mock.Anything).Return(nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)
	course, err := creator.Create(ctx, uuid.New(), CreateCourseRequest{Title: "Intro to Go"})

	assert.NoError(t, err)
	assert.Equal(t, "intro-to-go-2", course.Slug)

	mockRepo.AssertExpectations(t)
}

func TestCreator_Create_Validation(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)

	t.Run("missing_title", func(t *testing.T) {
		_, err := creator.Create(ctx, uuid.New(), CreateCourseRequest{Title: "   "})
		assert.ErrorIs(t, err, ErrNoTitle)
	})

	t.Run("price_too_large", func(t *testing.T) {
		_, err := creator.Create(ctx, uuid.New(), CreateCourseRequest{Title: "ok", Price: MaxPrice + 1})
		assert.ErrorIs(t, err, ErrPriceTooLarge)
	})

	t.Run("discount_too_large", func(t *testing.T) {
		discount := int64(MaxPrice + 1)
		_, err := creator.Create(ctx, uuid.New(), CreateCourseRequest{Title: "ok", DiscountPrice: &discount})
		assert.ErrorIs(t, err, ErrPriceTooLarge)
	})

	mockRepo.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreator_Update_NotOwner(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, InstructorID: uuid.New()}, nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)
	title := "New Title"
	_, err := creator.Update(ctx, uuid.New(), courseID, CourseUpdates{Title: &title})

	assert.ErrorIs(t, err, ErrNotCourseOwner)
	mockRepo.AssertNotCalled(t, "UpdateCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreator_Update(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()
	instructorID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	status := StatusPublished
	updates := CourseUpdates{Status: &status}

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, InstructorID: instructorID}, nil)
	mockRepo.On("UpdateCourse", ctx, courseID, updates).Return(Course{ID: courseID, Status: StatusPublished}, nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)
	updated, err := creator.Update(ctx, instructorID, courseID, updates)

	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, updated.Status)

	// Publishing changes the catalog; the ranked list pages are swept.
	mockCache.AssertCalled(t, "Delete", ctx, "courses:search:popular:all:1:20")
	mockRepo.AssertExpectations(t)
}

func TestCreator_Update_NoFieldsIsNoOp(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()
	instructorID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	existing := Course{ID: courseID, InstructorID: instructorID, Title: "Unchanged"}
	mockRepo.On("GetCourse", ctx, courseID).Return(existing, nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)
	course, err := creator.Update(ctx, instructorID, courseID, CourseUpdates{})

	assert.NoError(t, err)
	assert.Equal(t, existing, course)
	mockRepo.AssertNotCalled(t, "UpdateCourse", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreator_Delete(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()
	instructorID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, InstructorID: instructorID}, nil)
	mockRepo.On("DeleteCourse", ctx, courseID).Return(nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)

	assert.NoError(t, creator.Delete(ctx, instructorID, courseID))
	mockCache.AssertCalled(t, "Delete", ctx, "instructor:stats:"+instructorID.String())
	mockRepo.AssertExpectations(t)
}

func TestCreator_Delete_NotOwner(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID, InstructorID: uuid.New()}, nil)

	creator := NewCreator(clock.Realtime(), mockRepo, mockCache)

	assert.ErrorIs(t, creator.Delete(ctx, uuid.New(), courseID), ErrNotCourseOwner)
	mockRepo.AssertNotCalled(t, "DeleteCourse", mock.Anything, mock.Anything)
}
