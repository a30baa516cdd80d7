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

func TestFavoriter_Add(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	mockRepo.On("CreateFavorite", ctx, mock.MatchedBy(func(f Favorite) bool {
		return f.UserID == userID && f.CourseID == courseID && f.CreatedAt.Equal(now)
	})).Return(nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	favoriter := NewFavoriter(clock.NewMock(now), mockRepo, mockCache)

	assert.True(t, favoriter.Add(ctx, userID, courseID))
	// Favorite counts feed the recommended ranking, so list pages are swept.
	mockCache.AssertCalled(t, "Delete", ctx, "courses:search:recommended:all:1:20")
	mockRepo.AssertExpectations(t)
}

func TestFavoriter_Add_StorageFailureReportsFalse(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("CreateFavorite", ctx, mock.Anything).Return(assert.AnError)

	favoriter := NewFavoriter(clock.Realtime(), mockRepo, mockCache)

	assert.False(t, favoriter.Add(ctx, uuid.New(), uuid.New()))
	mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFavoriter_Remove(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("DeleteFavorite", ctx, userID, courseID).Return(nil)
	mockCache.On("Delete", ctx, mock.Anything).Return(nil)

	favoriter := NewFavoriter(clock.Realtime(), mockRepo, mockCache)

	assert.True(t, favoriter.Remove(ctx, userID, courseID))
	mockRepo.AssertExpectations(t)
}

func TestFavoriter_Get(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()
	viewerID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID}, nil)
	mockRepo.On("CountFavorites", ctx, courseID).Return(42, nil)
	mockRepo.On("HasFavorite", ctx, viewerID, courseID).Return(true, nil)

	favoriter := NewFavoriter(clock.Realtime(), mockRepo, mockCache)
	status, err := favoriter.Get(ctx, courseID, &viewerID)

	assert.NoError(t, err)
	assert.Equal(t, FavoriteStatus{IsFavorite: true, FavoriteCount: 42}, status)
}

func TestFavoriter_Get_Anonymous(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{ID: courseID}, nil)
	mockRepo.On("CountFavorites", ctx, courseID).Return(7, nil)

	favoriter := NewFavoriter(clock.Realtime(), mockRepo, mockCache)
	status, err := favoriter.Get(ctx, courseID, nil)

	assert.NoError(t, err)
	assert.Equal(t, FavoriteStatus{IsFavorite: false, FavoriteCount: 7}, status)
	mockRepo.AssertNotCalled(t, "HasFavorite", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriter_Get_CourseNotFound(t *testing.T) {
	ctx := context.Background()
	courseID := uuid.New()

	mockRepo := new(RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("GetCourse", ctx, courseID).Return(Course{}, ErrCourseNotFound)

	favoriter := NewFavoriter(clock.Realtime(), mockRepo, mockCache)
	_, err := favoriter.Get(ctx, courseID, nil)

	assert.ErrorIs(t, err, ErrCourseNotFound)
}
