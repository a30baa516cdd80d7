package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) GetCourse(ctx context.Context, id uuid.UUID) (Course, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(Course), args.Error(1)
}

func (m *RepositoryMock) CreateCourse(ctx context.Context, c Course, categoryIDs []uuid.UUID) error {
	args := m.Called(ctx, c, categoryIDs)

	return args.Error(0)
}

func (m *RepositoryMock) UpdateCourse(ctx context.Context, id uuid.UUID, updates CourseUpdates) (Course, error) {
	args := m.Called(ctx, id, updates)

	return args.Get(0).(Course), args.Error(1)
}

func (m *RepositoryMock) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *RepositoryMock) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)

	return args.Bool(0), args.Error(1)
}

func (m *RepositoryMock) CountCourses(ctx context.Context, criteria SearchCriteria) (int, error) {
	args := m.Called(ctx, criteria)

	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) SearchCourses(ctx context.Context, criteria SearchCriteria, offset, limit int) ([]RankedCourse, error) {
	args := m.Called(ctx, criteria, offset, limit)

	return args.Get(0).([]RankedCourse), args.Error(1)
}

func (m *RepositoryMock) GetCourseDetail(ctx context.Context, id uuid.UUID) (CourseDetail, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(CourseDetail), args.Error(1)
}

func (m *RepositoryMock) GetInstructorStats(ctx context.Context, instructorID uuid.UUID) (InstructorStats, error) {
	args := m.Called(ctx, instructorID)

	return args.Get(0).(InstructorStats), args.Error(1)
}

func (m *RepositoryMock) CreateEnrollment(ctx context.Context, e Enrollment) error {
	args := m.Called(ctx, e)

	return args.Error(0)
}

func (m *RepositoryMock) DeleteEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	args := m.Called(ctx, userID, courseID)

	return args.Error(0)
}

func (m *RepositoryMock) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)

	return args.Bool(0), args.Error(1)
}

func (m *RepositoryMock) CreateFavorite(ctx context.Context, f Favorite) error {
	args := m.Called(ctx, f)

	return args.Error(0)
}

func (m *RepositoryMock) DeleteFavorite(ctx context.Context, userID, courseID uuid.UUID) error {
	args := m.Called(ctx, userID, courseID)

	return args.Error(0)
}

func (m *RepositoryMock) HasFavorite(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)

	return args.Bool(0), args.Error(1)
}

func (m *RepositoryMock) CountFavorites(ctx context.Context, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, courseID)

	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) ListFavorites(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).([]Favorite), args.Error(1)
}

func (m *RepositoryMock) CreateReview(ctx context.Context, r Review) error {
	args := m.Called(ctx, r)

	return args.Error(0)
}

func (m *RepositoryMock) GetReview(ctx context.Context, id uuid.UUID) (Review, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(Review), args.Error(1)
}

func (m *RepositoryMock) UpdateReview(ctx context.Context, id uuid.UUID, rating int, content string, at time.Time) (Review, error) {
	args := m.Called(ctx, id, rating, content, at)

	return args.Get(0).(Review), args.Error(1)
}

func (m *RepositoryMock) DeleteReview(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *RepositoryMock) SetInstructorReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) (Review, error) {
	args := m.Called(ctx, id, reply, at)

	return args.Get(0).(Review), args.Error(1)
}

func (m *RepositoryMock) HasUserReview(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, courseID)

	return args.Bool(0), args.Error(1)
}

func (m *RepositoryMock) ListCourseReviews(ctx context.Context, courseID uuid.UUID, sort ReviewSort, offset, limit int) ([]Review, error) {
	args := m.Called(ctx, courseID, sort, offset, limit)

	return args.Get(0).([]Review), args.Error(1)
}

func (m *RepositoryMock) CountCourseReviews(ctx context.Context, courseID uuid.UUID) (int, error) {
	args := m.Called(ctx, courseID)

	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) ListInstructorReviews(ctx context.Context, instructorID uuid.UUID) ([]InstructorReview, error) {
	args := m.Called(ctx, instructorID)

	return args.Get(0).([]InstructorReview), args.Error(1)
}

func (m *RepositoryMock) GetCourseLectures(ctx context.Context, courseID uuid.UUID) ([]Lecture, error) {
	args := m.Called(ctx, courseID)

	return args.Get(0).([]Lecture), args.Error(1)
}

func (m *RepositoryMock) GetLectureActivities(ctx context.Context, userID, courseID uuid.UUID) ([]LectureActivity, error) {
	args := m.Called(ctx, userID, courseID)

	return args.Get(0).([]LectureActivity), args.Error(1)
}

func (m *RepositoryMock) GetEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).([]EnrolledCourse), args.Error(1)
}

func (m *RepositoryMock) GetLectureActivitiesForCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]LectureActivity, error) {
	args := m.Called(ctx, userID, courseIDs)

	return args.Get(0).([]LectureActivity), args.Error(1)
}

func (m *RepositoryMock) GetReviewedCourseIDs(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID, courseIDs)

	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}
