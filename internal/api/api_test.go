package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tilinna/clock"

	cachelib "github.com/JongMin999/inflearn-fullstack-clone/common/cache"
	"github.com/JongMin999/inflearn-fullstack-clone/internal/course"
)

func newTestRouter(repo course.Repository, cache cachelib.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)

	clk := clock.Realtime()
	a := New(
		course.NewSearcher(repo, cache),
		course.NewDetailAssembler(repo, cache),
		course.NewEnroller(clk, repo, cache),
		course.NewFavoriter(clk, repo, cache),
		course.NewReviewer(clk, repo, cache),
		course.NewCreator(clk, repo, cache),
		course.NewCoursesBrowser(repo),
	)

	router := gin.New()
	a.Register(router)

	return router
}

func TestAPI_SearchCourses(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	criteria := course.SearchCriteria{Query: "golang", Sort: course.SortLatest}
	mockRepo.On("CountCourses", mock.Anything, criteria).Return(1, nil)
	mockRepo.On("SearchCourses", mock.Anything, criteria, 0, 20).Return([]course.RankedCourse{
		{Course: course.Course{ID: uuid.New(), Title: "Go Deep"}, EnrollmentCount: 7},
	}, nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses?q=golang", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result course.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "Go Deep", result.Courses[0].Title)
	assert.Equal(t, 7, result.Courses[0].TotalEnrollments)
	assert.Equal(t, 1, result.Pagination.TotalItems)
}

func TestAPI_SearchCourses_InvalidPriceBound(t *testing.T) {
	router := newTestRouter(new(course.RepositoryMock), new(cachelib.CacheMock))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses?price_min=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_GetCourse_NotFound(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	courseID := uuid.New()
	mockRepo.On("GetCourseDetail", mock.Anything, courseID).Return(course.CourseDetail{}, course.ErrCourseNotFound)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses/"+courseID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Enroll_RequiresAuth(t *testing.T) {
	router := newTestRouter(new(course.RepositoryMock), new(cachelib.CacheMock))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses/"+uuid.NewString()+"/enroll", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_Enroll_PaidCourse(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	courseID := uuid.New()
	mockRepo.On("GetCourse", mock.Anything, courseID).Return(course.Course{ID: courseID, Price: 55000}, nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses/"+courseID.String()+"/enroll", nil)
	req.Header.Set(userIDHeader, uuid.NewString())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestAPI_Enroll_Conflict(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	courseID := uuid.New()
	mockRepo.On("GetCourse", mock.Anything, courseID).Return(course.Course{ID: courseID}, nil)
	mockRepo.On("CreateEnrollment", mock.Anything, mock.Anything).Return(course.ErrAlreadyEnrolled)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses/"+courseID.String()+"/enroll", nil)
	req.Header.Set(userIDHeader, uuid.NewString())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_CreateReview_OwnCourse(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	instructorID := uuid.New()
	courseID := uuid.New()
	mockRepo.On("GetCourse", mock.Anything, courseID).Return(course.Course{ID: courseID, InstructorID: instructorID}, nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"rating": 5, "content": "my own course rocks"}`)
	req := httptest.NewRequest(http.MethodPost, "/courses/"+courseID.String()+"/reviews", body)
	req.Header.Set(userIDHeader, instructorID.String())
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_CreateReview_NotEnrolled(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	userID := uuid.New()
	courseID := uuid.New()
	mockRepo.On("GetCourse", mock.Anything, courseID).Return(course.Course{ID: courseID, InstructorID: uuid.New()}, nil)
	mockRepo.On("IsEnrolled", mock.Anything, userID, courseID).Return(false, nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"rating": 3, "content": "looks good from outside"}`)
	req := httptest.NewRequest(http.MethodPost, "/courses/"+courseID.String()+"/reviews", body)
	req.Header.Set(userIDHeader, userID.String())
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_CreateCourse(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	mockRepo.On("SlugExists", mock.Anything, "new-course").Return(false, nil)
	mockRepo.On("CreateCourse", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"title": "New Course", "price": 12000}`)
	req := httptest.NewRequest(http.MethodPost, "/courses", body)
	req.Header.Set(userIDHeader, uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created course.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "new-course", created.Slug)
	assert.Equal(t, course.StatusDraft, created.Status)
}

func TestAPI_GetCourseProgress(t *testing.T) {
	mockRepo := new(course.RepositoryMock)
	mockCache := new(cachelib.CacheMock)

	userID := uuid.New()
	courseID := uuid.New()
	duration := 100
	lecture := course.Lecture{ID: uuid.New(), Duration: &duration}

	mockRepo.On("GetCourse", mock.Anything, courseID).Return(course.Course{ID: courseID}, nil)
	mockRepo.On("GetCourseLectures", mock.Anything, courseID).Return([]course.Lecture{lecture}, nil)
	mockRepo.On("GetLectureActivities", mock.Anything, userID, courseID).Return([]course.LectureActivity{
		{LectureID: lecture.ID, IsCompleted: true},
	}, nil)

	router := newTestRouter(mockRepo, mockCache)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/my/courses/"+courseID.String()+"/progress", nil)
	req.Header.Set(userIDHeader, userID.String())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var progress course.Progress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.Equal(t, float64(100), progress.ProgressPercentage)
}
