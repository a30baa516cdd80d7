package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/JongMin999/inflearn-fullstack-clone/internal/course"
)

// userIDHeader carries the authenticated user's id, set by the auth proxy in
// front of this service.
const userIDHeader = "X-User-Id"

type API struct {
	searcher  *course.Searcher
	detail    *course.DetailAssembler
	enroller  *course.Enroller
	favoriter *course.Favoriter
	reviewer  *course.Reviewer
	creator   *course.Creator
	browser   *course.CoursesBrowser
}

func New(
	searcher *course.Searcher,
	detail *course.DetailAssembler,
	enroller *course.Enroller,
	favoriter *course.Favoriter,
	reviewer *course.Reviewer,
	creator *course.Creator,
	browser *course.CoursesBrowser,
) *API {
	return &API{
		searcher:  searcher,
		detail:    detail,
		enroller:  enroller,
		favoriter: favoriter,
		reviewer:  reviewer,
		creator:   creator,
		browser:   browser,
	}
}

func (a *API) Register(router *gin.Engine) {
	router.GET("/courses", a.SearchCourses)
	router.POST("/courses", a.CreateCourse)
	router.GET("/courses/:courseId", a.GetCourse)
	router.PATCH("/courses/:courseId", a.UpdateCourse)
	router.DELETE("/courses/:courseId", a.DeleteCourse)

	router.POST("/courses/:courseId/enroll", a.Enroll)
	router.DELETE("/courses/:courseId/enroll", a.Unenroll)

	router.GET("/courses/:courseId/favorite", a.GetFavorite)
	router.POST("/courses/:courseId/favorite", a.AddFavorite)
	router.DELETE("/courses/:courseId/favorite", a.RemoveFavorite)

	router.GET("/courses/:courseId/reviews", a.GetCourseReviews)
	router.POST("/courses/:courseId/reviews", a.CreateReview)
	router.PATCH("/reviews/:reviewId", a.UpdateReview)
	router.DELETE("/reviews/:reviewId", a.DeleteReview)
	router.POST("/reviews/:reviewId/reply", a.ReplyToReview)

	router.GET("/my/courses", a.GetMyCourses)
	router.GET("/my/courses/:courseId/progress", a.GetCourseProgress)
	router.GET("/my/favorites", a.GetMyFavorites)

	router.GET("/instructor/reviews", a.GetInstructorReviews)
}

// viewerID returns the authenticated user's id, or nil for anonymous requests.
func viewerID(ctx *gin.Context) *uuid.UUID {
	raw := ctx.GetHeader(userIDHeader)
	if raw == "" {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	return &id
}

// requireUser aborts with 401 when the request carries no valid user id.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	id := viewerID(ctx)
	if id == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}

	return *id, true
}

func courseIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("courseId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return uuid.Nil, false
	}

	return id, true
}

func reviewIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("reviewId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return uuid.Nil, false
	}

	return id, true
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, course.ErrReviewNotFound),
		errors.Is(err, course.ErrEnrollmentNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errors.Cause(err).Error()})
	case errors.Is(err, course.ErrNotCourseOwner),
		errors.Is(err, course.ErrNotReviewAuthor):
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.Cause(err).Error()})
	case errors.Is(err, course.ErrAlreadyEnrolled),
		errors.Is(err, course.ErrReviewExists):
		ctx.JSON(http.StatusConflict, gin.H{"error": errors.Cause(err).Error()})
	case errors.Is(err, course.ErrPaymentRequired):
		ctx.JSON(http.StatusPaymentRequired, gin.H{"error": errors.Cause(err).Error()})
	case errors.Is(err, course.ErrOwnCourseReview),
		errors.Is(err, course.ErrNotEnrolled):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.Cause(err).Error()})
	case errors.Is(err, course.ErrNoTitle),
		errors.Is(err, course.ErrPriceTooLarge):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.Cause(err).Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
