package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JongMin999/inflearn-fullstack-clone/internal/course"
)

const defaultReviewPageSize = 10

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

func (a *API) GetCourseReviews(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	page, err := a.reviewer.CoursePage(
		ctx,
		courseID,
		viewerID(ctx),
		course.ParseReviewSort(ctx.Query("sort")),
		parsePageRequest(ctx, defaultReviewPageSize),
	)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

func (a *API) CreateReview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := a.reviewer.Create(ctx, userID, courseID, req.Rating, req.Content)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

func (a *API) UpdateReview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	reviewID, ok := reviewIDParam(ctx)
	if !ok {
		return
	}

	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := a.reviewer.Update(ctx, userID, reviewID, req.Rating, req.Content)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

func (a *API) DeleteReview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	reviewID, ok := reviewIDParam(ctx)
	if !ok {
		return
	}

	if err := a.reviewer.Delete(ctx, userID, reviewID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (a *API) ReplyToReview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	reviewID, ok := reviewIDParam(ctx)
	if !ok {
		return
	}

	var req struct {
		Reply string `json:"reply"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := a.reviewer.Reply(ctx, userID, reviewID, req.Reply)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}

func (a *API) GetInstructorReviews(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	reviews, err := a.reviewer.ForInstructor(ctx, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
