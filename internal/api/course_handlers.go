package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JongMin999/inflearn-fullstack-clone/common/pagination"
	"github.com/JongMin999/inflearn-fullstack-clone/internal/course"
)

func parsePageRequest(ctx *gin.Context, defaultPageSize int) pagination.Request {
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("pageSize"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	return pagination.NewRequest(page, pageSize)
}

func parsePriceBound(ctx *gin.Context, name string) (*int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}

	return &v, true
}

func (a *API) SearchCourses(ctx *gin.Context) {
	priceMin, ok := parsePriceBound(ctx, "price_min")
	if !ok {
		return
	}
	priceMax, ok := parsePriceBound(ctx, "price_max")
	if !ok {
		return
	}

	criteria := course.SearchCriteria{
		Query:        ctx.Query("q"),
		CategorySlug: ctx.Query("category"),
		PriceMin:     priceMin,
		PriceMax:     priceMax,
		Sort:         course.ParseSortMode(ctx.Query("sort")),
	}

	result, err := a.searcher.Search(ctx, criteria, parsePageRequest(ctx, pagination.DefaultPageSize))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (a *API) GetCourse(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	detail, err := a.detail.GetDetail(ctx, courseID, viewerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

func (a *API) CreateCourse(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req course.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := a.creator.Create(ctx, userID, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

type updateCourseRequest struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Price         *int64      `json:"price"`
	DiscountPrice *int64      `json:"discount_price"`
	Status        *string     `json:"status"`
	CategoryIDs   []uuid.UUID `json:"category_ids"`
}

func (a *API) UpdateCourse(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req updateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := course.CourseUpdates{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CategoryIDs:   req.CategoryIDs,
	}

	if req.Status != nil {
		status := course.CourseStatus(*req.Status)
		if status != course.StatusDraft && status != course.StatusPublished {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updates.Status = &status
	}

	updated, err := a.creator.Update(ctx, userID, courseID, updates)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (a *API) DeleteCourse(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := a.creator.Delete(ctx, userID, courseID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (a *API) Enroll(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	enrollment, err := a.enroller.Enroll(ctx, userID, courseID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, enrollment)
}

func (a *API) Unenroll(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := a.enroller.Unenroll(ctx, userID, courseID); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (a *API) GetFavorite(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	status, err := a.favoriter.Get(ctx, courseID, viewerID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

func (a *API) AddFavorite(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"isFavorite": a.favoriter.Add(ctx, userID, courseID)})
}

func (a *API) RemoveFavorite(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	removed := a.favoriter.Remove(ctx, userID, courseID)

	ctx.JSON(http.StatusOK, gin.H{"isFavorite": !removed})
}

func (a *API) GetMyCourses(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courses, err := a.browser.BrowseEnrolled(ctx, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (a *API) GetCourseProgress(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	progress, err := a.browser.Progress(ctx, userID, courseID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, progress)
}

func (a *API) GetMyFavorites(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	favorites, err := a.favoriter.ListMine(ctx, userID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"favorites": favorites})
}
