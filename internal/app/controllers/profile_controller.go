package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/app/services"
	"github.com/yigit/cgpa/internal/middleware"
	"github.com/yigit/cgpa/internal/pkg/helpers"
)

// ProfileController handles stored profiles, their semesters and courses
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// ImportResults creates or replaces a profile from raw result rows
// @Summary Import results
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body dto.ImportResultsRequest true "Result rows of one student"
// @Success 201 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 422 {object} dto.APIResponse "Unsupported credit hours"
// @Router /profiles/import [post]
func (c *ProfileController) ImportResults(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.ImportResultsRequest](ctx)
	if !ok {
		return
	}

	result, err := c.profileService.ImportResults(ctx, req.Rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// ListProfiles returns stored profiles page by page
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /profiles [get]
func (c *ProfileController) ListProfiles(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	items, info, err := c.profileService.ListProfiles(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: info,
	}))
}

// GetProfile returns a stored profile with its recomputed summary
// @Summary Get profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Param program query string false "Programme filter" Enums(bed, regular)
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /profiles/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	result, err := c.profileService.GetProfile(ctx, ctx.Param("id"), ctx.Query("program"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// DeleteProfile removes a stored profile
// @Summary Delete profile
// @Tags profiles
// @Param id path string true "Profile ID"
// @Success 204
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /profiles/{id} [delete]
func (c *ProfileController) DeleteProfile(ctx *gin.Context) {
	if err := c.profileService.DeleteProfile(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Trend returns the semester GPAs of a profile in chronological order
// @Summary GPA trend
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TrendPoint}
// @Router /profiles/{id}/trend [get]
func (c *ProfileController) Trend(ctx *gin.Context) {
	points, err := c.profileService.Trend(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(points))
}

// AddForecastSemester adds an empty forecast semester
// @Router /profiles/{id}/forecasts [post]
func (c *ProfileController) AddForecastSemester(ctx *gin.Context) {
	result, err := c.profileService.AddForecastSemester(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// DeleteSemester removes a semester and its courses
// @Router /profiles/{id}/semesters/{name} [delete]
func (c *ProfileController) DeleteSemester(ctx *gin.Context) {
	result, err := c.profileService.DeleteSemester(ctx, ctx.Param("id"), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// AddCourse adds a manually entered course to a semester
// @Router /profiles/{id}/semesters/{name}/courses [post]
func (c *ProfileController) AddCourse(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.AddCourseRequest](ctx)
	if !ok {
		return
	}

	result, err := c.profileService.AddCourse(ctx, ctx.Param("id"), ctx.Param("name"), req.ToCourse())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
}

// UpdateCourse edits the marks, credit hours or grade of a course
// @Router /profiles/{id}/semesters/{name}/courses/{index} [put]
func (c *ProfileController) UpdateCourse(ctx *gin.Context) {
	index, ok := courseIndex(ctx)
	if !ok {
		return
	}
	req, ok := middleware.BindJSON[dto.UpdateCourseRequest](ctx)
	if !ok {
		return
	}

	result, err := c.profileService.UpdateCourse(ctx, ctx.Param("id"), ctx.Param("name"), index, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// DeleteCourse soft-deletes a course
// @Router /profiles/{id}/semesters/{name}/courses/{index} [delete]
func (c *ProfileController) DeleteCourse(ctx *gin.Context) {
	c.setCourseDeleted(ctx, true)
}

// RestoreCourse restores a soft-deleted course
// @Router /profiles/{id}/semesters/{name}/courses/{index}/restore [post]
func (c *ProfileController) RestoreCourse(ctx *gin.Context) {
	c.setCourseDeleted(ctx, false)
}

func (c *ProfileController) setCourseDeleted(ctx *gin.Context, deleted bool) {
	index, ok := courseIndex(ctx)
	if !ok {
		return
	}

	result, err := c.profileService.SetCourseDeleted(ctx, ctx.Param("id"), ctx.Param("name"), index, deleted)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

func courseIndex(ctx *gin.Context) (int, bool) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course index").
			WithField("index").
			WithDetails("Course index must be a non-negative integer")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return index, true
}
