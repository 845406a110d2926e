package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/cgpa/internal/app/models/dto"
	"github.com/yigit/cgpa/internal/app/services"
	"github.com/yigit/cgpa/internal/middleware"
)

// CalculatorController serves stateless CGPA calculations
type CalculatorController struct {
	profileService services.ProfileService
}

// NewCalculatorController creates a new CalculatorController
func NewCalculatorController(profileService services.ProfileService) *CalculatorController {
	return &CalculatorController{
		profileService: profileService,
	}
}

// Calculate recalculates a submitted profile without storing it
// @Summary Calculate CGPA
// @Description Recomputes quality points, retake flags, semester GPAs and the cumulative summary of the submitted profile
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body dto.CalculateRequest true "Profile to calculate"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 422 {object} dto.APIResponse "Unsupported credit hours"
// @Router /calculate [post]
func (c *CalculatorController) Calculate(ctx *gin.Context) {
	req, ok := middleware.BindJSON[dto.CalculateRequest](ctx)
	if !ok {
		return
	}

	result, err := c.profileService.Calculate(ctx, req.Profile, req.Program)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
