package pipeline

import (
	"errors"
	"net/http"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var errPipelineNotFound = echo.NewHTTPError(http.StatusNotFound, "404 Pipeline Not Found")

func (ctrl *Controller) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("pipeline_id"))
	if err != nil {
		return errPipelineNotFound
	}

	project := middleware.CurrentProject(c)
	p := &models.Pipeline{}

	err = ctrl.db.WithContext(c.Request().Context()).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB {
			return db.Order("stage_index asc").Order("name asc")
		}).
		Where("project_id = ? AND id = ?", project.ID, id).
		First(p).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errPipelineNotFound
	case err != nil:
		return echo.ErrInternalServerError.WithInternal(err)
	default:
		return c.JSON(http.StatusOK, NewResponse(p, true))
	}
}
