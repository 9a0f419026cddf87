package api

import (
	"net/http"
	"time"

	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var startedAt = time.Now()

type Status string

const (
	Healthy  Status = "healthy"
	Degraded Status = "degraded"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   Status        `json:"status"`
	Database Status        `json:"database"`
	Uptime   time.Duration `json:"uptime"`
}

// health reports uptime and whether the database answers a ping.
// An unreachable database yields 503.
func health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := HealthResponse{
			Status:   Healthy,
			Database: Healthy,
			Uptime:   time.Since(startedAt),
		}

		if err := ping(c, db); err != nil {
			log.Warn("database health check failed", "error", err)
			resp.Status, resp.Database = Degraded, Degraded
			return c.JSON(http.StatusServiceUnavailable, resp)
		}

		return c.JSON(http.StatusOK, resp)
	}
}

func ping(c echo.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request().Context())
}
