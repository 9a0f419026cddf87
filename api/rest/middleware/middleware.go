package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/caesium-cloud/relay/internal/access"
	"github.com/caesium-cloud/relay/internal/models"
	"github.com/caesium-cloud/relay/pkg/auth"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	HeaderPrivateToken = "PRIVATE-TOKEN"

	userKey    = "relay.user"
	projectKey = "relay.project"
)

var (
	ErrUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "401 Unauthorized")
	ErrForbidden       = echo.NewHTTPError(http.StatusForbidden, "403 Forbidden")
	ErrProjectNotFound = echo.NewHTTPError(http.StatusNotFound, "404 Project Not Found")
)

// Authenticate requires a bearer token, given either as
// "Authorization: Bearer <token>" or in the PRIVATE-TOKEN header,
// issued to an existing user.
func Authenticate(db *gorm.DB, secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearer(c.Request())
			if token == "" {
				return ErrUnauthorized
			}

			id, err := auth.ParseToken(token, secret)
			if err != nil {
				log.Debug("bearer token rejected", "error", err)
				return ErrUnauthorized
			}

			user := &models.User{}
			err = db.WithContext(c.Request().Context()).First(user, "id = ?", id).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrUnauthorized
			case err != nil:
				return echo.ErrInternalServerError.WithInternal(err)
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// Project loads the project named by the :id path parameter.
func Project(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				return ErrProjectNotFound
			}

			project := &models.Project{}
			err = db.WithContext(c.Request().Context()).First(project, "id = ?", id).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrProjectNotFound
			case err != nil:
				return echo.ErrInternalServerError.WithInternal(err)
			}

			c.Set(projectKey, project)
			return next(c)
		}
	}
}

// RequireAccess rejects authenticated users holding less than level
// on the loaded project.
func RequireAccess(oracle access.Oracle, level models.AccessLevel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, project := User(c), CurrentProject(c)
			if user == nil || project == nil {
				return ErrForbidden
			}

			ok, err := access.AtLeast(c.Request().Context(), oracle, project.ID, &user.ID, level)
			switch {
			case err != nil:
				return echo.ErrInternalServerError.WithInternal(err)
			case !ok:
				return ErrForbidden
			}

			return next(c)
		}
	}
}

// User returns the authenticated user, if any.
func User(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// CurrentProject returns the project loaded by Project.
func CurrentProject(c echo.Context) *models.Project {
	project, _ := c.Get(projectKey).(*models.Project)
	return project
}

func bearer(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(HeaderPrivateToken)); token != "" {
		return token
	}

	scheme, token, ok := strings.Cut(r.Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
