package event

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caesium-cloud/relay/api/rest/middleware"
	"github.com/caesium-cloud/relay/internal/event"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo/v4"
)

var heartbeat = 15 * time.Second

type Controller struct {
	bus event.Bus
}

func New(bus event.Bus) *Controller {
	return &Controller{bus: bus}
}

// Stream writes the current project's events as server-sent events
// until the client goes away. The optional types query parameter is
// a comma separated list of event types.
func (ctrl *Controller) Stream(c echo.Context) error {
	filter, err := streamFilter(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	events, err := ctrl.bus.Subscribe(ctx, filter)
	if err != nil {
		return echo.ErrInternalServerError.WithInternal(err)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if !comment(w) {
		return nil
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !comment(w) {
				return nil
			}
		case e, ok := <-events:
			if !ok || !send(w, e) {
				return nil
			}
		}
	}
}

func streamFilter(c echo.Context) (event.Filter, error) {
	filter := event.Filter{ProjectID: middleware.CurrentProject(c).ID}

	raw := strings.TrimSpace(c.QueryParam("types"))
	if raw == "" {
		return filter, nil
	}

	for _, name := range strings.Split(raw, ",") {
		t, ok := event.ParseType(strings.TrimSpace(name))
		if !ok {
			return filter, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown event type %q", name))
		}
		filter.Types = append(filter.Types, t)
	}

	return filter, nil
}

func comment(w *echo.Response) bool {
	if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
		return false
	}
	w.Flush()
	return true
}

// send reports false once the client can no longer be written to.
func send(w *echo.Response, e event.Event) bool {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error("event encoding failure", "type", e.Type, "error", err)
		return true
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return false
	}
	w.Flush()
	return true
}
