// Package httpapi exposes the widget's snapshot data to the dashboard host.
package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dashhost/weather-widget/internal/store"
	"github.com/dashhost/weather-widget/internal/weather"
)

var validate = validator.New()

// SnapshotSource is the read side of the pipeline: the orchestrator's
// last-known-good snapshot.
type SnapshotSource interface {
	Latest() (weather.WeatherSnapshot, bool)
	State() weather.State
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, source SnapshotSource, history *store.MemoryStore, view ViewConfig) {
	v1 := app.Group("/api/v1")

	v1.Get("/widget/current", func(c *fiber.Ctx) error {
		snapshot, ok := source.Latest()
		if !ok {
			// No refresh has ever succeeded: the renderer shows its
			// loading indicator.
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"loading": true,
				"state":   source.State().String(),
			})
		}
		return c.JSON(buildView(snapshot, view))
	})

	v1.Get("/widget/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := history.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no snapshots for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch snapshot history")
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
