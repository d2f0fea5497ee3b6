package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/configurator"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/promo"
)

type EstimateHandler struct {
	Countdown *promo.DealCountdown
	Slides    *promo.Rotator
}

func (h *EstimateHandler) Estimate(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "estimate")

	var in configurator.Input
	if err := c.Bind(&in); err != nil {
		l.Warn("estimate_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	est, err := configurator.Price(in)
	if err != nil {
		if errors.Is(err, configurator.ErrOutOfRange) {
			return echo.NewHTTPError(http.StatusBadRequest, "dimension out of range")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "operation failed")
	}
	return c.JSON(http.StatusOK, est)
}

// Deal reports the promo display state: seconds until the daily deal resets
// and the current hero slide.
func (h *EstimateHandler) Deal(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"endsIn": int(h.Countdown.Remaining() / time.Second),
		"slide":  h.Slides.Current(),
	})
}
