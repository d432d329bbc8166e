package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staylist/staylist-backend/internal/service"
	"github.com/staylist/staylist-backend/internal/util"
)

const bookingDateLayout = "2006-01-02"

type BookingHandler struct {
	bookings *service.BookingService
}

func RegisterBookings(e *echo.Echo, auth *service.AuthService, bookings *service.BookingService) {
	handler := &BookingHandler{bookings: bookings}

	spotScoped := e.Group("/api/spots/:spotId/bookings", RequireAuth(auth))
	spotScoped.POST("", handler.createBooking)
	spotScoped.GET("", handler.listSpotBookings)

	e.GET("/api/bookings/current", handler.listCurrentBookings, RequireAuth(auth))
}

// createBooking handles POST /api/spots/:spotId/bookings
func (h *BookingHandler) createBooking(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body", http.StatusBadRequest))
	}

	start, end, ferr := parseBookingDates(req.StartDate, req.EndDate)
	if ferr != nil {
		return c.JSON(http.StatusBadRequest, util.ValidationFailed(http.StatusBadRequest, ferr))
	}

	booking, err := h.bookings.Create(c.Request().Context(), user.ID, spotID, start, end)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// listSpotBookings handles GET /api/spots/:spotId/bookings
func (h *BookingHandler) listSpotBookings(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	spotID, err := parseSpotID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	}

	bookings, windows, err := h.bookings.ListForSpot(c.Request().Context(), user.ID, spotID)
	if err != nil {
		return h.writeError(c, err)
	}
	if bookings != nil {
		return c.JSON(http.StatusOK, util.Data("Bookings", bookings))
	}
	return c.JSON(http.StatusOK, util.Data("Bookings", windows))
}

// listCurrentBookings handles GET /api/bookings/current
func (h *BookingHandler) listCurrentBookings(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required", http.StatusUnauthorized))
	}
	bookings, err := h.bookings.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("Bookings", bookings))
}

func (h *BookingHandler) writeError(c echo.Context, err error) error {
	if verr, ok := service.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, util.ValidationFailed(http.StatusBadRequest, verr.Fields))
	}
	switch {
	case errors.Is(err, service.ErrSpotNotFound):
		return c.JSON(http.StatusNotFound, util.Error(spotNotFoundMessage, http.StatusNotFound))
	case errors.Is(err, service.ErrBookingOwnSpot):
		return c.JSON(http.StatusForbidden, util.Error("Owners cannot book their own spot", http.StatusForbidden))
	case errors.Is(err, service.ErrBookingConflict):
		return c.JSON(http.StatusForbidden, util.Envelope{
			"message":    "Sorry, this spot is already booked for the specified dates",
			"statusCode": http.StatusForbidden,
			"errors": map[string]string{
				"startDate": "Start date conflicts with an existing booking",
				"endDate":   "End date conflicts with an existing booking",
			},
		})
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("Internal server error", http.StatusInternalServerError))
	}
}

func parseBookingDates(startRaw, endRaw string) (time.Time, time.Time, map[string]string) {
	errs := map[string]string{}
	start, err := time.Parse(bookingDateLayout, startRaw)
	if err != nil {
		errs["startDate"] = "startDate must be a valid date (YYYY-MM-DD)"
	}
	end, err := time.Parse(bookingDateLayout, endRaw)
	if err != nil {
		errs["endDate"] = "endDate must be a valid date (YYYY-MM-DD)"
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}
