package handler

import (
	"errors"   // for errors.Is comparisons against sentinel values
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/foodcourt-table-reservation/internal/catalog"
	"github.com/iliyamo/foodcourt-table-reservation/internal/middleware"
	"github.com/iliyamo/foodcourt-table-reservation/internal/repository"
	"github.com/iliyamo/foodcourt-table-reservation/internal/service"
)

// ReservationHandler translates HTTP requests into lifecycle manager calls
// and lifecycle errors back into the response envelope the food-court
// frontend expects: {success, message, data}.  Identity extraction has
// already happened in middleware; guests arrive with no user attached.
type ReservationHandler struct {
	Service *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.  The service must
// be non-nil.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Service: svc}
}

// Create handles POST /api/reservations.  It books the best-fit free table
// for the requested party, date and time slot.  Validation failures and
// capacity problems map to 400 with the user-facing reason; anything the
// caller cannot fix maps to 500.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req service.CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "All fields are required.",
		})
	}

	res, err := h.Service.Create(c.Request().Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "All fields are required.",
			})
		case errors.Is(err, catalog.ErrNoTableFits):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "No table exists for this group size.",
			})
		case errors.Is(err, catalog.ErrAllTablesBooked):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "All tables are fully booked for this slot.",
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"message": "Server error processing reservation.",
			})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Table reserved successfully!",
		"data":    res,
	})
}

// ListAll handles GET /api/reservations/all.  It returns every Active
// reservation ordered by date and time slot: the shared booking sheet every
// caller sees in full.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	reservations, err := h.Service.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to load reservations.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    reservations,
	})
}

// Search handles GET /api/reservations/search?query=...  It matches the
// query case-insensitively against reservation IDs and guest names and
// returns reservations of any status.
func (h *ReservationHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Search query is required.",
		})
	}
	reservations, err := h.Service.Search(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to search reservations.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    reservations,
	})
}

// Cancel handles PUT /api/reservations/:id/cancel.  Anyone holding a valid
// reservation ID may cancel it; the service audit-logs every cancellation
// with whatever identity the caller presented.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	reservationID := c.Param("id")
	res, err := h.Service.Cancel(c.Request().Context(), middleware.CurrentUserID(c), reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Reservation not found.",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Failed to cancel reservation.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Reservation cancelled successfully.",
		"data":    res,
	})
}
