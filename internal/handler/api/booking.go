package api

import (
	"net/http"

	reqdto "booking-service/internal/handler/dto/request"
	resdto "booking-service/internal/handler/dto/response"
	"booking-service/internal/handler/httperr"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	orchestrator usecase.BookingOrchestrator
}

func NewBookingHandler(orchestrator usecase.BookingOrchestrator) *BookingHandler {
	return &BookingHandler{orchestrator: orchestrator}
}

// @Summary Create booking
// @Description Create a pending booking after the Event service confirms availability
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /book [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidRequest, "Invalid request data")
		return
	}

	id, err := h.orchestrator.HandleCreateBooking(c.Request.Context(), req.UserID, req.EventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{
		Message:   "Booking created",
		BookingID: id,
	})
}

// @Summary Pay booking
// @Description Record payment and confirm the booking. Replays on a confirmed booking succeed.
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /pay/{id} [post]
func (h *BookingHandler) Pay(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	res, err := h.orchestrator.HandlePayment(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewTransitionResponse("Payment successful", res.Booking.Status().String(), res.Warning))
}

// @Summary Cancel booking
// @Description Cancel a booking. Canceling twice is a no-op.
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 404 {object} httperr.Response
// @Router /cancel/{id} [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	res, err := h.orchestrator.HandleCancel(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewTransitionResponse("Booking canceled", res.Booking.Status().String(), res.Warning))
}

// @Summary Get booking status
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingStatusResponse
// @Failure 404 {object} httperr.Response
// @Router /status/{id} [get]
func (h *BookingHandler) Status(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	view, err := h.orchestrator.HandleGetStatus(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// bookingID aborts with 404 for ids that cannot name a booking.
func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Booking not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeInvalidRequest, "Invalid request data")
	case errs.Is(err, errs.ErrEventNotAvailable):
		httperr.AbortWithError(c, http.StatusBadRequest, err, httperr.CodeEventNotAvailable, "Event not available")
	case errs.Is(err, errs.ErrServiceUnavailable):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, httperr.CodeServiceUnavailable, "Event service unavailable")
	case errs.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, httperr.CodeNotFound, "Booking not found")
	case errs.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, httperr.CodeInvalidTransition, "Invalid booking state transition")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Internal server error")
	}
}
