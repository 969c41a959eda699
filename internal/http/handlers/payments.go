package handlers

import (
	"net/http"
	"strings"

	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"
	"travelapp/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the provider-facing verification endpoint. The
// route is unauthenticated: the provider redirects the payer's browser here
// and also calls it server-to-server.
type PaymentHandler struct {
	Bookings repositories.BookingRepo
	Listings repositories.ListingRepo
	Users    repositories.UserRepo
	Gateway  services.PaymentGateway
}

// GET /api/payments/verify/:reference
func (h PaymentHandler) Verify(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		RespondError(c, http.StatusBadRequest, "missing reference", nil)
		return
	}

	svc := services.BookingService{
		Bookings:  h.Bookings,
		Listings:  h.Listings,
		Users:     h.Users,
		Gateway:   h.Gateway,
		RequestID: middleware.GetRequestID(c),
	}
	b, err := svc.VerifyAndConfirm(c.Request.Context(), reference)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "payment verified",
		"booking_id": b.ID,
		"status":     b.Status,
	})
}
