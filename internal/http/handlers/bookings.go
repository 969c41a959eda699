package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"
	"travelapp/internal/services"
	"travelapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler wires the booking lifecycle to HTTP. The gateway and public
// base URL come from main so tests can inject fakes.
type BookingHandler struct {
	Bookings      repositories.BookingRepo
	Listings      repositories.ListingRepo
	Users         repositories.UserRepo
	Gateway       services.PaymentGateway
	PublicBaseURL string
}

func (h BookingHandler) svc(c *gin.Context) services.BookingService {
	return services.BookingService{
		Bookings:      h.Bookings,
		Listings:      h.Listings,
		Users:         h.Users,
		Gateway:       h.Gateway,
		PublicBaseURL: h.PublicBaseURL,
		RequestID:     middleware.GetRequestID(c),
	}
}

type createBookingRequest struct {
	ListingID int64  `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// POST /api/bookings
//
// Creates a pending booking and asks the gateway for a checkout URL. When
// initialization fails the pending row is kept and the client gets a 500;
// re-posting creates a fresh booking with a fresh reference.
func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD", err)
		return
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid end_date, want YYYY-MM-DD", err)
		return
	}

	svc := h.svc(c)
	b, err := svc.Create(services.CreateBookingInput{
		ListingID: req.ListingID,
		UserID:    middleware.GetUserID(c),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	checkoutURL, err := svc.InitiatePayment(c.Request.Context(), b)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":     b,
		"payment_url": checkoutURL,
	})
}

// GET /api/bookings
func (h BookingHandler) List(c *gin.Context) {
	var listingID int64
	if raw := c.Query("listing"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid listing filter", err)
			return
		}
		listingID = v
	}

	out, err := h.svc(c).List(middleware.GetUserID(c), middleware.GetRole(c), listingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id
func (h BookingHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	b, err := h.svc(c).Get(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/bookings/:id
func (h BookingHandler) Cancel(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	b, err := h.svc(c).Cancel(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "booking canceled",
		"booking": b,
	})
}

// GET /api/bookings/:id/receipt
func (h BookingHandler) Receipt(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	svc := services.ReceiptService{
		Bookings:  h.Bookings,
		Listings:  h.Listings,
		Users:     h.Users,
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.Generate(id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
