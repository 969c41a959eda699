package handlers

import (
	"net/http"
	"strconv"

	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"
	"travelapp/internal/services"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	Listings repositories.ListingRepo
}

func (h ListingHandler) svc(c *gin.Context) services.ListingService {
	return services.ListingService{
		Listings:  h.Listings,
		RequestID: middleware.GetRequestID(c),
	}
}

type listingRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight int64  `json:"price_per_night"`
}

func (r listingRequest) toInput() services.ListingInput {
	return services.ListingInput{
		Title:         r.Title,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight,
	}
}

// GET /api/listings
func (h ListingHandler) List(c *gin.Context) {
	var maxPrice int64
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			RespondError(c, http.StatusBadRequest, "invalid max_price", err)
			return
		}
		maxPrice = v
	}

	out, err := h.svc(c).List(c.Query("location"), maxPrice)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": out})
}

// GET /api/listings/:id
func (h ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.svc(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// POST /api/listings
func (h ListingHandler) Create(c *gin.Context) {
	var req listingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	l, err := h.svc(c).Create(middleware.GetUserID(c), req.toInput())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/listings/:id
func (h ListingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req listingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	l, err := h.svc(c).Update(id, middleware.GetUserID(c), req.toInput())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/listings/:id
func (h ListingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(id, middleware.GetUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}
