package handlers

import (
	"net/http"

	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"
	"travelapp/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Reviews  repositories.ReviewRepo
	Listings repositories.ListingRepo
}

func (h ReviewHandler) svc(c *gin.Context) services.ReviewService {
	return services.ReviewService{
		Reviews:   h.Reviews,
		Listings:  h.Listings,
		RequestID: middleware.GetRequestID(c),
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GET /api/listings/:id/reviews
func (h ReviewHandler) ListByListing(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc(c).ListByListing(listingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": out})
}

// POST /api/listings/:id/reviews
func (h ReviewHandler) Create(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rv, err := h.svc(c).Create(listingID, middleware.GetUserID(c), req.Rating, req.Comment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// DELETE /api/reviews/:id
func (h ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc(c).Delete(id, middleware.GetUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
