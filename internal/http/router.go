package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "travelapp/internal/config"
	h "travelapp/internal/http/handlers"
	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"
	"travelapp/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, gateway services.PaymentGateway) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     env.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	bookings := repositories.BookingRepo{}
	listings := repositories.ListingRepo{}
	reviews := repositories.ReviewRepo{}
	users := repositories.UserRepo{}

	authH := h.AuthHandler{Users: users, JWTSecret: env.JWTSecret}
	userH := h.UserHandler{Users: users}
	listingH := h.ListingHandler{Listings: listings}
	reviewH := h.ReviewHandler{Reviews: reviews, Listings: listings}
	bookingH := h.BookingHandler{
		Bookings:      bookings,
		Listings:      listings,
		Users:         users,
		Gateway:       gateway,
		PublicBaseURL: env.PublicBaseURL,
	}
	paymentH := h.PaymentHandler{
		Bookings: bookings,
		Listings: listings,
		Users:    users,
		Gateway:  gateway,
	}

	requireAuth := middleware.RequireAuth(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		auth := api.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		api.GET("/users/me", requireAuth, userH.Me)

		api.GET("/listings", listingH.List)
		api.GET("/listings/:id", listingH.Get)
		api.POST("/listings", requireAuth, listingH.Create)
		api.PUT("/listings/:id", requireAuth, listingH.Update)
		api.DELETE("/listings/:id", requireAuth, listingH.Delete)

		api.GET("/listings/:id/reviews", reviewH.ListByListing)
		api.POST("/listings/:id/reviews", requireAuth, reviewH.Create)
		api.DELETE("/reviews/:id", requireAuth, reviewH.Delete)

		bg := api.Group("/bookings", requireAuth)
		bg.POST("", bookingH.Create)
		bg.GET("", bookingH.List)
		bg.GET("/:id", bookingH.Get)
		bg.DELETE("/:id", bookingH.Cancel)
		bg.GET("/:id/receipt", bookingH.Receipt)

		// Unauthenticated: the provider's redirect and callback both land
		// here with only the transaction reference.
		api.GET("/payments/verify/:reference", paymentH.Verify)
	}

	h.SetRouter(r)
	return r
}
