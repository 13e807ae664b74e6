package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the handlers and the per-endpoint 405 bodies. The
// availability endpoint advertises itself as GET-only; everything else
// answers with the generic message.
func NewRouter(availabilityHandler *AvailabilityHandler, reservationHandler *ReservationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(methodNotAllowed)

	availabilityHandler.Register(router)
	reservationHandler.Register(router)

	return router
}

func methodNotAllowed(c *gin.Context) {
	path := strings.TrimSuffix(c.Request.URL.Path, "/")
	if path == "/find-restaurant-availability" {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This endpoint only supports GET requests"})
		return
	}
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
