package api

import (
	"context"
	"net/http"

	"kpcoilprice/data"

	"github.com/gin-gonic/gin"
)

// PricesPath is the route the prices have always been served on.
const PricesPath = "/api/OilPricesFunction"

// PriceService returns the current prices. Failures are reported in-band.
type PriceService interface {
	GetPrices(ctx context.Context) data.OilPrices
}

// NewRouter returns the HTTP handler serving the price endpoint.
func NewRouter(svc PriceService) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	h := getPricesMethod(svc)
	router.GET(PricesPath, h)
	router.GET("/oilprices", h)

	router.NoRoute(func(c *gin.Context) {
		abortWithException(c, NewAPIException(http.StatusNotFound, ErrCodeRouteNotFound, "route not found"))
	})
	router.NoMethod(func(c *gin.Context) {
		abortWithException(c, NewAPIException(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed"))
	})

	return router
}

func getPricesMethod(svc PriceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.GetPrices(c.Request.Context()))
	}
}

func abortWithException(c *gin.Context, e *APIException) {
	e.Request = c.Request.Method + " " + c.Request.URL.String()
	c.AbortWithStatusJSON(e.Code, e)
}
