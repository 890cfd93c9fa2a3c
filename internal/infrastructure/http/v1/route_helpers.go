package v1

import (
	"github.com/gin-gonic/gin"
)

// TableRouteHandler defines the grid endpoints.
type TableRouteHandler interface {
	Get(c *gin.Context)
	SetPage(c *gin.Context)
	SetPageSize(c *gin.Context)
	SetFilter(c *gin.Context)
	ToggleServerSide(c *gin.Context)
	Retry(c *gin.Context)
}

// LookupRouteHandler defines the barcode lookup endpoints.
type LookupRouteHandler interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Close(c *gin.Context)
	FieldErrors(c *gin.Context)
}

// RegisterTableRoutes registers the grid routes.
// Every mutating route answers 202: its fetch settles asynchronously and
// the client polls GET to observe the result.
func RegisterTableRoutes(group *gin.RouterGroup, handler TableRouteHandler) {
	group.GET("", handler.Get)
	group.POST("/page", handler.SetPage)
	group.POST("/page-size", handler.SetPageSize)
	group.POST("/filter", handler.SetFilter)
	group.POST("/server-side", handler.ToggleServerSide)
	group.POST("/retry", handler.Retry)
}

// RegisterLookupRoutes registers the barcode lookup routes.
func RegisterLookupRoutes(group *gin.RouterGroup, handler LookupRouteHandler) {
	group.POST("", handler.Search)
	group.GET("", handler.Get)
	group.POST("/close", handler.Close)
	group.GET("/field-errors", handler.FieldErrors)
}
