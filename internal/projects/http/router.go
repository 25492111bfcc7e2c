package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:name", h.load)
	rg.PUT("/:name", h.save)
	rg.DELETE("/:name", h.delete)
}

// RegisterCache attaches cache visibility routes.
func (h *Handler) RegisterCache(rg *gin.RouterGroup) {
	rg.GET("/stats", h.cacheStats)
	rg.POST("/clear", h.clearCache)
}
