package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := APIKeyAuthMiddleware(h.cfg, h.logger)

	// Сессии редактирования: UI присылает сюда намерения пользователя
	sessions := api.Group("/sessions", auth)
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.DELETE("/:id", h.closeSession)

		sessions.PUT("/:id/address", h.setAddress)
		sessions.POST("/:id/map/click", h.mapClick)
		sessions.POST("/:id/map/drag-end", h.mapDragEnd)
		sessions.POST("/:id/map/tile-error", h.mapTileError)
		sessions.PUT("/:id/latitude", h.setLatitude)
		sessions.PUT("/:id/longitude", h.setLongitude)
		sessions.PUT("/:id/radius", h.setRadius)
		sessions.PUT("/:id/radius-slider", h.setRadiusSlider)

		sessions.POST("/:id/commit", h.commitSession)
	}

	// Зафиксированные геозоны
	geofences := api.Group("/geofences", auth)
	{
		geofences.GET("", h.listGeofences)
		geofences.GET("/:id", h.getGeofence)
		geofences.POST("/contains", h.findContaining)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
