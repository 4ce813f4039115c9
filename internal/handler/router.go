package handler

import "github.com/gin-gonic/gin"

// NewRouter wires the middleware and all public routes.
func NewRouter(h *PrayerTimesHandler) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())
	router.Use(RequestLogMiddleware())

	router.GET("/", h.Home)
	router.GET("/health", h.Health)
	router.GET("/vakitler/:place", h.GetPrayerTimes)
	router.GET("/ilceler", h.ListDistricts)
	router.GET("/ara/:term", h.SearchDistricts)

	return router
}
