package echo

import "github.com/gin-gonic/gin"

func SetupEchoRoutes(router *gin.RouterGroup, controller Controller, extra ...gin.HandlerFunc) {
	echo := router.Group("/echo")
	echo.Use(extra...)
	{
		echo.POST("", controller.Echo)            // POST /api/v1/echo - Echo one message
		echo.POST("/batch", controller.EchoBatch) // POST /api/v1/echo/batch - Echo many messages
	}
}
