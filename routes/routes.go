package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payflow/controllers"
	"payflow/metrics"
	"payflow/middleware"
	"payflow/services"
)

// Register wires all HTTP routes. The command and query groups sit behind
// the auth gate; login is rate limited per client IP.
func Register(r *gin.Engine, tokens *services.TokenService, ac *controllers.AuthController, cc *controllers.CommandController, qc *controllers.QueryController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/login", middleware.LoginRateLimit(), ac.Login)
	r.GET("/protected", middleware.AuthMiddleware(tokens), ac.Protected)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(tokens))
	api.POST("/transaction", cc.CreateTransaction)
	api.GET("/queries/status/:id", qc.GetPaymentStatus)
}
