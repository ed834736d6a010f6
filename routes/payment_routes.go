package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/clients"
	"github.com/joy095/studio/config/db"
	"github.com/joy095/studio/controllers/payment_controller"
	"github.com/joy095/studio/controllers/refund_controller"
	middleware "github.com/joy095/studio/middlewares"
	"github.com/joy095/studio/middlewares/auth"
)

func RegisterPaymentRoutes(router *gin.Engine, gateways *clients.Gateways) {
	paymentController := payment_controller.NewPaymentController(db.DB, gateways)
	refundController := refund_controller.NewRefundController(db.DB)

	router.GET("/api/payments/methods", paymentController.Methods)

	// Gateway callbacks carry a signature instead of a bearer token.
	router.POST("/webhooks/razorpay", middleware.NewRateLimiter("120-1m", "razorpay-webhook"), paymentController.RazorpayWebhook)

	payments := router.Group("/api/payments")
	payments.Use(auth.AuthMiddleware())
	{
		payments.POST("/process", middleware.CombinedRateLimiter("process-payment", "5-1m", "20-1h"), paymentController.ProcessPayment)
		payments.GET("/booking/:bookingId", paymentController.BookingPayments)
	}

	refunds := router.Group("/api/refunds")
	refunds.Use(auth.AuthMiddleware())
	{
		refunds.GET("/eligibility/:id", refundController.CheckEligibility)
		refunds.POST("", middleware.CombinedRateLimiter("request-refund", "3-1m", "10-1h"), refundController.RequestRefund)
		refunds.GET("", refundController.ListMyRefunds)
	}

	admin := adminGroup(router)
	{
		admin.GET("/refunds", refundController.AdminListRefunds)
		admin.GET("/refunds/:id", refundController.AdminGetRefund)
		admin.PUT("/refunds/:id", refundController.DecideRefund)
	}
}
