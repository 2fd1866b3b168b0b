package leaverequest

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.List)
		requests.GET("/me", handler.ListOwn)
		requests.GET("/:id", handler.GetByID)

		// Creation is idempotent per Idempotency-Key and rate limited per user.
		requests.POST("",
			middleware.RateLimitByUser(rate.Limit(5), 10),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		requests.PUT("/:id", handler.Update)
		requests.DELETE("/:id", handler.Delete)

		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.Reject)
		requests.POST("/:id/cancel", handler.Cancel)

		requests.POST("/bulk/approve", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.BulkApprove)
		requests.POST("/bulk/reject", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.BulkReject)
		requests.POST("/bulk/delete", middleware.RBACAuthorize(rbacService, "leave_request", "manage"), handler.BulkDelete)
	}
}
