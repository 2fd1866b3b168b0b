package allocation

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	allocations := r.Group("/leave-allocations")
	allocations.Use(middleware.AuthMiddleware())
	{
		allocations.GET("", middleware.RBACAuthorize(rbacService, "leave_allocation", "read"), handler.List)
		allocations.GET("/me", handler.ListOwn)
		allocations.GET("/:id", handler.GetByID)

		allocations.POST("", handler.Create)
		allocations.PUT("/:id", handler.Update)
		allocations.DELETE("/:id", handler.Delete)

		allocations.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_allocation", "approve"), handler.Approve)
		allocations.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave_allocation", "approve"), handler.Reject)
	}
}
