package approval

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	conditions := r.Group("/approval-conditions")
	conditions.Use(middleware.AuthMiddleware())
	{
		conditions.GET("", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetConditions)
		conditions.GET("/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetCondition)
		conditions.POST("", middleware.RBACAuthorize(rbacService, "approval", "manage"), handler.CreateCondition)
		conditions.PUT("/:id", middleware.RBACAuthorize(rbacService, "approval", "manage"), handler.UpdateCondition)
		conditions.DELETE("/:id", middleware.RBACAuthorize(rbacService, "approval", "manage"), handler.DeleteCondition)
	}

	chains := r.Group("/approval-chains")
	chains.Use(middleware.AuthMiddleware())
	{
		chains.GET("/:requestID", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetChain)
	}
}
