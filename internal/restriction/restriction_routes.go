package restriction

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
	restrictions := r.Group("/leave-restrictions")
	restrictions.Use(middleware.AuthMiddleware())
	{
		restrictions.GET("", middleware.RBACAuthorize(rbacService, "restriction", "read"), handler.GetAll)
		restrictions.GET("/:id", middleware.RBACAuthorize(rbacService, "restriction", "read"), handler.GetByID)
		restrictions.POST("", middleware.RBACAuthorize(rbacService, "restriction", "manage"), handler.Create)
		restrictions.PUT("/:id", middleware.RBACAuthorize(rbacService, "restriction", "manage"), handler.Update)
		restrictions.DELETE("/:id", middleware.RBACAuthorize(rbacService, "restriction", "manage"), handler.Delete)
	}
}
