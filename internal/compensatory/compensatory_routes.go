package compensatory

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	comp := r.Group("/compensatory-leaves")
	comp.Use(middleware.AuthMiddleware())
	{
		comp.GET("", middleware.RBACAuthorize(rbacService, "compensatory_leave", "read"), handler.List)
		comp.GET("/me", handler.ListOwn)
		comp.GET("/:id", handler.GetByID)

		comp.POST("", handler.Create)
		comp.PUT("/:id", handler.Update)
		comp.DELETE("/:id", handler.Delete)

		comp.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "compensatory_leave", "approve"), handler.Approve)
		comp.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "compensatory_leave", "approve"), handler.Reject)
	}
}
