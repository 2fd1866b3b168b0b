package calendar

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, "calendar", "read"), handler.GetHolidays)
		holidays.POST("", middleware.RBACAuthorize(rbacService, "calendar", "manage"), handler.CreateHoliday)
		holidays.PUT("/:id", middleware.RBACAuthorize(rbacService, "calendar", "manage"), handler.UpdateHoliday)
		holidays.DELETE("/:id", middleware.RBACAuthorize(rbacService, "calendar", "manage"), handler.DeleteHoliday)
	}

	companyLeaves := r.Group("/company-leaves")
	companyLeaves.Use(middleware.AuthMiddleware())
	{
		companyLeaves.GET("", middleware.RBACAuthorize(rbacService, "calendar", "read"), handler.GetCompanyLeaves)
		companyLeaves.POST("", middleware.RBACAuthorize(rbacService, "calendar", "manage"), handler.CreateCompanyLeave)
		companyLeaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "calendar", "manage"), handler.DeleteCompanyLeave)
	}
}
