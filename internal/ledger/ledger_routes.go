package ledger

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
	assignments := r.Group("/leave-assignments")
	assignments.Use(middleware.AuthMiddleware())
	{
		assignments.GET("", middleware.RBACAuthorize(rbacService, "leave_assignment", "read"), handler.GetCompanyAssignments)
		assignments.GET("/employee/:employeeID", middleware.RBACAuthorize(rbacService, "leave_assignment", "read"), handler.GetEmployeeBalances)
		assignments.GET("/me", handler.GetOwnBalances)
		assignments.GET("/forecast", handler.Forecast)
		assignments.POST("", middleware.RBACAuthorize(rbacService, "leave_assignment", "manage"), handler.Assign)
		assignments.POST("/bulk", middleware.RBACAuthorize(rbacService, "leave_assignment", "manage"), handler.BulkAssign)
		assignments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_assignment", "manage"), handler.Unassign)
	}
}
