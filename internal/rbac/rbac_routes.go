package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the enforce endpoint at the engine root rather than
// under /api/v1; sibling services call it without the tenant middleware stack.
func RegisterRoutes(r *gin.Engine, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
	}
}
