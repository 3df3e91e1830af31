package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/middleware"
	"github.com/sagile-io/sagile/backend/internal/services"
)

// actorFrom builds the acting user from the JWT claims that AuthRequired
// placed in the context.
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		ID:       middleware.GetUserID(c),
		Username: middleware.GetUsername(c),
		Role:     middleware.GetRole(c),
	}
}
