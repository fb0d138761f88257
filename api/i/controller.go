// Package i declares the contract between the router and its
// controllers.
package i

import "github.com/gin-gonic/gin"

// Controller registers HTTP handlers on the router's route groups.
// Routes added in RegisterPublic are reachable without a token; routes
// added in RegisterProtected sit behind the authorization middleware.
// A controller with nothing to add to a group registers nothing.
type Controller interface {
	RegisterPublic(*gin.RouterGroup)
	RegisterProtected(*gin.RouterGroup)
}
