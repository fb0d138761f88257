// Package api wires the REST controllers into a gin engine with public
// and protected route groups.
package api

import (
	"github.com/charlie572/Blind-Maze-Game/api/i"
	"github.com/gin-gonic/gin"
)

// Router builds the HTTP API. Every controller registers its public
// routes on the versioned group and its protected routes on a parallel
// group behind the authorization middleware.
type Router struct {
	addr                    string
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
}

// Config holds the settings for creating a Router.
type Config struct {
	Addr                    string // address to listen on
	BaseURL                 string // prefix for all API routes
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc
}

// NewRouter creates a Router with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:                    config.Addr,
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
	}
}

// engine assembles the gin engine and registers every controller on the
// public and protected v1 groups.
func (r *Router) engine() *gin.Engine {
	engine := gin.Default()
	base := engine.Group(r.baseURL)

	public := base.Group("/v1")
	for _, c := range r.controllers {
		c.RegisterPublic(public)
	}

	protected := base.Group("/v1")
	protected.Use(r.authorizationMiddleware)
	for _, c := range r.controllers {
		c.RegisterProtected(protected)
	}

	return engine
}

// Run starts the HTTP server on the configured address. It blocks.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	return r.engine().Run(r.addr)
}
