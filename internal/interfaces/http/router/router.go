package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resource is one endpoint under the API prefix. Each resource answers GET
// and POST on a single path; the handlers pick the operation from ?action=.
type Resource struct {
	// Path is relative to the API prefix, e.g. "/cart"
	Path string
	Get  gin.HandlerFunc
	Post gin.HandlerFunc

	// PublicGet and PublicPost skip the session guard for that method
	PublicGet  bool
	PublicPost bool

	// Middleware runs before the guard for both methods
	Middleware []gin.HandlerFunc
}

// API mounts resources below /api/<version> behind shared middleware
type API struct {
	group     *gin.RouterGroup
	guard     gin.HandlerFunc
	resources []Resource
}

// NewAPI creates the versioned group on engine. guard is placed in front of
// every non-public method; a nil guard leaves all routes open.
func NewAPI(engine *gin.Engine, version string, guard gin.HandlerFunc, middleware ...gin.HandlerFunc) *API {
	group := engine.Group("/api/" + version)
	if len(middleware) > 0 {
		group.Use(middleware...)
	}
	return &API{group: group, guard: guard}
}

// Mount registers the resources immediately
func (a *API) Mount(resources ...Resource) *API {
	for _, res := range resources {
		if res.Get != nil {
			a.group.Handle(http.MethodGet, res.Path, a.chain(res, res.PublicGet, res.Get)...)
		}
		if res.Post != nil {
			a.group.Handle(http.MethodPost, res.Path, a.chain(res, res.PublicPost, res.Post)...)
		}
		a.resources = append(a.resources, res)
	}
	return a
}

// Paths lists the mounted resource paths in mount order
func (a *API) Paths() []string {
	paths := make([]string, len(a.resources))
	for i, res := range a.resources {
		paths[i] = res.Path
	}
	return paths
}

func (a *API) chain(res Resource, public bool, h gin.HandlerFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(res.Middleware)+2)
	handlers = append(handlers, res.Middleware...)
	if !public && a.guard != nil {
		handlers = append(handlers, a.guard)
	}
	return append(handlers, h)
}
