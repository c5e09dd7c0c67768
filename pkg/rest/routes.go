package rest

import "github.com/gin-gonic/gin"

type HttpMethod int

const (
	GET HttpMethod = iota
	POST
	PUT
	PATCH
	DELETE
)

func (m HttpMethod) String() string {
	switch m {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case PATCH:
		return "PATCH"
	case DELETE:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

type Route struct {
	Method      HttpMethod
	Path        string
	HandlerFunc gin.HandlerFunc
	Group       string
	Middlewares []gin.HandlerFunc
}

func NewRoute(method HttpMethod, group, path string, handler gin.HandlerFunc) Route {
	return Route{
		Method:      method,
		Path:        path,
		Group:       group,
		HandlerFunc: handler,
	}
}

// WithMiddleware returns a copy of r that runs mws before its handler.
func (r Route) WithMiddleware(mws ...gin.HandlerFunc) Route {
	r.Middlewares = append(append([]gin.HandlerFunc{}, r.Middlewares...), mws...)
	return r
}

func (r Route) Handlers() []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc{}, r.Middlewares...), r.HandlerFunc)
}

// Register mounts routes on engine, creating one router group per Group.
func Register(engine *gin.Engine, routes ...Route) {
	groups := map[string]*gin.RouterGroup{}

	for _, r := range routes {
		group, exists := groups[r.Group]
		if !exists {
			group = engine.Group("/" + r.Group)
			groups[r.Group] = group
		}

		group.Handle(r.Method.String(), r.Path, r.Handlers()...)
	}
}
