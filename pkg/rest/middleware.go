package rest

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware applies Handler to every request whose path starts with
// "/"+Group. Group "*" matches everything.
type Middleware struct {
	Handler gin.HandlerFunc
	Group   string
}

func NewMiddleware(group string, handler gin.HandlerFunc) Middleware {
	return Middleware{
		Group:   group,
		Handler: handler,
	}
}

func (m Middleware) Matches(path string) bool {
	if m.Group == "*" {
		return true
	}
	return strings.HasPrefix(path, "/"+strings.TrimPrefix(m.Group, "/"))
}

// Use installs the middlewares on engine, each scoped to its group.
func Use(engine *gin.Engine, middlewares ...Middleware) {
	for _, m := range middlewares {
		mw := m
		engine.Use(func(c *gin.Context) {
			if !mw.Matches(c.Request.URL.Path) {
				c.Next()
				return
			}
			mw.Handler(c)
		})
	}
}
