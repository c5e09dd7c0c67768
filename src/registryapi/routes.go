package registryapi

import (
	"credential-registry/pkg/rest"
	"time"

	"github.com/gin-gonic/gin"
)

const Group = "v1"

// Routes lists the registry endpoints. Mutating routes run behind auth.
func Routes(h *Handler, auth gin.HandlerFunc) []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.POST, Group, "/registry/proofs", h.VerifyAndNullify).WithMiddleware(auth),
		rest.NewRoute(rest.POST, Group, "/registry/roots", h.UpdateRoot).WithMiddleware(auth),
		rest.NewRoute(rest.GET, Group, "/registry/roots/current", h.CurrentRoot),
		rest.NewRoute(rest.GET, Group, "/registry/roots", h.ListRoots),
		rest.NewRoute(rest.GET, Group, "/registry/roots/:root", h.GetRoot),
		rest.NewRoute(rest.GET, Group, "/registry/nullifiers/:nullifier", h.GetNullifier),
		rest.NewRoute(rest.PUT, Group, "/registry/verifier", h.SetVerifier).WithMiddleware(auth),
		rest.NewRoute(rest.GET, Group, "/registry/verifier", h.GetVerifier),
		rest.NewRoute(rest.GET, Group, "/registry/events", h.ListEvents),
		rest.NewRoute(rest.POST, Group, "/signals", h.ComputeSignal),
	}
}

// DefaultRoutes wires Routes with signature auth on the wall clock.
func DefaultRoutes(h *Handler) []rest.Route {
	return Routes(h, CallerSignatureMiddleware(time.Now))
}
