package registryapi

import (
	reasoncodes "credential-registry/pkg/reason_codes"
	"credential-registry/src/registry"
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusOf(code reasoncodes.ReasonCode) int {
	switch code {
	case reasoncodes.ErrUnauthorized:
		return http.StatusForbidden
	case reasoncodes.ErrMalformedInput, reasoncodes.ErrUnmarshal:
		return http.StatusBadRequest
	case reasoncodes.ErrInvalidRoot, reasoncodes.ErrInvalidProof:
		return http.StatusUnprocessableEntity
	case reasoncodes.ErrNullifierAlreadyUsed, reasoncodes.ErrDuplicateRoot:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the registry error body and stops the chain.
// Internal failures keep their detail in the log only.
func (h *Handler) abortWithError(c *gin.Context, op string, err error) {
	code := registry.ReasonCodeOf(err)
	status := statusOf(code)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		h.log.Errorf(err, "%s failed", op)
		msg = "internal error"
	} else {
		h.log.Debugf("%s rejected: %v", op, err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, ReasonCode: string(code)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, ReasonCode: string(reasoncodes.ErrUnmarshal)})
}
