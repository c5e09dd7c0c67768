package registryapi

import (
	"credential-registry/pkg/logger"
	"credential-registry/pkg/utilities"
	"credential-registry/src/registry"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultEventPage = 100
	maxEventPage     = 1000
)

type Handler struct {
	Registry *registry.Registry
	log      *logger.Logger
}

func NewHandler(reg *registry.Registry, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.Default()
	}
	return &Handler{Registry: reg, log: l}
}

// GinRequestLogger logs one line per request.
func (h *Handler) GinRequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(
			logger.LoggerArg{Key: "method", Value: c.Request.Method},
			logger.LoggerArg{Key: "path", Value: c.FullPath()},
			logger.LoggerArg{Key: "status", Value: strconv.Itoa(c.Writer.Status())},
			logger.LoggerArg{Key: "ip", Value: c.ClientIP()},
			logger.LoggerArg{Key: "latency_ms", Value: strconv.FormatInt(time.Since(start).Milliseconds(), 10)},
			logger.LoggerArg{Key: "caller", Value: string(CallerFrom(c))},
		).Info("http_request")
	}
}

// VerifyAndNullify godoc
// @Summary      Verify a membership proof and consume its nullifier
// @Description  Accepts either a base64 borsh submission or a base64 proof with three public inputs [root, signal_hash, nullifier]
// @Tags         Registry
// @Accept       json
// @Produce      json
// @Param        X-Registry-Caller     header  string  true  "base58 ed25519 public key"
// @Param        X-Registry-Signature  header  string  true  "base58 signature of the request"
// @Param        X-Registry-Timestamp  header  string  true  "unix seconds"
// @Param        body  body      VerifyProofRequest  true  "Proof submission"
// @Success      200   {object}  ReceiptResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/registry/proofs [post]
func (h *Handler) VerifyAndNullify(c *gin.Context) {
	var req VerifyProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad json: "+err.Error())
		return
	}

	proof, inputs, err := registry.DecodeTransport(req.SubmissionB64, req.ProofB64, req.PublicInputs)
	if err != nil {
		h.abortWithError(c, "verify_and_nullify", err)
		return
	}

	if req.ExpectedSignal != nil {
		if err := registry.CheckSignal(inputs, req.ExpectedSignal.AppId, req.ExpectedSignal.PolicyId); err != nil {
			h.abortWithError(c, "verify_and_nullify", err)
			return
		}
	}

	receipt, err := h.Registry.VerifyAndNullify(c.Request.Context(), CallerFrom(c), proof, inputs)
	if err != nil {
		h.abortWithError(c, "verify_and_nullify", err)
		return
	}
	c.JSON(http.StatusOK, newReceiptResponse(receipt))
}

// UpdateRoot godoc
// @Summary      Publish a new credential root
// @Description  Issuer only. The new root becomes current and older roots stay valid.
// @Tags         Registry
// @Accept       json
// @Produce      json
// @Param        X-Registry-Caller     header  string  true  "base58 ed25519 public key"
// @Param        X-Registry-Signature  header  string  true  "base58 signature of the request"
// @Param        X-Registry-Timestamp  header  string  true  "unix seconds"
// @Param        body  body      UpdateRootRequest  true  "Root"
// @Success      201   {object}  EpochResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/registry/roots [post]
func (h *Handler) UpdateRoot(c *gin.Context) {
	var req UpdateRootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad json: "+err.Error())
		return
	}

	root, err := registry.ParseHash256(req.Root)
	if err != nil {
		h.abortWithError(c, "update_root", err)
		return
	}

	epoch, err := h.Registry.UpdateRoot(c.Request.Context(), CallerFrom(c), root)
	if err != nil {
		h.abortWithError(c, "update_root", err)
		return
	}
	c.JSON(http.StatusCreated, newEpochResponse(epoch))
}

// CurrentRoot godoc
// @Summary      Current root
// @Tags         Registry
// @Produce      json
// @Success      200  {object}  CurrentRootResponse
// @Router       /v1/registry/roots/current [get]
func (h *Handler) CurrentRoot(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentRootResponse{
		Root:  h.Registry.CurrentRoot(),
		Epoch: h.Registry.CurrentEpoch(),
	})
}

// ListRoots godoc
// @Summary      Root history
// @Description  Every accepted root in publication order
// @Tags         Registry
// @Produce      json
// @Success      200  {array}  EpochResponse
// @Router       /v1/registry/roots [get]
func (h *Handler) ListRoots(c *gin.Context) {
	c.JSON(http.StatusOK, utilities.Map(h.Registry.Epochs(), newEpochResponse))
}

// GetRoot godoc
// @Summary      Check a root
// @Tags         Registry
// @Produce      json
// @Param        root  path      string  true  "0x hex or decimal root"
// @Success      200   {object}  RootStatusResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /v1/registry/roots/{root} [get]
func (h *Handler) GetRoot(c *gin.Context) {
	root, err := registry.ParseHash256(c.Param("root"))
	if err != nil {
		h.abortWithError(c, "get_root", err)
		return
	}

	resp := RootStatusResponse{Root: root, Valid: h.Registry.IsValidRoot(root)}
	if epoch, ok := h.Registry.EpochOf(root); ok {
		e := newEpochResponse(epoch)
		resp.Epoch = &e
	}
	c.JSON(http.StatusOK, resp)
}

// GetNullifier godoc
// @Summary      Check a nullifier
// @Tags         Registry
// @Produce      json
// @Param        nullifier  path      string  true  "0x hex or decimal nullifier"
// @Success      200        {object}  NullifierStatusResponse
// @Failure      400        {object}  ErrorResponse
// @Router       /v1/registry/nullifiers/{nullifier} [get]
func (h *Handler) GetNullifier(c *gin.Context) {
	nullifier, err := registry.ParseHash256(c.Param("nullifier"))
	if err != nil {
		h.abortWithError(c, "get_nullifier", err)
		return
	}

	resp := NullifierStatusResponse{Nullifier: nullifier}
	if consumed, ok := h.Registry.Nullifier(nullifier); ok {
		resp.Used = true
		resp.Root = &consumed.Root
		resp.ConsumedAt = &consumed.ConsumedAt
	}
	c.JSON(http.StatusOK, resp)
}

// SetVerifier godoc
// @Summary      Replace the proof verifier
// @Description  Owner only. kind is mock or groth16; groth16 needs a base64 gnark verifying key.
// @Tags         Registry
// @Accept       json
// @Produce      json
// @Param        X-Registry-Caller     header  string  true  "base58 ed25519 public key"
// @Param        X-Registry-Signature  header  string  true  "base58 signature of the request"
// @Param        X-Registry-Timestamp  header  string  true  "unix seconds"
// @Param        body  body      SetVerifierRequest  true  "Verifier"
// @Success      200   {object}  VerifierResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/registry/verifier [put]
func (h *Handler) SetVerifier(c *gin.Context) {
	var req SetVerifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad json: "+err.Error())
		return
	}

	var vk []byte
	if req.VerifyingKeyB64 != "" {
		var err error
		if vk, err = base64.StdEncoding.DecodeString(req.VerifyingKeyB64); err != nil {
			h.abortWithError(c, "set_verifier", fmt.Errorf("%w: verifying key is not base64", registry.ErrMalformedInput))
			return
		}
	}

	verifier, err := registry.ResolveVerifier(registry.VerifierKind(req.Kind), vk)
	if err != nil {
		h.abortWithError(c, "set_verifier", err)
		return
	}

	if err := h.Registry.SetVerifier(c.Request.Context(), CallerFrom(c), verifier); err != nil {
		h.abortWithError(c, "set_verifier", err)
		return
	}
	c.JSON(http.StatusOK, VerifierResponse{Kind: string(verifier.Kind())})
}

// GetVerifier godoc
// @Summary      Current verifier kind
// @Tags         Registry
// @Produce      json
// @Success      200  {object}  VerifierResponse
// @Router       /v1/registry/verifier [get]
func (h *Handler) GetVerifier(c *gin.Context) {
	c.JSON(http.StatusOK, VerifierResponse{Kind: string(h.Registry.VerifierKind())})
}

// ListEvents godoc
// @Summary      Registry event log
// @Description  Events with seq >= from, oldest first
// @Tags         Registry
// @Produce      json
// @Param        from   query     int  false  "first seq (default 1)"
// @Param        limit  query     int  false  "page size (default 100, max 1000)"
// @Success      200    {array}   EventResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /v1/registry/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "1"), 10, 64)
	if err != nil {
		badRequest(c, "from must be an unsigned integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventPage)))
	if err != nil || limit <= 0 {
		badRequest(c, "limit must be a positive integer")
		return
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}

	c.JSON(http.StatusOK, utilities.Map(h.Registry.Events(from, limit), newEventResponse))
}

// ComputeSignal godoc
// @Summary      Compute a signal hash
// @Description  Binds an application and policy into the signal hash a proof must carry
// @Tags         Signals
// @Accept       json
// @Produce      json
// @Param        body  body      SignalRequest  true  "Application context"
// @Success      200   {object}  SignalResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /v1/signals [post]
func (h *Handler) ComputeSignal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad json: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, SignalResponse{
		AppId:      req.AppId,
		PolicyId:   req.PolicyId,
		SignalHash: registry.ComputeSignalHash(req.AppId, req.PolicyId),
	})
}
