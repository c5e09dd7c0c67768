package registryapi

import (
	"bytes"
	"credential-registry/src/registry"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

const (
	HeaderCaller    = "X-Registry-Caller"
	HeaderSignature = "X-Registry-Signature"
	HeaderTimestamp = "X-Registry-Timestamp"

	callerContextKey = "registry_caller"
	maxClockSkew     = 5 * time.Minute
	maxBodyBytes     = 1 << 20
)

// SigningPayload is the message a caller signs: unix timestamp, method,
// request path and raw body, newline separated.
func SigningPayload(timestamp int64, method, path string, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n%s\n%s\n", timestamp, method, path)
	buf.Write(body)
	return buf.Bytes()
}

// SignRequest sets the caller headers on req for key. The body must
// already be attached and is restored after reading.
func SignRequest(req *http.Request, key solana.PrivateKey, now time.Time) error {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	ts := now.Unix()
	sig, err := key.Sign(SigningPayload(ts, req.Method, req.URL.Path, body))
	if err != nil {
		return err
	}

	req.Header.Set(HeaderCaller, key.PublicKey().String())
	req.Header.Set(HeaderSignature, sig.String())
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	return nil
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: msg, ReasonCode: string(registry.ErrUnauthorized.Code)})
}

// replayGuard remembers accepted signatures until their timestamp falls
// out of the accepted window. ed25519 signatures are deterministic, so a
// repeated signature is a repeated (caller, timestamp, request).
type replayGuard struct {
	mu   sync.Mutex
	seen map[solana.Signature]time.Time
}

func newReplayGuard() *replayGuard {
	return &replayGuard{seen: make(map[solana.Signature]time.Time)}
}

func (g *replayGuard) firstUse(sig solana.Signature, signedAt, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for s, expires := range g.seen {
		if now.After(expires) {
			delete(g.seen, s)
		}
	}
	if _, ok := g.seen[sig]; ok {
		return false
	}
	g.seen[sig] = signedAt.Add(maxClockSkew)
	return true
}

// CallerSignatureMiddleware authenticates the caller as the ed25519 key
// that signed the request. A signed request is accepted once. Role checks
// stay in the registry.
func CallerSignatureMiddleware(now func() time.Time) gin.HandlerFunc {
	guard := newReplayGuard()
	return func(c *gin.Context) {
		callerHeader := c.GetHeader(HeaderCaller)
		signatureHeader := c.GetHeader(HeaderSignature)
		timestampHeader := c.GetHeader(HeaderTimestamp)
		if callerHeader == "" || signatureHeader == "" || timestampHeader == "" {
			unauthorized(c, "missing caller signature headers")
			return
		}

		caller, err := solana.PublicKeyFromBase58(callerHeader)
		if err != nil {
			unauthorized(c, "invalid caller key")
			return
		}
		signature, err := solana.SignatureFromBase58(signatureHeader)
		if err != nil {
			unauthorized(c, "invalid signature encoding")
			return
		}
		ts, err := strconv.ParseInt(timestampHeader, 10, 64)
		if err != nil {
			unauthorized(c, "invalid timestamp")
			return
		}
		receivedAt := now()
		signedAt := time.Unix(ts, 0)
		if skew := receivedAt.Sub(signedAt); skew > maxClockSkew || skew < -maxClockSkew {
			unauthorized(c, "request timestamp outside the accepted window")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
					Error:      fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
					ReasonCode: string(registry.ErrMalformedInput.Code),
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body", ReasonCode: string(registry.ErrMalformedInput.Code)})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !signature.Verify(caller, SigningPayload(ts, c.Request.Method, c.Request.URL.Path, body)) {
			unauthorized(c, "signature does not match caller")
			return
		}
		if !guard.firstUse(signature, signedAt, receivedAt) {
			unauthorized(c, "signed request was already used")
			return
		}

		c.Set(callerContextKey, registry.Principal(caller.String()))
		c.Next()
	}
}

// CallerFrom returns the authenticated principal, or "" when the route
// is not behind CallerSignatureMiddleware.
func CallerFrom(c *gin.Context) registry.Principal {
	if v, ok := c.Get(callerContextKey); ok {
		if p, ok := v.(registry.Principal); ok {
			return p
		}
	}
	return ""
}
