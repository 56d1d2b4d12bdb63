package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/apierr"
)

// MessageResponse is a plain informational reply.
type MessageResponse struct {
	Detail string `json:"detail"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request envelope.
func respondBadRequest(c *gin.Context, errType, msg string, loc ...string) {
	c.JSON(http.StatusBadRequest, apierr.New(errType, msg, loc...))
}

// respondNotFound sends a 404 Not Found envelope.
func respondNotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, apierr.New("not_found", msg))
}

// respondUnauthorized sends a 401 envelope with the WWW-Authenticate header.
func respondUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, apierr.New("user.not_authenticated", msg))
}

// respondForbidden sends a 403 envelope. Reserved; no endpoint uses it yet.
func respondForbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, apierr.New("user.not_authorized", msg))
}

// respondInternalError logs the error and sends a generic 500 envelope.
// The actual error is logged but not exposed to the client. Logging is
// best-effort and must never itself fail the request.
func respondInternalError(c *gin.Context, err error, context string) {
	func() {
		defer func() { _ = recover() }()
		log.Printf("Internal error (%s): %v", context, err)
	}()
	c.JSON(http.StatusInternalServerError, apierr.New("internal_error", "internal server error"))
}

// bindJSON binds the request body and responds with a 400 envelope on
// failure. Returns false when the request was already answered.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondBadRequest(c, "validation_error", err.Error(), "body")
		return false
	}
	return true
}
