package httpserver

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/session"
)

const (
	// sessionHeader carries the opaque browsing-session token. The
	// server issues one on first contact and echoes it on every
	// response so the client can persist it.
	sessionHeader = "X-Session-Token"
	// authHeader carries the optional customer access token.
	authHeader = "X-Auth-Token"

	sessionKey  = "storefront.session"
	customerKey = "storefront.customer"
)

// sessionMiddleware resolves (or creates) the browsing session and
// holds its lock for the duration of the request, serializing
// overlapping requests on the same session.
func sessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.GetOrCreate(c.GetHeader(sessionHeader))
		c.Header(sessionHeader, sess.Token)

		sess.Lock()
		defer sess.Unlock()

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// optionalAuthMiddleware attaches the customer for a valid access
// token. A missing or invalid token leaves the request anonymous; no
// endpoint behind this middleware requires authentication.
func optionalAuthMiddleware(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(authHeader)
		if token != "" && svc != nil {
			if cust, err := svc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(customerKey, cust)
			}
		}
		c.Next()
	}
}

func currentCustomer(c *gin.Context) *domain.Customer {
	if v, ok := c.Get(customerKey); ok {
		return v.(*domain.Customer)
	}
	return nil
}
