package middleware

import "github.com/gin-gonic/gin"

// actorHeader names the header calling systems use to identify the acting user.
const actorHeader = "X-Actor-ID"

// ActorID returns the acting user id for the request, falling back to the
// configured system actor when the caller supplied none. The fallback is an
// explicit, documented default rather than an empty or zero value.
func ActorID(c *gin.Context, defaultActorID string) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return defaultActorID
}
