package response

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/ratelimiter"
	"anoa.com/assignmenthub/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "current_user"

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *entity.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser retrieves the authenticated user from the context
func CurrentUser(c *gin.Context) (*entity.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	user, ok := value.(*entity.User)
	if !ok || user == nil {
		return nil, apperror.ErrUnauthorized
	}

	return user, nil
}

// RequestID tags every request so log lines can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		logger.Log.WithField("path", c.Request.URL.Path).WithError(err).Error("internal error")
	}

	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	var rateErr *ratelimiter.RateLimitError
	if errors.As(err, &rateErr) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
	}

	c.JSON(code, gin.H{"error": apperror.PublicMessage(err)})
}

// BindError renders a request binding failure as 400 with readable field
// messages.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
