package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/errors"
)

// DataResponse is the success envelope every endpoint returns: the payload is
// always under a single "data" key so clients never branch on response shape.
type DataResponse struct {
	Data any `json:"data"`
}

// parseID extracts a UUID path parameter. On a malformed id it writes the 400
// response itself and reports false.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+": must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
