package helper_util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
)

const MaxPageSize = 200

// GetPaginationParams reads limit and offset, capping limit at MaxPageSize.
func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(MaxPageSize)))
	if err != nil || limit < 1 {
		return 0, 0, fmt.Errorf("%w: limit", vault_errors.ErrInvalidRequest)
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset", vault_errors.ErrInvalidRequest)
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, offset, nil
}
