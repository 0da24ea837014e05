package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	customerdomain "github.com/movecrewlabs/movecrew/internal/customer/domain"
	estimatedomain "github.com/movecrewlabs/movecrew/internal/estimate/domain"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
)

// APIError is the wire shape for every error response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var ErrInvalidRequest = &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "the request body or parameters are invalid"}

var errStatus = map[error]int{
	catalogdomain.ErrCategoryNotFound:           http.StatusNotFound,
	catalogdomain.ErrChargeNotFound:             http.StatusNotFound,
	catalogdomain.ErrInvalidChargeKind:          http.StatusBadRequest,
	catalogdomain.ErrInvalidPercentBase:         http.StatusBadRequest,
	catalogdomain.ErrInvalidRequest:             http.StatusBadRequest,
	templatedomain.ErrTemplateNotFound:          http.StatusNotFound,
	templatedomain.ErrTemplateItemNotFound:      http.StatusNotFound,
	templatedomain.ErrDuplicateCharge:           http.StatusConflict,
	templatedomain.ErrInvalidRequest:            http.StatusBadRequest,
	customerdomain.ErrCustomerNotFound:          http.StatusNotFound,
	estimatedomain.ErrEstimateNotFound:          http.StatusNotFound,
	estimatedomain.ErrLineItemNotFound:          http.StatusNotFound,
	estimatedomain.ErrEstimateLocked:            http.StatusConflict,
	estimatedomain.ErrInvalidStatusTransition:   http.StatusConflict,
	estimatedomain.ErrInvalidRequest:            http.StatusBadRequest,
	estimatedomain.ErrCircularChargeDependency:  http.StatusUnprocessableEntity,
	pagination.ErrInvalidPageToken:              http.StatusBadRequest,
}

// AbortWithError maps domain sentinel errors onto HTTP statuses; anything
// unmapped is an internal error.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	for sentinel, status := range errStatus {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(status, gin.H{"error": &APIError{
				Status:  status,
				Code:    sentinel.Error(),
				Message: sentinel.Error(),
			}})
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "an unexpected error occurred",
	}})
}
