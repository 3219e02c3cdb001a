package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/farmstand/internal/blob"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	uploaddomain "github.com/smallbiznis/farmstand/internal/upload/domain"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

// errorResponse is the body of every non-2xx answer. The admin UI reads error.
type errorResponse struct {
	Error   string            `json:"error"`
	Type    string            `json:"type"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details string            `json:"details,omitempty"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// fieldRule describes how a domain validation sentinel is reported.
type fieldRule struct {
	err     error
	field   string
	message string
}

var validationRules = []fieldRule{
	{locationdomain.ErrInvalidName, "name", "name is required"},
	{locationdomain.ErrInvalidID, "id", "id is required"},

	{productdomain.ErrInvalidTitle, "title", "title is required"},
	{productdomain.ErrInvalidSlug, "slug", "slug is required"},
	{productdomain.ErrInvalidCategory, "category", "invalid category"},
	{productdomain.ErrInvalidAvailability, "availability", "invalid availability"},
	{productdomain.ErrInvalidStock, "stock", "stock must not be negative"},

	{orderdomain.ErrInvalidID, "id", "id is required"},
	{orderdomain.ErrInvalidProduct, "productId", "productId is required"},
	{orderdomain.ErrInvalidCustomer, "customerName", "customerName is required"},
	{orderdomain.ErrInvalidEmail, "customerEmail", "invalid customerEmail"},
	{orderdomain.ErrInvalidQuantity, "quantity", "quantity must be at least 1"},
	{orderdomain.ErrInvalidAmount, "totalAmount", "totalAmount must not be negative"},
	{orderdomain.ErrInvalidStatus, "status", "invalid status"},
	{orderdomain.ErrInvalidTransition, "status", "status transition not allowed"},

	// Upload failures carry the detected type or size in their text.
	{uploaddomain.ErrNoFile, "file", "No file uploaded"},
	{uploaddomain.ErrUnsupportedType, "file", ""},
	{uploaddomain.ErrTooLarge, "file", ""},
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request body")
}

func missingParamError(field string) error {
	return newValidationError(field, "required", field+" is required")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Type:  "internal_error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		message := "validation error"
		if len(vErr.Errors) == 1 {
			message = vErr.Errors[0].Message
		}
		return http.StatusBadRequest, errorResponse{
			Error:  message,
			Type:   "validation_error",
			Errors: vErr.Errors,
		}
	}

	if rule, ok := validationRuleFor(err); ok {
		message := rule.message
		if message == "" {
			message = err.Error()
		}
		return http.StatusBadRequest, errorResponse{
			Error: message,
			Type:  "validation_error",
			Errors: []ValidationError{
				{Field: rule.field, Code: rule.err.Error(), Message: message},
			},
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorResponse{
			Error: "invalid request",
			Type:  "validation_error",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{
			Error: notFoundMessage(err),
			Type:  "not_found",
		}
	case errors.Is(err, recordstore.ErrPersistence):
		return http.StatusInternalServerError, errorResponse{
			Error:   "failed to save changes",
			Type:    "persistence_error",
			Details: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Error:   "internal server error",
			Type:    "internal_error",
			Details: err.Error(),
		}
	}
}

// classifyErrorForLog feeds the request logger the same type/code the client sees.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	if rule, ok := validationRuleFor(err); ok {
		return "validation_error", rule.err.Error()
	}
	switch {
	case isNotFoundError(err):
		return "not_found", notFoundCode(err)
	case errors.Is(err, recordstore.ErrPersistence):
		return "persistence_error", "persistence_error"
	default:
		return "internal_error", "internal_error"
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationRuleFor(err error) (fieldRule, bool) {
	for _, rule := range validationRules {
		if errors.Is(err, rule.err) {
			return rule, true
		}
	}
	return fieldRule{}, false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, locationdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, uploaddomain.ErrNotFound),
		errors.Is(err, blob.ErrNotFound):
		return true
	default:
		return false
	}
}

func notFoundCode(err error) string {
	switch {
	case errors.Is(err, locationdomain.ErrNotFound):
		return locationdomain.ErrNotFound.Error()
	case errors.Is(err, productdomain.ErrNotFound):
		return productdomain.ErrNotFound.Error()
	case errors.Is(err, orderdomain.ErrNotFound):
		return orderdomain.ErrNotFound.Error()
	case errors.Is(err, uploaddomain.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return uploaddomain.ErrNotFound.Error()
	default:
		return ErrNotFound.Error()
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, locationdomain.ErrNotFound):
		return "Location not found"
	case errors.Is(err, productdomain.ErrNotFound):
		return "Product not found"
	case errors.Is(err, orderdomain.ErrNotFound):
		return "Order not found"
	case errors.Is(err, uploaddomain.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return "File not found"
	default:
		return "not found"
	}
}
