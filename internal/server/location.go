package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
)

type updateLocationRequest struct {
	ID string `json:"id"`
	locationdomain.Patch
}

func (s *Server) CreateLocation(c *gin.Context) {
	var req locationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.locationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListLocations(c *gin.Context) {
	active, err := parseOptionalBool(c.Query("active"))
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}

	resp, err := s.locationSvc.List(c.Request.Context(), locationdomain.ListRequest{
		ActiveOnly: active != nil && *active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetLocation(c *gin.Context) {
	resp, err := s.locationSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := keyFromQueryOrBody(c, "id", req.ID)
	if id == "" {
		AbortWithError(c, missingParamError("id"))
		return
	}

	resp, err := s.locationSvc.Update(c.Request.Context(), id, req.Patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteLocation(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		AbortWithError(c, missingParamError("id"))
		return
	}

	if _, err := s.locationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully", "success": true})
}

// ReconcileLocations recomputes every location's product counter from the
// products that currently reference it.
func (s *Server) ReconcileLocations(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := s.productSvc.CountByLocation(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.locationSvc.Reconcile(ctx, counts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
