package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
)

type updateProductRequest struct {
	Slug string `json:"slug"`
	productdomain.Patch
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Category   string `form:"category"`
		Featured   string `form:"featured"`
		LocationID string `form:"locationId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	featured, err := parseOptionalBool(query.Featured)
	if err != nil {
		AbortWithError(c, newValidationError("featured", "invalid_featured", "invalid featured"))
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Category:   strings.TrimSpace(query.Category),
		Featured:   featured,
		LocationID: strings.TrimSpace(query.LocationID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slug := keyFromQueryOrBody(c, "slug", req.Slug)
	if slug == "" {
		AbortWithError(c, missingParamError("slug"))
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), slug, req.Patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		AbortWithError(c, missingParamError("slug"))
		return
	}

	if _, err := s.productSvc.Delete(c.Request.Context(), slug); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "success": true})
}
