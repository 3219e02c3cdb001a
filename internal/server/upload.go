package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	uploaddomain "github.com/smallbiznis/farmstand/internal/upload/domain"
	"go.uber.org/zap"
)

const uploadFormField = "file"

func (s *Server) UploadImage(c *gin.Context) {
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			AbortWithError(c, uploaddomain.ErrNoFile)
			return
		}
		AbortWithError(c, invalidRequestError())
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	resp, err := s.uploadSvc.Store(c.Request.Context(), uploaddomain.StoreRequest{
		Filename:     header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteUpload(c *gin.Context) {
	key := strings.TrimSpace(c.Query("filename"))
	if key == "" {
		AbortWithError(c, missingParamError("filename"))
		return
	}

	if err := s.uploadSvc.Delete(c.Request.Context(), key); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload deleted successfully", "success": true})
}

func (s *Server) ServeUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	info, body, err := s.uploadSvc.Open(c.Request.Context(), key)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			s.log.Warn("close upload body", zap.String("key", key), zap.Error(cerr))
		}
	}()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, map[string]string{
		"Cache-Control": "public, max-age=31536000, immutable",
	})
}
