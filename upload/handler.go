package upload

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"exifimage/logging"
)

// Form fields that are not image metadata
const (
	FieldFile        = "file"
	FieldCollections = "collections"
	FieldUploadKey   = "upload_key"
)

// Handler exposes the upload Service over HTTP
type Handler struct {
	service   *Service
	maxUpload int64
}

// NewHandler creates a Handler. Request bodies above maxUpload bytes are rejected.
func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

// RegisterRoutes mounts the upload endpoint
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/upload", h.Upload)
}

// Upload handles a multipart upload: the image in "file", raw metadata as further form fields.
func (h *Handler) Upload(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, failed(ReasonMissingFile, map[string]string{FieldFile: err.Error()}))
		return
	}

	req := Request{
		Metadata:    make(map[string]string),
		Collections: c.PostForm(FieldCollections),
		UploadKey:   c.PostForm(FieldUploadKey),
	}
	for key, values := range form.Value {
		if key == FieldCollections || key == FieldUploadKey || len(values) == 0 {
			continue
		}
		req.Metadata[key] = values[0]
	}

	if fh, err := c.FormFile(FieldFile); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, failed(ReasonMissingFile, map[string]string{FieldFile: err.Error()}))
			return
		}
		defer f.Close()
		req.File = f
		req.FileName = fh.Filename
	}

	result := h.service.Upload(c.Request.Context(), req)
	c.JSON(statusFor(result), result)
}

func statusFor(result Result) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Reason {
	case ReasonMissingFile, ReasonInvalidMetadata:
		return http.StatusBadRequest
	case ReasonAccessDenied:
		return http.StatusForbidden
	case ReasonExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// NewRouter returns a gin engine serving the upload endpoint
func NewRouter(service *Service, maxUpload int64) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if maxUpload > 0 {
		r.MaxMultipartMemory = maxUpload
	}
	NewHandler(service, maxUpload).RegisterRoutes(r)
	return r
}

func requestLogger() gin.HandlerFunc {
	log := logging.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
