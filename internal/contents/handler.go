package contents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"content-backend/internal/shared/server/middleware"
	"content-backend/internal/shared/server/respond"
)

const maxUploadSize = 100 << 20 // 100MB, video files included

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches content routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contents/upload", h.upload)
	rg.POST("/contents/video", h.createVideo)
	rg.POST("/contents/web", h.createWeb)
	rg.GET("/contents", h.list)
	rg.GET("/contents/:id", h.get)
	rg.GET("/contents/:id/status", h.status)
	rg.PATCH("/contents/:id", h.updateDetails)
	rg.POST("/contents/:id/reprocess", h.reprocess)
	rg.POST("/contents/:id/cancel", h.cancel)
	rg.DELETE("/contents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	content, err := h.Svc.CreateFromUpload(c.Request.Context(), userID, UploadInput{
		FileName:    fileHeader.Filename,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		File:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload content", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toCreated(content))
}

type createURLRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) createVideo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	content, err := h.Svc.CreateFromVideoURL(c.Request.Context(), userID, req.URL, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "url is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create content", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toCreated(content))
}

func (h *Handler) createWeb(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	content, err := h.Svc.CreateFromWebURL(c.Request.Context(), userID, req.URL, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "url is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create content", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toCreated(content))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list contents", nil)
		return
	}

	resp := make([]ListItemResponse, 0, len(items))
	for _, content := range items {
		resp = append(resp, toListItem(content))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	content, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err, "failed to fetch content")
		return
	}
	respond.JSON(c, http.StatusOK, content)
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	processing, err := h.Svc.Status(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err, "failed to fetch status")
		return
	}
	respond.JSON(c, http.StatusOK, processing)
}

type updateDetailsRequest struct {
	Title *string   `json:"title"`
	Tags  *[]string `json:"tags"`
	Notes *string   `json:"notes"`
}

func (h *Handler) updateDetails(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	content, err := h.Svc.UpdateDetails(c.Request.Context(), userID, c.Param("id"), DetailsUpdate{
		Title: req.Title,
		Tags:  req.Tags,
		Notes: req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "nothing to update", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update content", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, content)
}

func (h *Handler) reprocess(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	content, err := h.Svc.Reprocess(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessing):
			respond.Error(c, http.StatusConflict, "conflict", "content is already processing", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reprocess content", nil)
		}
		return
	}
	respond.JSON(c, http.StatusAccepted, toCreated(content))
}

func (h *Handler) cancel(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	content, err := h.Svc.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotCancellable):
			respond.Error(c, http.StatusConflict, "conflict", "content is not pending or processing", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to cancel content", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"contentId": content.ID,
		"status":    content.Processing.Status,
	})
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondLookupError(c, err, "failed to delete content")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) respondLookupError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "content not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
}
