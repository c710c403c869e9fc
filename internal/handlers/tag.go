package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/photoboard/photoboard/internal/dto"
	apierrors "github.com/photoboard/photoboard/internal/errors"
	"github.com/photoboard/photoboard/internal/services"
)

// TagHandler coordinates tag-related HTTP handlers.
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags returns every tag with usage counts and aggregates.
func (h *TagHandler) ListTags(c *gin.Context) {
	result, err := h.tagService.ListTags()
	if err != nil {
		apierrors.InternalError(c, "Failed to list tags")
		return
	}

	tags := make([]dto.TagCountDTO, len(result.Tags))
	for i, tc := range result.Tags {
		tags[i] = dto.ToTagCountDTO(tc)
	}

	c.JSON(http.StatusOK, dto.TagListResponse{
		Tags:     tags,
		MaxCount: result.MaxCount,
		AvgCount: result.AvgCount,
	})
}

// GetTag returns a single tag by slug.
func (h *TagHandler) GetTag(c *gin.Context) {
	tc, err := h.tagService.GetTagBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to find tag")
		return
	}

	c.JSON(http.StatusOK, dto.ToTagCountDTO(*tc))
}
