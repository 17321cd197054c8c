package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/career"
)

// RecommendedCareers returns the ranked recommended career fields.
func (h *Handler) RecommendedCareers(c *gin.Context) {
	h.careerRankings(c, career.CategoryRecommended)
}

// NotRecommendedCareers returns the ranked not-recommended career fields.
func (h *Handler) NotRecommendedCareers(c *gin.Context) {
	h.careerRankings(c, career.CategoryNotRecommended)
}

func (h *Handler) careerRankings(c *gin.Context, category string) {
	fields, err := h.careers.Rankings(c.Request.Context(), category)
	if err != nil {
		if errors.Is(err, career.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No career fields found in " + category + "-careers"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching data from " + category + "-careers", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fields)
}

// AllCareers combines both ranking categories; a missing category comes
// back as an empty list rather than an error.
func (h *Handler) AllCareers(c *gin.Context) {
	recommended, err := h.careers.Rankings(c.Request.Context(), career.CategoryRecommended)
	if err != nil && !errors.Is(err, career.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching all career data", "error": err.Error()})
		return
	}
	notRecommended, err := h.careers.Rankings(c.Request.Context(), career.CategoryNotRecommended)
	if err != nil && !errors.Is(err, career.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching all career data", "error": err.Error()})
		return
	}

	if recommended == nil {
		recommended = []career.FieldRank{}
	}
	if notRecommended == nil {
		notRecommended = []career.FieldRank{}
	}
	c.JSON(http.StatusOK, gin.H{"recommended": recommended, "notRecommended": notRecommended})
}

// CareerInfo returns the info document for one career field.
func (h *Handler) CareerInfo(c *gin.Context) {
	field := c.Param("field")
	if decoded, err := url.PathUnescape(field); err == nil {
		field = decoded
	}

	info, err := h.careers.Info(c.Request.Context(), field)
	if err != nil {
		if errors.Is(err, career.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Career field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching career information", "error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", info)
}
