package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/survey"
)

// Section returns the documents of one survey/report section, optionally
// filtered by studentId.
func (h *Handler) Section(c *gin.Context) {
	section := c.Param("section")
	if !survey.Known(section) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown section"})
		return
	}

	docs, err := h.surveys.Documents(c.Request.Context(), section, c.Query("studentId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// SectionTest answers the frontend's connectivity probe.
func (h *Handler) SectionTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is working!"})
}
