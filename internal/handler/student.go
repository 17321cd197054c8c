package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/catalog"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// StudentByLinkingCode returns the first student carrying the linking code
// from the query string; the code is required on this route.
func (h *Handler) StudentByLinkingCode(c *gin.Context) {
	code := c.Query("linkingCode")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Linking code is required"})
		return
	}

	s, err := h.students.FindByLinkingCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// StudentByID returns a student record by id.
func (h *Handler) StudentByID(c *gin.Context) {
	s, err := h.students.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// StudentLookup is the query-parameter variant of the linking-code lookup.
func (h *Handler) StudentLookup(c *gin.Context) {
	s, err := h.students.FindByLinkingCode(c.Request.Context(), c.Query("linkingCode"))
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

type studentInstitutionsView struct {
	StudentID    string                       `json:"studentID"`
	StudentName  string                       `json:"studentName"`
	Institutions []catalog.PopulatedShortlist `json:"institutions"`
}

// AllStudentsInstitutions returns every student with their institution
// shortlists expanded.
func (h *Handler) AllStudentsInstitutions(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving data", "error": err.Error()})
		return
	}
	if len(students) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No students found"})
		return
	}

	out := make([]studentInstitutionsView, 0, len(students))
	for _, s := range students {
		populated, err := h.shortlist.Populate(c.Request.Context(), s.Institutions)
		if err != nil {
			log.Printf("populate institutions for %s failed: %v", s.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving data", "error": err.Error()})
			return
		}
		out = append(out, studentInstitutionsView{
			StudentID:    s.ID,
			StudentName:  s.Name,
			Institutions: populated,
		})
	}
	c.JSON(http.StatusOK, out)
}

// StudentInstitutions returns one student's expanded shortlist.
func (h *Handler) StudentInstitutions(c *gin.Context) {
	s, err := h.students.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching student institutions", "error": err.Error()})
		return
	}

	populated, err := h.shortlist.Populate(c.Request.Context(), s.Institutions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching student institutions", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, populated)
}
