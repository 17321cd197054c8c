package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

type eventView struct {
	ID        string           `json:"_id"`
	Student   *student.Student `json:"student"`
	EventName string           `json:"eventName"`
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
	EventType string           `json:"eventType"`
	Location  string           `json:"location"`
}

// ListEvents returns calendar events, filtered to one student when
// studentId is given, with the student reference populated.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), c.Query("studentId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching events", "error": err.Error()})
		return
	}

	// Resolve each referenced student once; missing students stay null.
	resolved := map[string]*student.Student{}
	out := make([]eventView, 0, len(events))
	for _, evt := range events {
		view := eventView{
			ID:        evt.ID,
			EventName: evt.EventName,
			StartDate: evt.StartDate,
			EndDate:   evt.EndDate,
			EventType: evt.EventType,
			Location:  evt.Location,
		}
		if evt.StudentID != "" {
			s, seen := resolved[evt.StudentID]
			if !seen {
				s, err = h.students.FindByID(c.Request.Context(), evt.StudentID)
				if err != nil && !errors.Is(err, student.ErrNotFound) {
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching events", "error": err.Error()})
					return
				}
				resolved[evt.StudentID] = s
			}
			view.Student = s
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, out)
}
