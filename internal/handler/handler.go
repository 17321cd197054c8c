// Package handler wires the domain services to the gin HTTP surface.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/account"
	"github.com/Misakaaaaaz/Parent-Portal/internal/auth"
	"github.com/Misakaaaaaz/Parent-Portal/internal/career"
	"github.com/Misakaaaaaz/Parent-Portal/internal/catalog"
	"github.com/Misakaaaaaz/Parent-Portal/internal/cloudinary"
	"github.com/Misakaaaaaz/Parent-Portal/internal/event"
	"github.com/Misakaaaaaz/Parent-Portal/internal/store"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

// EventSource lists calendar events.
type EventSource interface {
	List(ctx context.Context, studentID string) ([]event.Event, error)
}

// CareerSource reads career-field rankings and background info.
type CareerSource interface {
	Rankings(ctx context.Context, category string) ([]career.FieldRank, error)
	Info(ctx context.Context, field string) (json.RawMessage, error)
}

// SurveySource reads survey/report section payloads.
type SurveySource interface {
	Documents(ctx context.Context, section, studentID string) ([]json.RawMessage, error)
}

// Handler carries the services behind the HTTP routes.
type Handler struct {
	accounts  *account.Service
	students  student.Repository
	shortlist *catalog.Service
	events    EventSource
	careers   CareerSource
	surveys   SurveySource
	issuer    *auth.Issuer
	cdn       *cloudinary.Client // nil if Cloudinary not configured
	db        *store.DB
	redis     *store.Redis
}

// New creates a handler.
func New(
	accounts *account.Service,
	students student.Repository,
	shortlist *catalog.Service,
	events EventSource,
	careers CareerSource,
	surveys SurveySource,
	issuer *auth.Issuer,
	cdn *cloudinary.Client,
	db *store.DB,
	redis *store.Redis,
) *Handler {
	return &Handler{
		accounts:  accounts,
		students:  students,
		shortlist: shortlist,
		events:    events,
		careers:   careers,
		surveys:   surveys,
		issuer:    issuer,
		cdn:       cdn,
		db:        db,
		redis:     redis,
	}
}

// Register attaches every route to the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)

	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("/register", h.RegisterUser)
		users.POST("/signin", h.SignIn)
		users.PUT("/reset-password", h.ResetPassword)
		users.GET("/linkingCode/:linkingCode", h.UserByLinkingCode)
		users.GET("/:id", h.GetUser)

		authed := users.Group("", auth.RequireAuth(h.issuer))
		authed.PUT("/profile", h.UpdateProfile)
		authed.PUT("/change-password", h.ChangePassword)
		authed.POST("/avatar", h.UploadAvatar)
	}

	api := r.Group("/api")
	{
		students := api.Group("/students")
		students.GET("/student-data", h.StudentByLinkingCode)
		students.GET("/student-data/:id", h.StudentByID)
		students.GET("/student", h.StudentLookup)
		students.GET("/institutions", h.AllStudentsInstitutions)
		students.GET("/:id/institutions", h.StudentInstitutions)

		api.GET("/events", h.ListEvents)

		careers := api.Group("/careerFields")
		careers.GET("/recommended-careers", h.RecommendedCareers)
		careers.GET("/not-recommended-careers", h.NotRecommendedCareers)
		careers.GET("/all-careers", h.AllCareers)
		careers.GET("/career-info/:field", h.CareerInfo)

		sections := api.Group("/sections")
		sections.GET("/test", h.SectionTest)
		sections.GET("/:section", h.Section)
	}
}

// Healthz reports liveness of the backing stores.
func (h *Handler) Healthz(c *gin.Context) {
	dbHealthy := h.db != nil && h.db.Client != nil
	redisHealthy := h.redis.Healthy(c.Request.Context())
	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}
