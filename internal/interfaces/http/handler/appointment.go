package handler

import (
	appschedule "github.com/fieldline/backend/internal/application/schedule"
	"github.com/fieldline/backend/internal/domain/schedule"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler serves the merged calendar feed and native appointments
type AppointmentHandler struct {
	BaseHandler
	feed         *appschedule.FeedService
	appointments *appschedule.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(feed *appschedule.FeedService, appointments *appschedule.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{feed: feed, appointments: appointments}
}

// Feed godoc
// @ID           appointmentFeed
// @Summary      Calendar feed
// @Description  Appointments, scheduled jobs, asset-register jobs and the connected trade calendar, sorted by start time.
// @Description  Third-party calendar failures are omitted from the result.
// @Tags         appointments
// @Produce      json
// @Param        organization_id  query string false "Organization ID" format(uuid)
// @Param        start_date       query string false "Inclusive start, YYYY-MM-DD or RFC3339"
// @Param        end_date         query string false "Exclusive end, YYYY-MM-DD or RFC3339"
// @Param        assigned_to      query string false "Assignee user ID" format(uuid)
// @Param        include_external query bool   false "Include the trade calendar" default(true)
// @Success      200 {object} APIResponse[[]FeedEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments [get]
func (h *AppointmentHandler) Feed(c *gin.Context) {
	var req FeedRequest
	if !h.bindQuery(c, &req) {
		return
	}
	q, err := req.query(userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	entries, err := h.feed.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFeedResponse(entries))
}

func (r FeedRequest) query(user uuid.UUID) (schedule.FeedQuery, error) {
	q := schedule.FeedQuery{UserID: user, IncludeExternal: true}
	if r.IncludeExternal != nil {
		q.IncludeExternal = *r.IncludeExternal
	}
	var err error
	if q.OrganizationID, err = organizationParam(r.OrganizationID); err != nil {
		return q, err
	}
	if q.AssignedTo, err = optionalUUID("assigned_to", &r.AssignedTo); err != nil {
		return q, err
	}
	if r.StartDate != "" {
		if q.From, err = optionalDate("start_date", &r.StartDate); err != nil {
			return q, err
		}
	}
	if r.EndDate != "" {
		if q.To, err = optionalDate("end_date", &r.EndDate); err != nil {
			return q, err
		}
	}
	return q, nil
}

// Get godoc
// @ID           getAppointment
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      200 {object} APIResponse[AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.appointments.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAppointmentResponse(a))
}

// Create godoc
// @ID           createAppointment
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        request body CreateAppointmentRequest true "Appointment"
// @Success      201 {object} APIResponse[AppointmentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.AppointmentFields.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	start, err := parseDate(req.StartTime)
	if err != nil {
		h.HandleError(c, shared.InvalidInput("start_time must be an RFC3339 timestamp"))
		return
	}
	end, err := parseDate(req.EndTime)
	if err != nil {
		h.HandleError(c, shared.InvalidInput("end_time must be an RFC3339 timestamp"))
		return
	}
	a, err := h.appointments.Create(c.Request.Context(), userID(c), appschedule.CreateAppointmentInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Title:          req.Title,
		StartTime:      start,
		EndTime:        end,
		Patch:          patch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAppointmentResponse(a))
}

// Update godoc
// @ID           updateAppointment
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Appointment ID" format(uuid)
// @Param        request body UpdateAppointmentRequest true "Changes"
// @Success      200 {object} APIResponse[AppointmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [put]
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	a, err := h.appointments.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAppointmentResponse(a))
}

// Delete godoc
// @ID           deleteAppointment
// @Summary      Delete an appointment
// @Description  The creator or an admin
// @Tags         appointments
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.appointments.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
