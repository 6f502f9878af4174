package handler

import (
	"fmt"
	"net/http"

	"github.com/fieldline/backend/internal/application/operations"
	"github.com/fieldline/backend/internal/domain/job"
	"github.com/fieldline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler handles jobs and their completion reports
type JobHandler struct {
	BaseHandler
	jobs    *operations.JobService
	reports *operations.ReportService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs *operations.JobService, reports *operations.ReportService) *JobHandler {
	return &JobHandler{jobs: jobs, reports: reports}
}

// List godoc
// @ID           listJobs
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        organization_id query string false "Organization ID" format(uuid)
// @Param        status          query string false "Status"
// @Param        client_id       query string false "Client ID" format(uuid)
// @Param        property_id     query string false "Property ID" format(uuid)
// @Param        assigned_to     query string false "Assignee user ID" format(uuid)
// @Param        search          query string false "Title or address"
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20) maximum(200)
// @Success      200 {object} APIResponse[[]JobResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	orgID, err := organizationParam(req.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c, req, "client_id", "property_id", "assigned_to")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.jobs.List(c.Request.Context(), userID(c), operations.ListQuery{OrganizationID: orgID, Filter: filter})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]JobResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toJobResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getJob
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} APIResponse[JobResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	j, err := h.jobs.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toJobResponse(j))
}

// Create godoc
// @ID           createJob
// @Summary      Create a job
// @Description  Requires can_create_jobs or an admin role
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request body CreateJobRequest true "Job"
// @Success      201 {object} APIResponse[JobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.JobFields.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	jobType := job.TypeOther
	if req.JobType != "" {
		jobType = job.Type(req.JobType)
	}
	j, err := h.jobs.Create(c.Request.Context(), userID(c), operations.CreateJobInput{
		OrganizationID: uuid.MustParse(req.OrganizationID),
		Title:          req.Title,
		JobType:        jobType,
		Patch:          patch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toJobResponse(j))
}

// Update godoc
// @ID           updateJob
// @Summary      Update a job
// @Description  Requires can_edit_jobs or an admin role
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path string           true "Job ID" format(uuid)
// @Param        request body UpdateJobRequest true "Changes"
// @Success      200 {object} APIResponse[JobResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	j, err := h.jobs.Update(c.Request.Context(), userID(c), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toJobResponse(j))
}

// Delete godoc
// @ID           deleteJob
// @Summary      Delete a job
// @Description  Requires can_delete_jobs or an admin role
// @Tags         jobs
// @Param        id path string true "Job ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Complete godoc
// @ID           completeJob
// @Summary      Complete a job
// @Description  The assignee or a member with can_edit_jobs
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Job ID" format(uuid)
// @Param        request body CompleteJobRequest false "Completion notes"
// @Success      200 {object} APIResponse[JobResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/complete [post]
func (h *JobHandler) Complete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CompleteJobRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	j, err := h.jobs.Complete(c.Request.Context(), userID(c), id, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toJobResponse(j))
}

// Report godoc
// @ID           jobReport
// @Summary      Download the completion report
// @Tags         jobs
// @Produce      application/pdf
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/report [get]
func (h *JobHandler) Report(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.reports.Render(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}

// SendReport godoc
// @ID           sendJobReport
// @Summary      Email the completion report
// @Description  Renders the report, archives it and emails it with the PDF attached
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id      path string            true  "Job ID" format(uuid)
// @Param        request body SendReportRequest false "Recipient"
// @Success      200 {object} APIResponse[operations.ReportDelivery]
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/{id}/report/send [post]
func (h *JobHandler) SendReport(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req SendReportRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	delivery, err := h.reports.Send(c.Request.Context(), userID(c), id, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, delivery)
}

func sendPDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
