package handler

import (
	appidentity "github.com/fieldline/backend/internal/application/identity"
	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler manages organizations and their team members
type OrganizationHandler struct {
	BaseHandler
	organizations *appidentity.OrganizationService
	members       *appidentity.MemberService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(organizations *appidentity.OrganizationService, members *appidentity.MemberService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, members: members}
}

// List godoc
// @ID           listOrganizations
// @Summary      List organizations
// @Description  Organizations the caller is an active member of
// @Tags         organizations
// @Produce      json
// @Success      200 {object} APIResponse[[]OrganizationResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.organizations.List(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = toOrganizationResponse(&orgs[i])
	}
	h.Success(c, out)
}

// Create godoc
// @ID           createOrganization
// @Summary      Create an organization
// @Description  The caller becomes its owner
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body CreateOrganizationRequest true "Organization"
// @Success      201 {object} APIResponse[OrganizationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	org, err := h.organizations.Create(c.Request.Context(), userID(c), appidentity.CreateOrganizationInput{
		Name:    req.Name,
		ABN:     req.ABN,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrganizationResponse(org))
}

// Get godoc
// @ID           getOrganization
// @Summary      Get an organization
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[OrganizationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	org, err := h.organizations.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrganizationResponse(org))
}

// Update godoc
// @ID           updateOrganization
// @Summary      Update an organization
// @Description  Admins only
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Organization ID" format(uuid)
// @Param        request body UpdateOrganizationRequest true "Changes"
// @Success      200 {object} APIResponse[OrganizationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id} [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrganizationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	org, err := h.organizations.Update(c.Request.Context(), userID(c), id, req.patch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrganizationResponse(org))
}

// ListMembers godoc
// @ID           listMembers
// @Summary      List team members
// @Description  Removed members are not listed
// @Tags         members
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[[]MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id}/members [get]
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	members, err := h.members.List(c.Request.Context(), userID(c), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = toMemberResponse(&members[i])
	}
	h.Success(c, out)
}

// InviteMember godoc
// @ID           inviteMember
// @Summary      Invite a team member
// @Description  Admins or members with can_manage_team. Unknown emails get an invited account.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id      path string              true "Organization ID" format(uuid)
// @Param        request body InviteMemberRequest true "Invite"
// @Success      201 {object} APIResponse[MemberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id}/members [post]
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	orgID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req InviteMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role := identity.RoleMember
	if req.Role != "" {
		role = identity.MemberRole(req.Role)
	}
	member, err := h.members.Invite(c.Request.Context(), userID(c), orgID, appidentity.InviteMemberInput{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
		Patch:    memberPatch(nil, req.MemberPermissions, req.Trade, req.HourlyRate),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMemberResponse(member))
}

// UpdateMember godoc
// @ID           updateMember
// @Summary      Update a team member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id        path string              true "Organization ID" format(uuid)
// @Param        member_id path string              true "Member ID" format(uuid)
// @Param        request   body UpdateMemberRequest true "Changes"
// @Success      200 {object} APIResponse[MemberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id}/members/{member_id} [put]
func (h *OrganizationHandler) UpdateMember(c *gin.Context) {
	orgID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := h.pathID(c, "member_id")
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	member, err := h.members.Update(c.Request.Context(), userID(c), orgID, memberID,
		memberPatch(req.Role, req.MemberPermissions, req.Trade, req.HourlyRate))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMemberResponse(member))
}

// RemoveMember godoc
// @ID           removeMember
// @Summary      Remove a team member
// @Description  Soft delete; the owner cannot be removed
// @Tags         members
// @Param        id        path string true "Organization ID" format(uuid)
// @Param        member_id path string true "Member ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id}/members/{member_id} [delete]
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	orgID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := h.pathID(c, "member_id")
	if !ok {
		return
	}
	if err := h.members.Remove(c.Request.Context(), userID(c), orgID, memberID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
