package identity

import (
	"context"
	"errors"

	"github.com/fieldline/backend/internal/domain/identity"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemberService manages team membership
type MemberService struct {
	users   identity.UserRepository
	members identity.MemberRepository
	access  *Access
	logger  *zap.Logger
}

// NewMemberService creates a member service
func NewMemberService(users identity.UserRepository, members identity.MemberRepository, access *Access, logger *zap.Logger) *MemberService {
	return &MemberService{users: users, members: members, access: access, logger: logger}
}

// List returns the team without removed members
func (s *MemberService) List(ctx context.Context, userID, orgID uuid.UUID) ([]identity.OrganizationMember, error) {
	if _, err := s.access.Member(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return s.members.ListVisible(ctx, orgID)
}

// Invite adds a user by email. Existing accounts join immediately; unknown
// emails get an invited placeholder account.
func (s *MemberService) Invite(ctx context.Context, userID, orgID uuid.UUID, in InviteMemberInput) (*identity.OrganizationMember, error) {
	if _, err := s.access.Require(ctx, orgID, userID, identity.CapManageTeam); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = identity.RoleMember
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewInvitedUser(in.Email, in.FullName)
		if err != nil {
			return nil, err
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	member, err := s.members.FindByUser(ctx, orgID, user.ID)
	switch {
	case err == nil && member.Status != identity.MemberStatusRemoved:
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User is already a member of this organization")
	case err == nil:
		// Re-invite a removed member, keeping the row
		fresh, ferr := identity.NewInvitedMember(orgID, user.ID, in.Role)
		if ferr != nil {
			return nil, ferr
		}
		fresh.ID, fresh.CreatedAt = member.ID, member.CreatedAt
		member = fresh
	case errors.Is(err, shared.ErrNotFound):
		member, err = identity.NewInvitedMember(orgID, user.ID, in.Role)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if user.CanSignIn() {
		member.Activate()
	}
	if err := member.Apply(in.Patch); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}
	member.User = user

	s.logger.Info("Team member added",
		zap.String("organization_id", orgID.String()),
		zap.String("member_id", member.ID.String()),
		zap.String("status", string(member.Status)))
	return member, nil
}

// Update changes a member's role and capability flags
func (s *MemberService) Update(ctx context.Context, userID, orgID, memberID uuid.UUID, patch identity.MemberPatch) (*identity.OrganizationMember, error) {
	if _, err := s.access.Require(ctx, orgID, userID, identity.CapManageTeam); err != nil {
		return nil, err
	}
	member, err := s.members.FindByID(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}
	if err := member.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Remove soft-deletes a membership. The owner cannot be removed.
func (s *MemberService) Remove(ctx context.Context, userID, orgID, memberID uuid.UUID) error {
	if _, err := s.access.Require(ctx, orgID, userID, identity.CapManageTeam); err != nil {
		return err
	}
	member, err := s.members.FindByID(ctx, orgID, memberID)
	if err != nil {
		return err
	}
	if member.Status == identity.MemberStatusRemoved {
		return shared.NotFound("Member")
	}
	if err := member.Remove(); err != nil {
		return err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return err
	}
	s.logger.Info("Team member removed",
		zap.String("organization_id", orgID.String()),
		zap.String("member_id", memberID.String()))
	return nil
}
