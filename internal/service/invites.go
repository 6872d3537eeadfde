package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
)

var (
	errInviteUnknown   = apperr.NotFound("invite not found or no longer active")
	errInviteExpired   = apperr.Gone("invite has expired")
	errInviteExhausted = apperr.Gone("invite has reached its maximum uses")
)

// IssueInvite creates a new invite code for the group. expiresInHours and maxUses
// below one leave the invite unbounded in that dimension.
func (s *Service) IssueInvite(groupID, requesterID uint, expiresInHours, maxUses int) (*model.Invite, error) {
	if _, err := getGroup(s.dbm, groupID); err != nil {
		return nil, err
	}

	if _, err := s.Ledger().RequireManager(groupID, requesterID); err != nil {
		return nil, err
	}

	inv := &model.Invite{
		GroupID:   groupID,
		Code:      uuid.NewString(),
		CreatedBy: &requesterID,
		IsActive:  true,
	}

	if expiresInHours > 0 {
		t := s.now().Add(time.Duration(expiresInHours) * time.Hour)
		inv.ExpiresAt = &t
	}

	if maxUses > 0 {
		inv.MaxUses = &maxUses
	}

	if err := s.dbm.Create(inv); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}

	s.logger.Info("invite issued", "group", groupID, "invite", inv.ID, "user", requesterID)
	s.publish(model.Event{Type: model.EventInviteIssued, GroupID: groupID, ActorID: requesterID, InviteID: inv.ID})

	return s.dbm.InviteQuery().Id(inv.ID).Full().One()
}

// ListInvites returns the group's active invites, newest first.
func (s *Service) ListInvites(groupID, requesterID uint) ([]*model.Invite, error) {
	if _, err := getGroup(s.dbm, groupID); err != nil {
		return nil, err
	}

	if _, err := s.Ledger().Require(groupID, requesterID); err != nil {
		return nil, err
	}

	res, err := s.dbm.InviteQuery().Group(groupID).Active().Full().Limit(0).Get()
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	return res, nil
}

func checkLiveness(inv *model.Invite, now time.Time) error {
	if inv == nil {
		return errInviteUnknown
	}

	switch inv.Liveness(now) {
	case model.Inactive:
		return errInviteUnknown
	case model.Expired:
		return errInviteExpired
	case model.Exhausted:
		return errInviteExhausted
	default:
		return nil
	}
}

// RedeemInvite makes userID a member of the invite's group. The invite row stays
// locked for the whole transaction and its use counter is taken with a guarded update,
// so a limited invite never admits more members than it allows.
func (s *Service) RedeemInvite(code string, userID uint) (*model.Group, error) {
	var g *model.Group
	var inviteID, groupID uint

	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		inv, err := tm.InviteQuery().Code(code).Active().ForUpdate().One()
		if err != nil {
			return fmt.Errorf("invite lookup: %w", err)
		}

		if err := checkLiveness(inv, s.now()); err != nil {
			return err
		}

		inviteID, groupID = inv.ID, inv.GroupID
		l := newLedger(tm)

		if _, ok, err := l.Role(inv.GroupID, userID); err != nil {
			return err
		} else if ok {
			return apperr.Conflict("you are already a member of this group")
		}

		if _, err := l.AddMember(inv.GroupID, userID, model.RoleMember); err != nil {
			return err
		}

		consumed, err := tm.ConsumeInvite(inv.ID)
		if err != nil {
			return fmt.Errorf("consume invite: %w", err)
		}

		if !consumed {
			return errInviteExhausted
		}

		g, err = getGroup(tm, inv.GroupID)

		return err
	})

	if err != nil {
		if apperr.IsKnown(err) {
			s.logger.Debug("invite rejected", "invite", inviteID, "user", userID, "reason", err.Error())
			s.publish(model.Event{Type: model.EventInviteRejected, GroupID: groupID, UserID: userID, InviteID: inviteID, Reason: apperr.KindOf(err)})
		}

		return nil, err
	}

	s.logger.Info("invite redeemed", "group", g.ID, "invite", inviteID, "user", userID)
	s.publish(model.Event{Type: model.EventInviteRedeemed, GroupID: g.ID, UserID: userID, InviteID: inviteID})
	s.publish(model.Event{Type: model.EventMemberJoined, GroupID: g.ID, UserID: userID, ActorID: userID})

	return g, nil
}

// DeactivateInvite switches the invite off for good. Repeating it is harmless.
func (s *Service) DeactivateInvite(groupID, inviteID, requesterID uint) error {
	var changed bool

	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		if _, err := getGroup(tm, groupID); err != nil {
			return err
		}

		if _, err := newLedger(tm).RequireManager(groupID, requesterID); err != nil {
			return err
		}

		inv, err := tm.InviteQuery().Id(inviteID).Group(groupID).ForUpdate().One()
		if err != nil {
			return fmt.Errorf("invite lookup: %w", err)
		}

		if inv == nil {
			return apperr.NotFound("invite not found")
		}

		if !inv.IsActive {
			return nil
		}

		changed = true

		return tm.InviteQuery().Id(inviteID).Update(map[string]any{"is_active": false})
	})

	if err != nil {
		return err
	}

	if changed {
		s.publish(model.Event{Type: model.EventInviteDeactivated, GroupID: groupID, ActorID: requesterID, InviteID: inviteID})
	}

	return nil
}

// InspectInvite shows what a live invite leads to without redeeming it.
func (s *Service) InspectInvite(code string) (*model.InviteSummary, error) {
	inv, err := s.dbm.InviteQuery().Code(code).Active().One()
	if err != nil {
		return nil, fmt.Errorf("invite lookup: %w", err)
	}

	if err := checkLiveness(inv, s.now()); err != nil {
		return nil, err
	}

	g, err := getGroup(s.dbm, inv.GroupID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errInviteUnknown
		}

		return nil, err
	}

	n, err := s.dbm.MembershipQuery().Group(g.ID).Count()
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	return &model.InviteSummary{
		GroupID:          g.ID,
		GroupName:        g.Name,
		GroupDescription: g.Description,
		OwnerName:        g.Owner.GetUsername(),
		MemberCount:      n,
	}, nil
}
