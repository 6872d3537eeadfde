package service

import (
	"fmt"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
)

func (s *Service) CreateGroup(ownerID uint, name, description string) (*model.Group, error) {
	name = s.plain(name)

	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	g := &model.Group{
		Name:        name,
		Description: s.plain(description),
		OwnerID:     ownerID,
	}

	if err := s.dbm.CreateGroup(g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created", "group", g.ID, "owner", ownerID)
	s.publish(model.Event{Type: model.EventGroupCreated, GroupID: g.ID, UserID: ownerID, ActorID: ownerID})

	return getGroup(s.dbm, g.ID)
}

func (s *Service) GetGroup(groupID, userID uint) (*model.GroupDetails, error) {
	g, err := getGroup(s.dbm, groupID)
	if err != nil {
		return nil, err
	}

	r, err := s.Ledger().Require(groupID, userID)
	if err != nil {
		return nil, err
	}

	members, err := s.dbm.MembershipQuery().Group(groupID).Full().Get()
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return &model.GroupDetails{Group: g, Members: members, MyRole: r}, nil
}

func (s *Service) ListGroups(userID uint) ([]*model.GroupListItem, error) {
	res, err := s.dbm.GroupsOf(userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return res, nil
}

// UpdateGroup changes name and description. Only the owner may do it.
func (s *Service) UpdateGroup(groupID, userID uint, name, description string) (*model.Group, error) {
	name = s.plain(name)

	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	if _, err := getGroup(s.dbm, groupID); err != nil {
		return nil, err
	}

	if _, err := s.Ledger().Require(groupID, userID, model.RoleOwner); err != nil {
		return nil, err
	}

	err := s.dbm.GroupQuery().Id(groupID).Update(map[string]any{
		"name":        name,
		"description": s.plain(description),
	})

	if err != nil && !database.IsNotUpdated(err) {
		return nil, fmt.Errorf("update group: %w", err)
	}

	return getGroup(s.dbm, groupID)
}

func (s *Service) DeleteGroup(groupID, userID uint) error {
	if _, err := getGroup(s.dbm, groupID); err != nil {
		return err
	}

	if _, err := s.Ledger().Require(groupID, userID, model.RoleOwner); err != nil {
		return err
	}

	if err := s.dbm.DeleteGroup(groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.logger.Info("group deleted", "group", groupID, "user", userID)
	s.publish(model.Event{Type: model.EventGroupDeleted, GroupID: groupID, ActorID: userID})

	return nil
}

// LeaveGroup removes the caller's own membership. The owner cannot leave.
func (s *Service) LeaveGroup(groupID, userID uint) error {
	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		l := newLedger(tm)

		r, ok, err := l.Role(groupID, userID)
		if err != nil {
			return err
		}

		if !ok {
			return apperr.NotFound("you are not a member of this group")
		}

		if r.IsOwner() {
			return apperr.Validation("the group owner cannot leave the group")
		}

		return l.RemoveMember(groupID, userID)
	})

	if err != nil {
		return err
	}

	s.publish(model.Event{Type: model.EventMemberLeft, GroupID: groupID, UserID: userID, ActorID: userID})

	return nil
}

// AddUser puts an existing user straight into the group as a member.
func (s *Service) AddUser(groupID, actorID, targetID uint) (*model.Membership, error) {
	var m *model.Membership

	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		if _, err := getGroup(tm, groupID); err != nil {
			return err
		}

		l := newLedger(tm)

		if _, err := l.RequireManager(groupID, actorID); err != nil {
			return err
		}

		u, err := tm.UserQuery().Id(targetID).One()
		if err != nil {
			return fmt.Errorf("user lookup: %w", err)
		}

		if u == nil {
			return apperr.NotFound("user not found")
		}

		if _, ok, err := l.Role(groupID, targetID); err != nil {
			return err
		} else if ok {
			return apperr.Conflict("user is already a member of this group")
		}

		if m, err = l.AddMember(groupID, targetID, model.RoleMember); err != nil {
			return err
		}

		m.User = u

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.publish(model.Event{Type: model.EventMemberJoined, GroupID: groupID, UserID: targetID, ActorID: actorID})

	return m, nil
}

// ChangeRole switches a member between admin and member. Only the owner may do it,
// and the owner role is never granted or taken away.
func (s *Service) ChangeRole(groupID, actorID, targetID uint, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleMember {
		return apperr.Validation("role must be admin or member")
	}

	var changed bool

	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		if _, err := getGroup(tm, groupID); err != nil {
			return err
		}

		l := newLedger(tm)

		if _, err := l.Require(groupID, actorID, model.RoleOwner); err != nil {
			return err
		}

		r, ok, err := l.Role(groupID, targetID)
		if err != nil {
			return err
		}

		if !ok {
			return apperr.NotFound("member not found")
		}

		if r.IsOwner() {
			return apperr.Validation("the owner role cannot be changed")
		}

		if r == role {
			return nil
		}

		err = tm.MembershipQuery().Group(groupID).User(targetID).Update(map[string]any{"role": role})
		if err != nil {
			return fmt.Errorf("change role: %w", err)
		}

		changed = true

		return nil
	})

	if err != nil || !changed {
		return err
	}

	s.publish(model.Event{Type: model.EventRoleChanged, GroupID: groupID, UserID: targetID, ActorID: actorID, Reason: role.String()})

	return nil
}

// RemoveGroupMember lets the owner remove admins and members, and admins remove members.
func (s *Service) RemoveGroupMember(groupID, actorID, targetID uint) error {
	err := s.dbm.Transaction(func(tm *database.DatabaseManager) error {
		if _, err := getGroup(tm, groupID); err != nil {
			return err
		}

		l := newLedger(tm)

		actorRole, err := l.RequireManager(groupID, actorID)
		if err != nil {
			return err
		}

		r, ok, err := l.Role(groupID, targetID)
		if err != nil {
			return err
		}

		if !ok {
			return apperr.NotFound("member not found")
		}

		if actorRole == model.RoleAdmin && r != model.RoleMember {
			return apperr.Forbidden("admins can only remove members")
		}

		return l.RemoveMember(groupID, targetID)
	})

	if err != nil {
		return err
	}

	s.publish(model.Event{Type: model.EventMemberRemoved, GroupID: groupID, UserID: targetID, ActorID: actorID})

	return nil
}
