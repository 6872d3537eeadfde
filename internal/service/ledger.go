package service

import (
	"fmt"
	"slices"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/database"
	"github.com/kdudkov/groupmemo/internal/model"
)

// Ledger answers who belongs to a group and with which role.
type Ledger struct {
	dbm *database.DatabaseManager
}

func newLedger(dbm *database.DatabaseManager) *Ledger {
	return &Ledger{dbm: dbm}
}

// Role returns the role of userID in groupID. ok is false when the user is not a member.
func (l *Ledger) Role(groupID, userID uint) (model.Role, bool, error) {
	if groupID == 0 || userID == 0 {
		return "", false, apperr.Validation("group and user ids are required")
	}

	m, err := l.dbm.MembershipQuery().Group(groupID).User(userID).One()
	if err != nil {
		return "", false, fmt.Errorf("membership lookup: %w", err)
	}

	if m == nil {
		return "", false, nil
	}

	return m.Role, true, nil
}

// Require fails with Forbidden unless userID is a member holding one of roles.
// With no roles any membership is enough.
func (l *Ledger) Require(groupID, userID uint, roles ...model.Role) (model.Role, error) {
	r, ok, err := l.Role(groupID, userID)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", apperr.Forbidden("you are not a member of this group")
	}

	if len(roles) > 0 && !slices.Contains(roles, r) {
		return r, apperr.Forbidden("insufficient permissions")
	}

	return r, nil
}

// RequireManager fails with Forbidden unless userID is an owner or admin of groupID.
func (l *Ledger) RequireManager(groupID, userID uint) (model.Role, error) {
	r, err := l.Require(groupID, userID)
	if err != nil {
		return r, err
	}

	if !r.CanManage() {
		return r, apperr.Forbidden("insufficient permissions")
	}

	return r, nil
}

func (l *Ledger) AddMember(groupID, userID uint, role model.Role) (*model.Membership, error) {
	if groupID == 0 || userID == 0 {
		return nil, apperr.Validation("group and user ids are required")
	}

	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}

	m := &model.Membership{GroupID: groupID, UserID: userID, Role: role}

	if err := l.dbm.Create(m); err != nil {
		if database.IsDuplicate(err) {
			return nil, apperr.Conflict("user is already a member of this group")
		}

		return nil, fmt.Errorf("add member: %w", err)
	}

	return m, nil
}

// RemoveMember deletes a membership. The owner's membership is never removed.
func (l *Ledger) RemoveMember(groupID, userID uint) error {
	r, ok, err := l.Role(groupID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return apperr.NotFound("member not found")
	}

	if r.IsOwner() {
		return apperr.Validation("the group owner cannot be removed")
	}

	if _, err := l.dbm.MembershipQuery().Group(groupID).User(userID).Delete(); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	return nil
}
