package database

import (
	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type MembershipQuery struct {
	Query[model.Membership]
	groupID uint
	userID  uint
	role    model.Role
	full    bool
}

func NewMembershipQuery(db *gorm.DB) *MembershipQuery {
	q := new(MembershipQuery)
	q.setDefaults(db, "group_members.joined_at, group_members.id")
	q.limit = 0

	return q
}

func (q *MembershipQuery) Order(s string) *MembershipQuery {
	q.order = s
	return q
}

func (q *MembershipQuery) Limit(n int) *MembershipQuery {
	q.limit = n
	return q
}

func (q *MembershipQuery) Group(id uint) *MembershipQuery {
	q.groupID = id
	return q
}

func (q *MembershipQuery) User(id uint) *MembershipQuery {
	q.userID = id
	return q
}

func (q *MembershipQuery) Role(r model.Role) *MembershipQuery {
	q.role = r
	return q
}

// Full joins the member's user record.
func (q *MembershipQuery) Full() *MembershipQuery {
	q.full = true
	return q
}

func (q *MembershipQuery) where() *gorm.DB {
	tx := q.db

	if q.groupID != 0 {
		tx = tx.Where("group_members.group_id = ?", q.groupID)
	}

	if q.userID != 0 {
		tx = tx.Where("group_members.user_id = ?", q.userID)
	}

	if q.role != "" {
		tx = tx.Where("group_members.role = ?", q.role)
	}

	if q.full {
		tx = tx.Joins("User")
	}

	return tx
}

func (q *MembershipQuery) Get() ([]*model.Membership, error) {
	return q.get(q.where().Model(&model.Membership{}))
}

func (q *MembershipQuery) One() (*model.Membership, error) {
	return q.one(q.where().Model(&model.Membership{}))
}

func (q *MembershipQuery) Count() (int64, error) {
	return q.count(q.where().Model(&model.Membership{}))
}

func (q *MembershipQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Membership{}), updates)
}

func (q *MembershipQuery) Delete() (int64, error) {
	tx := q.where().Delete(&model.Membership{})

	return tx.RowsAffected, tx.Error
}
