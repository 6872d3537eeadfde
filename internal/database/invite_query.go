package database

import (
	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type InviteQuery struct {
	Query[model.Invite]
	id      uint
	groupID uint
	code    string
	active  bool
	full    bool
}

func NewInviteQuery(db *gorm.DB) *InviteQuery {
	q := new(InviteQuery)
	q.setDefaults(db, "invites.created_at DESC, invites.id DESC")

	return q
}

func (q *InviteQuery) Order(s string) *InviteQuery {
	q.order = s
	return q
}

func (q *InviteQuery) Limit(n int) *InviteQuery {
	q.limit = n
	return q
}

func (q *InviteQuery) Offset(n int) *InviteQuery {
	q.offset = n
	return q
}

func (q *InviteQuery) Id(id uint) *InviteQuery {
	q.id = id
	return q
}

func (q *InviteQuery) Group(id uint) *InviteQuery {
	q.groupID = id
	return q
}

func (q *InviteQuery) Code(code string) *InviteQuery {
	q.code = code
	return q
}

func (q *InviteQuery) Active() *InviteQuery {
	q.active = true
	return q
}

// Full joins the creator. Not to be combined with ForUpdate.
func (q *InviteQuery) Full() *InviteQuery {
	q.full = true
	return q
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (q *InviteQuery) ForUpdate() *InviteQuery {
	q.lock = true
	return q
}

func (q *InviteQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("invites.id = ?", q.id)
	}

	if q.groupID != 0 {
		tx = tx.Where("invites.group_id = ?", q.groupID)
	}

	if q.code != "" {
		tx = tx.Where("invites.code = ?", q.code)
	}

	if q.active {
		tx = tx.Where("invites.is_active = ?", true)
	}

	if q.full {
		tx = tx.Joins("Creator")
	}

	return tx
}

func (q *InviteQuery) Get() ([]*model.Invite, error) {
	return q.get(q.where().Model(&model.Invite{}))
}

func (q *InviteQuery) One() (*model.Invite, error) {
	return q.one(q.where().Model(&model.Invite{}))
}

func (q *InviteQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Invite{}), updates)
}
