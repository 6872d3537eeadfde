package database

import (
	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type GroupQuery struct {
	Query[model.Group]
	id   uint
	full bool
}

func NewGroupQuery(db *gorm.DB) *GroupQuery {
	q := new(GroupQuery)
	q.setDefaults(db, "memo_groups.created_at DESC")

	return q
}

func (q *GroupQuery) Order(s string) *GroupQuery {
	q.order = s
	return q
}

func (q *GroupQuery) Limit(n int) *GroupQuery {
	q.limit = n
	return q
}

func (q *GroupQuery) Id(id uint) *GroupQuery {
	q.id = id
	return q
}

// Full joins the owner.
func (q *GroupQuery) Full() *GroupQuery {
	q.full = true
	return q
}

func (q *GroupQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("memo_groups.id = ?", q.id)
	}

	if q.full {
		tx = tx.Joins("Owner")
	}

	return tx
}

func (q *GroupQuery) Get() ([]*model.Group, error) {
	return q.get(q.where().Model(&model.Group{}))
}

func (q *GroupQuery) One() (*model.Group, error) {
	return q.one(q.where().Model(&model.Group{}))
}

func (q *GroupQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Group{}), updates)
}

func (q *GroupQuery) Delete() error {
	return q.where().Delete(&model.Group{}).Error
}
