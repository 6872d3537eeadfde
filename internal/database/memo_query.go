package database

import (
	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type MemoQuery struct {
	Query[model.Memo]
	id      uint
	groupID uint
	full    bool
}

func NewMemoQuery(db *gorm.DB) *MemoQuery {
	q := new(MemoQuery)
	q.setDefaults(db, "memos.created_at DESC, memos.id DESC")
	q.limit = 0

	return q
}

func (q *MemoQuery) Order(s string) *MemoQuery {
	q.order = s
	return q
}

func (q *MemoQuery) Limit(n int) *MemoQuery {
	q.limit = n
	return q
}

func (q *MemoQuery) Offset(n int) *MemoQuery {
	q.offset = n
	return q
}

func (q *MemoQuery) Id(id uint) *MemoQuery {
	q.id = id
	return q
}

func (q *MemoQuery) Group(id uint) *MemoQuery {
	q.groupID = id
	return q
}

// Full joins the author.
func (q *MemoQuery) Full() *MemoQuery {
	q.full = true
	return q
}

func (q *MemoQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("memos.id = ?", q.id)
	}

	if q.groupID != 0 {
		tx = tx.Where("memos.group_id = ?", q.groupID)
	}

	if q.full {
		tx = tx.Joins("Author")
	}

	return tx
}

func (q *MemoQuery) Get() ([]*model.Memo, error) {
	return q.get(q.where().Model(&model.Memo{}))
}

func (q *MemoQuery) One() (*model.Memo, error) {
	return q.one(q.where().Model(&model.Memo{}))
}

func (q *MemoQuery) Count() (int64, error) {
	return q.count(q.where().Model(&model.Memo{}))
}

func (q *MemoQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Memo{}), updates)
}

func (q *MemoQuery) Delete() error {
	return q.where().Delete(&model.Memo{}).Error
}
