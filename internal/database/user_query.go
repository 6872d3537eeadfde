package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type UserQuery struct {
	Query[model.User]
	id      uint
	email   string
	search  string
	exclude uint
}

func NewUserQuery(db *gorm.DB) *UserQuery {
	q := new(UserQuery)
	q.setDefaults(db, "users.id")

	return q
}

func (q *UserQuery) Order(s string) *UserQuery {
	q.order = s
	return q
}

func (q *UserQuery) Limit(n int) *UserQuery {
	q.limit = n
	return q
}

func (q *UserQuery) Offset(n int) *UserQuery {
	q.offset = n
	return q
}

func (q *UserQuery) Id(id uint) *UserQuery {
	q.id = id
	return q
}

func (q *UserQuery) Email(email string) *UserQuery {
	q.email = email
	return q
}

// Search matches a substring of email or username, case-insensitive.
func (q *UserQuery) Search(s string) *UserQuery {
	q.search = strings.ToLower(s)
	return q
}

func (q *UserQuery) Exclude(id uint) *UserQuery {
	q.exclude = id
	return q
}

func (q *UserQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("users.id = ?", q.id)
	}

	if q.email != "" {
		tx = tx.Where("users.email = ?", q.email)
	}

	if q.search != "" {
		like := "%" + escapeLike(q.search) + "%"
		tx = tx.Where("(LOWER(users.email) LIKE ? ESCAPE '!' OR LOWER(users.username) LIKE ? ESCAPE '!')", like, like)
	}

	if q.exclude != 0 {
		tx = tx.Where("users.id <> ?", q.exclude)
	}

	return tx
}

func (q *UserQuery) Get() ([]*model.User, error) {
	return q.get(q.where().Model(&model.User{}))
}

func (q *UserQuery) One() (*model.User, error) {
	return q.one(q.where().Model(&model.User{}))
}

func (q *UserQuery) Count() (int64, error) {
	return q.count(q.where().Model(&model.User{}))
}
