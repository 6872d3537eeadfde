package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/kdudkov/groupmemo/internal/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

// Transaction runs fn on a manager bound to a single transaction. Returning an
// error (or panicking) from fn rolls everything back.
func (mm *DatabaseManager) Transaction(fn func(tm *DatabaseManager) error) error {
	return mm.db.Transaction(func(tx *gorm.DB) error {
		return fn(&DatabaseManager{db: tx, logger: mm.logger})
	})
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil && !IsDuplicate(err) {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) UserQuery() *UserQuery {
	return NewUserQuery(mm.db)
}

func (mm *DatabaseManager) GroupQuery() *GroupQuery {
	return NewGroupQuery(mm.db)
}

func (mm *DatabaseManager) MembershipQuery() *MembershipQuery {
	return NewMembershipQuery(mm.db)
}

func (mm *DatabaseManager) InviteQuery() *InviteQuery {
	return NewInviteQuery(mm.db)
}

func (mm *DatabaseManager) MemoQuery() *MemoQuery {
	return NewMemoQuery(mm.db)
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	// Migrate the schema
	if err := mm.db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Membership{},
		&model.Invite{},
		&model.Memo{},
	); err != nil {
		return err
	}

	return nil
}

// CreateGroup stores the group and its owner membership together.
func (mm *DatabaseManager) CreateGroup(g *model.Group) error {
	return mm.Transaction(func(tm *DatabaseManager) error {
		if err := tm.Create(g); err != nil {
			return err
		}

		return tm.Create(&model.Membership{GroupID: g.ID, UserID: g.OwnerID, Role: model.RoleOwner})
	})
}

// DeleteGroup removes the group with its memos, invites and memberships.
func (mm *DatabaseManager) DeleteGroup(id uint) error {
	return mm.Transaction(func(tm *DatabaseManager) error {
		if err := tm.MemoQuery().Group(id).Delete(); err != nil {
			return err
		}

		if err := tm.db.Where("group_id = ?", id).Delete(&model.Invite{}).Error; err != nil {
			return err
		}

		if _, err := tm.MembershipQuery().Group(id).Delete(); err != nil {
			return err
		}

		return tm.GroupQuery().Id(id).Delete()
	})
}

// ConsumeInvite takes one use of the invite if it is still active and has uses left.
// It reports false when the row did not qualify.
func (mm *DatabaseManager) ConsumeInvite(id uint) (bool, error) {
	tx := mm.db.Model(&model.Invite{}).
		Where("id = ? AND is_active = ? AND (max_uses IS NULL OR current_uses < max_uses)", id, true).
		UpdateColumn("current_uses", gorm.Expr("current_uses + ?", 1))

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

// GroupsOf lists the groups userID belongs to, newest first, with counters.
func (mm *DatabaseManager) GroupsOf(userID uint) ([]*model.GroupListItem, error) {
	res := make([]*model.GroupListItem, 0)

	err := mm.db.Table("memo_groups AS g").
		Select(`g.id, g.name, g.description, g.owner_id, u.username AS owner_name, g.created_at,
			gm.role AS my_role,
			(SELECT COUNT(*) FROM group_members c WHERE c.group_id = g.id) AS member_count,
			(SELECT COUNT(*) FROM memos m WHERE m.group_id = g.id) AS memo_count`).
		Joins("JOIN group_members gm ON gm.group_id = g.id").
		Joins("LEFT JOIN users u ON u.id = g.owner_id").
		Where("gm.user_id = ?", userID).
		Order("g.created_at DESC, g.id DESC").
		Scan(&res).Error

	if err != nil {
		return nil, err
	}

	return res, nil
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	s := strings.ToLower(err.Error())

	return strings.Contains(s, "unique") || strings.Contains(s, "duplicate")
}
