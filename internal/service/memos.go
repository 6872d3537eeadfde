package service

import (
	"fmt"
	"strings"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
)

func (s *Service) ListMemos(groupID, userID uint) ([]*model.Memo, error) {
	if _, err := getGroup(s.dbm, groupID); err != nil {
		return nil, err
	}

	if _, err := s.Ledger().Require(groupID, userID); err != nil {
		return nil, err
	}

	res, err := s.dbm.MemoQuery().Group(groupID).Full().Get()
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}

	return res, nil
}

func (s *Service) CreateMemo(groupID, userID uint, content string) (*model.Memo, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperr.Validation("content is required")
	}

	if _, err := getGroup(s.dbm, groupID); err != nil {
		return nil, err
	}

	if _, err := s.Ledger().Require(groupID, userID); err != nil {
		return nil, err
	}

	m := &model.Memo{GroupID: groupID, AuthorID: &userID, Content: content}

	if err := s.dbm.Create(m); err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}

	s.publish(model.Event{Type: model.EventMemoCreated, GroupID: groupID, ActorID: userID})

	return s.getMemo(m.ID)
}

// UpdateMemo replaces the content. Only the author may edit.
func (s *Service) UpdateMemo(memoID, userID uint, content string) (*model.Memo, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, apperr.Validation("content is required")
	}

	m, err := s.getMemo(memoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Ledger().Require(m.GroupID, userID); err != nil {
		return nil, err
	}

	if !m.IsAuthor(userID) {
		return nil, apperr.Forbidden("only the author can edit this memo")
	}

	if err := s.dbm.MemoQuery().Id(memoID).Update(map[string]any{"content": content}); err != nil {
		return nil, fmt.Errorf("update memo: %w", err)
	}

	s.publish(model.Event{Type: model.EventMemoUpdated, GroupID: m.GroupID, ActorID: userID})

	return s.getMemo(memoID)
}

// DeleteMemo is allowed to the author and to the group owner.
func (s *Service) DeleteMemo(memoID, userID uint) error {
	m, err := s.getMemo(memoID)
	if err != nil {
		return err
	}

	r, err := s.Ledger().Require(m.GroupID, userID)
	if err != nil {
		return err
	}

	if !m.IsAuthor(userID) && !r.IsOwner() {
		return apperr.Forbidden("only the author or the group owner can delete this memo")
	}

	if err := s.dbm.MemoQuery().Id(memoID).Delete(); err != nil {
		return fmt.Errorf("delete memo: %w", err)
	}

	s.publish(model.Event{Type: model.EventMemoDeleted, GroupID: m.GroupID, ActorID: userID})

	return nil
}

func (s *Service) getMemo(id uint) (*model.Memo, error) {
	m, err := s.dbm.MemoQuery().Id(id).Full().One()
	if err != nil {
		return nil, fmt.Errorf("memo lookup: %w", err)
	}

	if m == nil {
		return nil, apperr.NotFound("memo not found")
	}

	return m, nil
}
