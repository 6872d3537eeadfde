package model

import "time"

type Memo struct {
	ID        uint   `gorm:"primaryKey"`
	GroupID   uint   `gorm:"index;not null"`
	Group     *Group `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  *uint  `gorm:"index"`
	Author    *User  `gorm:"constraint:OnDelete:SET NULL"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MemoDTO struct {
	ID         uint      `json:"id"`
	GroupID    uint      `json:"group_id"`
	AuthorID   *uint     `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (m *Memo) IsAuthor(userID uint) bool {
	return m != nil && m.AuthorID != nil && *m.AuthorID == userID
}

func (m *Memo) DTO() *MemoDTO {
	if m == nil {
		return nil
	}

	return &MemoDTO{
		ID:         m.ID,
		GroupID:    m.GroupID,
		AuthorID:   m.AuthorID,
		AuthorName: m.Author.GetUsername(),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
