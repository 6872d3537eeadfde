package model

import "time"

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	OwnerID     uint   `gorm:"index;not null"`
	Owner       *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string {
	return "memo_groups"
}

type Membership struct {
	ID       uint      `gorm:"primaryKey"`
	GroupID  uint      `gorm:"uniqueIndex:idx_member_group_user;not null"`
	Group    *Group    `gorm:"constraint:OnDelete:CASCADE"`
	UserID   uint      `gorm:"uniqueIndex:idx_member_group_user;index;not null"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE"`
	Role     Role      `gorm:"type:varchar(20);not null;default:member"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "group_members"
}

// GroupListItem is a group as seen by one of its members.
type GroupListItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint      `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
	MyRole      Role      `json:"my_role"`
	MemberCount int64     `json:"member_count"`
	MemoCount   int64     `json:"memo_count"`
}

type GroupDTO struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	OwnerID     uint         `json:"owner_id"`
	OwnerName   string       `json:"owner_name,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	MemberCount int64        `json:"member_count,omitempty"`
	MyRole      Role         `json:"my_role,omitempty"`
	Members     []*MemberDTO `json:"members,omitempty"`
}

type MemberDTO struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupDetails is a group with its member list, loaded for one of its members.
type GroupDetails struct {
	Group   *Group
	Members []*Membership
	MyRole  Role
}

func (g *Group) DTO() *GroupDTO {
	if g == nil {
		return nil
	}

	return &GroupDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		OwnerName:   g.Owner.GetUsername(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (m *Membership) DTO() *MemberDTO {
	if m == nil {
		return nil
	}

	d := &MemberDTO{
		ID:       m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}

	if m.User != nil {
		d.Username = m.User.Username
		d.Email = m.User.Email
	}

	return d
}

func (d *GroupDetails) DTO() *GroupDTO {
	if d == nil {
		return nil
	}

	res := d.Group.DTO()
	res.MyRole = d.MyRole
	res.MemberCount = int64(len(d.Members))
	res.Members = make([]*MemberDTO, len(d.Members))

	for i, m := range d.Members {
		res.Members[i] = m.DTO()
	}

	return res
}
