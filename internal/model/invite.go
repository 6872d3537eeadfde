package model

import "time"

type Invite struct {
	ID          uint   `gorm:"primaryKey"`
	GroupID     uint   `gorm:"index;not null"`
	Group       *Group `gorm:"constraint:OnDelete:CASCADE"`
	Code        string `gorm:"uniqueIndex;not null"`
	CreatedBy   *uint  `gorm:"index"`
	Creator     *User  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	ExpiresAt   *time.Time
	MaxUses     *int
	CurrentUses int  `gorm:"not null;default:0"`
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
}

// Liveness is the redeemability of an invite at a given moment. It is derived, never stored.
type Liveness int

const (
	Live Liveness = iota
	Inactive
	Expired
	Exhausted
)

func (l Liveness) String() string {
	switch l {
	case Live:
		return "live"
	case Inactive:
		return "inactive"
	case Expired:
		return "expired"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Liveness evaluates the stored fields against now.
func (i *Invite) Liveness(now time.Time) Liveness {
	switch {
	case !i.IsActive:
		return Inactive
	case i.ExpiresAt != nil && !i.ExpiresAt.After(now):
		return Expired
	case i.MaxUses != nil && i.CurrentUses >= *i.MaxUses:
		return Exhausted
	default:
		return Live
	}
}

type InviteDTO struct {
	ID            uint       `json:"id"`
	InviteCode    string     `json:"invite_code"`
	URL           string     `json:"url"`
	ExpiresAt     *time.Time `json:"expires_at"`
	MaxUses       *int       `json:"max_uses"`
	CurrentUses   int        `json:"current_uses"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedByName string     `json:"created_by_name,omitempty"`
}

// InviteSummary is what an invite shows before it is redeemed.
type InviteSummary struct {
	GroupID          uint   `json:"group_id"`
	GroupName        string `json:"group_name"`
	GroupDescription string `json:"group_description"`
	OwnerName        string `json:"owner_name"`
	MemberCount      int64  `json:"member_count"`
}

func (i *Invite) DTO(url string) *InviteDTO {
	if i == nil {
		return nil
	}

	return &InviteDTO{
		ID:            i.ID,
		InviteCode:    i.Code,
		URL:           url,
		ExpiresAt:     i.ExpiresAt,
		MaxUses:       i.MaxUses,
		CurrentUses:   i.CurrentUses,
		IsActive:      i.IsActive,
		CreatedAt:     i.CreatedAt,
		CreatedByName: i.Creator.GetUsername(),
	}
}
