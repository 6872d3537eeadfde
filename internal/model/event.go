package model

type EventType string

const (
	EventGroupCreated      EventType = "group_created"
	EventGroupDeleted      EventType = "group_deleted"
	EventMemberJoined      EventType = "member_joined"
	EventMemberLeft        EventType = "member_left"
	EventMemberRemoved     EventType = "member_removed"
	EventRoleChanged       EventType = "role_changed"
	EventInviteIssued      EventType = "invite_issued"
	EventInviteRedeemed    EventType = "invite_redeemed"
	EventInviteRejected    EventType = "invite_rejected"
	EventInviteDeactivated EventType = "invite_deactivated"
	EventMemoCreated       EventType = "memo_created"
	EventMemoUpdated       EventType = "memo_updated"
	EventMemoDeleted       EventType = "memo_deleted"
)

// Event is published after a state change commits.
type Event struct {
	Type     EventType
	GroupID  uint
	UserID   uint
	ActorID  uint
	InviteID uint
	Reason   string
}
