package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
)

func TestCreateGroup(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")

	_, err := s.CreateGroup(owner.ID, "  <i></i> ", "desc")
	assertKind(t, apperr.ErrValidation, err)

	g, err := s.CreateGroup(owner.ID, "<b>Family</b>", "<a href=\"x\">shopping</a> lists")
	require.NoError(t, err)

	assert.Equal(t, "Family", g.Name)
	assert.Equal(t, "shopping lists", g.Description)
	assert.Equal(t, owner.ID, g.OwnerID)
	assert.Equal(t, "owner", g.Owner.GetUsername())

	members, err := s.dbm.MembershipQuery().Group(g.ID).Get()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, model.RoleOwner, members[0].Role)
}

func TestGetGroup(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	stranger := addUser(t, s, "stranger")
	g := addGroup(t, s, owner)
	addMember(t, s, g, john, model.RoleAdmin)

	d, err := s.GetGroup(g.ID, john.ID)
	require.NoError(t, err)

	assert.Equal(t, model.RoleAdmin, d.MyRole)
	require.Len(t, d.Members, 2)
	assert.Equal(t, "owner", d.Members[0].User.GetUsername())
	assert.Equal(t, "john", d.Members[1].User.GetUsername())

	dto := d.DTO()
	assert.Equal(t, int64(2), dto.MemberCount)
	assert.Equal(t, "john@example.com", dto.Members[1].Email)

	_, err = s.GetGroup(g.ID, stranger.ID)
	assertKind(t, apperr.ErrForbidden, err)

	_, err = s.GetGroup(g.ID+100, owner.ID)
	assertKind(t, apperr.ErrNotFound, err)
}

func TestListGroups(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")

	g1 := addGroup(t, s, owner)
	g2 := addGroup(t, s, john)
	addMember(t, s, g1, john, model.RoleMember)

	_, err := s.CreateMemo(g1.ID, john.ID, "hi")
	require.NoError(t, err)

	res, err := s.ListGroups(john.ID)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, g2.ID, res[0].ID)
	assert.Equal(t, model.RoleOwner, res[0].MyRole)
	assert.Equal(t, int64(1), res[0].MemberCount)

	assert.Equal(t, g1.ID, res[1].ID)
	assert.Equal(t, model.RoleMember, res[1].MyRole)
	assert.Equal(t, "owner", res[1].OwnerName)
	assert.Equal(t, int64(2), res[1].MemberCount)
	assert.Equal(t, int64(1), res[1].MemoCount)

	res, err = s.ListGroups(owner.ID)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestUpdateGroup(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	admin := addUser(t, s, "admin")
	g := addGroup(t, s, owner)
	addMember(t, s, g, admin, model.RoleAdmin)

	_, err := s.UpdateGroup(g.ID, admin.ID, "New name", "")
	assertKind(t, apperr.ErrForbidden, err)

	_, err = s.UpdateGroup(g.ID, owner.ID, "", "")
	assertKind(t, apperr.ErrValidation, err)

	_, err = s.UpdateGroup(g.ID+100, owner.ID, "x", "")
	assertKind(t, apperr.ErrNotFound, err)

	res, err := s.UpdateGroup(g.ID, owner.ID, "New name", "about")
	require.NoError(t, err)
	assert.Equal(t, "New name", res.Name)
	assert.Equal(t, "about", res.Description)

	res, err = s.UpdateGroup(g.ID, owner.ID, "New name", "about")
	require.NoError(t, err)
	assert.Equal(t, "New name", res.Name)
}

func TestDeleteGroup(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	g := addGroup(t, s, owner)
	addMember(t, s, g, john, model.RoleAdmin)

	_, err := s.CreateMemo(g.ID, john.ID, "memo")
	require.NoError(t, err)

	_, err = s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)

	assertKind(t, apperr.ErrForbidden, s.DeleteGroup(g.ID, john.ID))
	require.NoError(t, s.DeleteGroup(g.ID, owner.ID))
	assertKind(t, apperr.ErrNotFound, s.DeleteGroup(g.ID, owner.ID))

	n, err := s.dbm.MembershipQuery().Group(g.ID).Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.dbm.MemoQuery().Group(g.ID).Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	invites, err := s.dbm.InviteQuery().Group(g.ID).Get()
	require.NoError(t, err)
	assert.Empty(t, invites)
}

func TestLeaveGroup(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	g := addGroup(t, s, owner)
	addMember(t, s, g, john, model.RoleMember)

	assertKind(t, apperr.ErrValidation, s.LeaveGroup(g.ID, owner.ID))
	require.NoError(t, s.LeaveGroup(g.ID, john.ID))
	assertKind(t, apperr.ErrNotFound, s.LeaveGroup(g.ID, john.ID))

	r, ok, err := s.Ledger().Role(g.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.RoleOwner, r)
}

func TestAddUser(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	admin := addUser(t, s, "admin")
	john := addUser(t, s, "john")
	mary := addUser(t, s, "mary")
	g := addGroup(t, s, owner)
	addMember(t, s, g, admin, model.RoleAdmin)

	m, err := s.AddUser(g.ID, admin.ID, john.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, m.Role)
	assert.Equal(t, "john", m.User.GetUsername())

	_, err = s.AddUser(g.ID, owner.ID, john.ID)
	assertKind(t, apperr.ErrConflict, err)

	_, err = s.AddUser(g.ID, john.ID, mary.ID)
	assertKind(t, apperr.ErrForbidden, err)

	_, err = s.AddUser(g.ID, owner.ID, 9999)
	assertKind(t, apperr.ErrNotFound, err)
}

func TestChangeRole(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	admin := addUser(t, s, "admin")
	john := addUser(t, s, "john")
	g := addGroup(t, s, owner)
	addMember(t, s, g, admin, model.RoleAdmin)
	addMember(t, s, g, john, model.RoleMember)

	assertKind(t, apperr.ErrForbidden, s.ChangeRole(g.ID, admin.ID, john.ID, model.RoleAdmin))
	assertKind(t, apperr.ErrValidation, s.ChangeRole(g.ID, owner.ID, john.ID, model.RoleOwner))
	assertKind(t, apperr.ErrValidation, s.ChangeRole(g.ID, owner.ID, owner.ID, model.RoleMember))
	assertKind(t, apperr.ErrNotFound, s.ChangeRole(g.ID, owner.ID, 9999, model.RoleAdmin))

	require.NoError(t, s.ChangeRole(g.ID, owner.ID, john.ID, model.RoleAdmin))
	require.NoError(t, s.ChangeRole(g.ID, owner.ID, john.ID, model.RoleAdmin))
	require.NoError(t, s.ChangeRole(g.ID, owner.ID, admin.ID, model.RoleMember))

	r, _, err := s.Ledger().Role(g.ID, john.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, r)

	r, _, err = s.Ledger().Role(g.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, r)

	n, err := s.dbm.MembershipQuery().Group(g.ID).Role(model.RoleOwner).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRemoveGroupMember(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	admin := addUser(t, s, "admin")
	admin2 := addUser(t, s, "admin2")
	john := addUser(t, s, "john")
	mary := addUser(t, s, "mary")
	g := addGroup(t, s, owner)
	addMember(t, s, g, admin, model.RoleAdmin)
	addMember(t, s, g, admin2, model.RoleAdmin)
	addMember(t, s, g, john, model.RoleMember)
	addMember(t, s, g, mary, model.RoleMember)

	assertKind(t, apperr.ErrForbidden, s.RemoveGroupMember(g.ID, john.ID, mary.ID))
	assertKind(t, apperr.ErrForbidden, s.RemoveGroupMember(g.ID, admin.ID, admin2.ID))
	assertKind(t, apperr.ErrForbidden, s.RemoveGroupMember(g.ID, admin.ID, owner.ID))
	assertKind(t, apperr.ErrValidation, s.RemoveGroupMember(g.ID, owner.ID, owner.ID))

	require.NoError(t, s.RemoveGroupMember(g.ID, admin.ID, john.ID))
	require.NoError(t, s.RemoveGroupMember(g.ID, owner.ID, admin2.ID))
	assertKind(t, apperr.ErrNotFound, s.RemoveGroupMember(g.ID, owner.ID, john.ID))

	n, err := s.dbm.MembershipQuery().Group(g.ID).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
