package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdudkov/groupmemo/internal/apperr"
	"github.com/kdudkov/groupmemo/internal/model"
)

func TestIssueInvite(t *testing.T) {
	s, clock := getTestService(t)

	owner := addUser(t, s, "owner")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 24, 5)
	require.NoError(t, err)

	assert.Len(t, inv.Code, 36)
	assert.True(t, inv.IsActive)
	assert.Equal(t, 0, inv.CurrentUses)
	require.NotNil(t, inv.MaxUses)
	assert.Equal(t, 5, *inv.MaxUses)
	require.NotNil(t, inv.ExpiresAt)
	assert.WithinDuration(t, clock.Now().Add(time.Hour*24), *inv.ExpiresAt, time.Second)
	assert.Equal(t, "owner", inv.Creator.GetUsername())

	inv, err = s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, inv.ExpiresAt)
	assert.Nil(t, inv.MaxUses)

	_, err = s.IssueInvite(g.ID+100, owner.ID, 0, 0)
	assertKind(t, apperr.ErrNotFound, err)
}

func TestIssueInvite_Roles(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	stranger := addUser(t, s, "stranger")
	g := addGroup(t, s, owner)
	addMember(t, s, g, john, model.RoleMember)

	_, err := s.IssueInvite(g.ID, stranger.ID, 0, 0)
	assertKind(t, apperr.ErrForbidden, err)

	_, err = s.IssueInvite(g.ID, john.ID, 0, 0)
	assertKind(t, apperr.ErrForbidden, err)

	require.NoError(t, s.ChangeRole(g.ID, owner.ID, john.ID, model.RoleAdmin))

	inv, err := s.IssueInvite(g.ID, john.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "john", inv.Creator.GetUsername())
}

func TestListInvites(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	stranger := addUser(t, s, "stranger")
	g := addGroup(t, s, owner)
	addMember(t, s, g, john, model.RoleMember)

	first, err := s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)

	second, err := s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)

	dead, err := s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.DeactivateInvite(g.ID, dead.ID, owner.ID))

	res, err := s.ListInvites(g.ID, john.ID)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, second.ID, res[0].ID)
	assert.Equal(t, first.ID, res[1].ID)

	_, err = s.ListInvites(g.ID, stranger.ID)
	assertKind(t, apperr.ErrForbidden, err)
}

func TestRedeemInvite(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 1, 0)
	require.NoError(t, err)

	joined, err := s.RedeemInvite(inv.Code, john.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, joined.ID)

	r, ok, err := s.Ledger().Role(g.ID, john.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.RoleMember, r)

	_, err = s.RedeemInvite("no-such-code", john.ID)
	assertKind(t, apperr.ErrNotFound, err)
}

func TestRedeemInvite_ExistingMember(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 0, 3)
	require.NoError(t, err)

	for range 3 {
		_, err = s.RedeemInvite(inv.Code, owner.ID)
		assertKind(t, apperr.ErrConflict, err)
	}

	stored, err := s.dbm.InviteQuery().Id(inv.ID).One()
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentUses)

	n, err := s.dbm.MembershipQuery().Group(g.ID).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedeemInvite_Expired(t *testing.T) {
	s, clock := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 1, 0)
	require.NoError(t, err)

	clock.Advance(time.Hour * 2)

	_, err = s.RedeemInvite(inv.Code, john.ID)
	assertKind(t, apperr.ErrGone, err)

	_, err = s.InspectInvite(inv.Code)
	assertKind(t, apperr.ErrGone, err)

	_, ok, err := s.Ledger().Role(g.ID, john.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedeemInvite_ExpiredAndExhausted(t *testing.T) {
	s, clock := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	mary := addUser(t, s, "mary")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 1, 1)
	require.NoError(t, err)

	_, err = s.RedeemInvite(inv.Code, john.ID)
	require.NoError(t, err)

	_, err = s.RedeemInvite(inv.Code, mary.ID)
	assert.Equal(t, errInviteExhausted, err)

	clock.Advance(time.Hour * 2)

	_, err = s.RedeemInvite(inv.Code, mary.ID)
	assert.Equal(t, errInviteExpired, err)
}

func TestRedeemInvite_Concurrent(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	g := addGroup(t, s, owner)

	const maxUses = 3
	const users = 10

	inv, err := s.IssueInvite(g.ID, owner.ID, 0, maxUses)
	require.NoError(t, err)

	ids := make([]uint, users)
	for i := range ids {
		ids[i] = addUser(t, s, fmt.Sprintf("user%d", i)).ID
	}

	var ok, gone, other int

	mx := sync.Mutex{}
	wg := new(sync.WaitGroup)

	for _, id := range ids {
		wg.Add(1)

		go func(id uint) {
			defer wg.Done()

			_, err := s.RedeemInvite(inv.Code, id)

			mx.Lock()
			defer mx.Unlock()

			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrGone):
				gone++
			default:
				other++
			}
		}(id)
	}

	wg.Wait()

	assert.Equal(t, maxUses, ok)
	assert.Equal(t, users-maxUses, gone)
	assert.Equal(t, 0, other)

	stored, err := s.dbm.InviteQuery().Id(inv.ID).One()
	require.NoError(t, err)
	assert.Equal(t, maxUses, stored.CurrentUses)

	n, err := s.dbm.MembershipQuery().Group(g.ID).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(maxUses+1), n)
}

func TestRedeemInvite_SingleUseRace(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	a := addUser(t, s, "a")
	b := addUser(t, s, "b")
	g := addGroup(t, s, owner)

	inv, err := s.IssueInvite(g.ID, owner.ID, 0, 1)
	require.NoError(t, err)

	errs := make([]error, 2)
	wg := new(sync.WaitGroup)

	for i, u := range []*model.User{a, b} {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, errs[i] = s.RedeemInvite(inv.Code, u.ID)
		}()
	}

	wg.Wait()

	if errs[0] == nil {
		assertKind(t, apperr.ErrGone, errs[1])
	} else {
		require.NoError(t, errs[1])
		assertKind(t, apperr.ErrGone, errs[0])
	}

	n, err := s.dbm.MembershipQuery().Group(g.ID).Role(model.RoleMember).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeactivateInvite(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")
	mary := addUser(t, s, "mary")
	g := addGroup(t, s, owner)
	other := addGroup(t, s, mary)
	addMember(t, s, g, john, model.RoleMember)

	inv, err := s.IssueInvite(g.ID, owner.ID, 0, 0)
	require.NoError(t, err)

	assertKind(t, apperr.ErrForbidden, s.DeactivateInvite(g.ID, inv.ID, john.ID))
	assertKind(t, apperr.ErrNotFound, s.DeactivateInvite(other.ID, inv.ID, mary.ID))
	assertKind(t, apperr.ErrNotFound, s.DeactivateInvite(g.ID, inv.ID+100, owner.ID))

	require.NoError(t, s.DeactivateInvite(g.ID, inv.ID, owner.ID))
	require.NoError(t, s.DeactivateInvite(g.ID, inv.ID, owner.ID))

	_, err = s.RedeemInvite(inv.Code, mary.ID)
	assertKind(t, apperr.ErrNotFound, err)

	_, err = s.InspectInvite(inv.Code)
	assertKind(t, apperr.ErrNotFound, err)
}

func TestInspectInvite(t *testing.T) {
	s, _ := getTestService(t)

	owner := addUser(t, s, "owner")
	john := addUser(t, s, "john")

	g, err := s.CreateGroup(owner.ID, "Book club", "monthly reads")
	require.NoError(t, err)

	addMember(t, s, g, john, model.RoleMember)

	inv, err := s.IssueInvite(g.ID, owner.ID, 0, 2)
	require.NoError(t, err)

	sum, err := s.InspectInvite(inv.Code)
	require.NoError(t, err)

	assert.Equal(t, g.ID, sum.GroupID)
	assert.Equal(t, "Book club", sum.GroupName)
	assert.Equal(t, "monthly reads", sum.GroupDescription)
	assert.Equal(t, "owner", sum.OwnerName)
	assert.Equal(t, int64(2), sum.MemberCount)

	stored, err := s.dbm.InviteQuery().Id(inv.ID).One()
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentUses)

	_, err = s.InspectInvite("missing")
	assertKind(t, apperr.ErrNotFound, err)
}
