package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var inviteCodePattern = regexp.MustCompile(`^[A-Z0-9]{5}$`)

func newGroupService(f *fixture) GroupService {
	return NewGroupService(f.groups, f.memberships, fakeTx{}, f.policy, zap.NewNop())
}

func TestGroupService_CreateMakesCreatorAdminAndMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	creator := f.db.addPlayer("ana")
	svc := newGroupService(f)

	view, err := svc.Create(ctx, creator, CreateGroupInput{Name: "  Quinta FC ", PointGoal: 3, PointAssist: 1})

	require.NoError(t, err)
	assert.Equal(t, "Quinta FC", view.Group.Name)
	assert.Regexp(t, inviteCodePattern, view.Group.InviteCode)
	assert.True(t, view.IsAdmin)
	assert.EqualValues(t, 1, view.TotalPlayers)

	m := f.db.membership(view.Group.ID, creator)
	require.NotNil(t, m)
	assert.True(t, m.Active)
	assert.True(t, f.db.admins[view.Group.ID][creator])
}

func TestGroupService_InviteCodesAreUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	creator := f.db.addPlayer("ana")
	svc := newGroupService(f)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		view, err := svc.Create(ctx, creator, CreateGroupInput{Name: "g"})
		require.NoError(t, err)
		assert.False(t, seen[view.Group.InviteCode], "duplicate code %s", view.Group.InviteCode)
		seen[view.Group.InviteCode] = true
	}
}

func TestGroupService_CreateRejectsInvertedDates(t *testing.T) {
	f := newFixture()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := newGroupService(f).Create(context.Background(), f.db.addPlayer("ana"),
		CreateGroupInput{Name: "g", StartDate: &start, EndDate: &end})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGroupService_GetRequiresMembership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, member, stranger := f.db.addPlayer("a"), f.db.addPlayer("m"), f.db.addPlayer("s")
	groupID := f.db.addGroup(admin)
	f.db.addMember(groupID, member, true)
	svc := newGroupService(f)

	view, err := svc.Get(ctx, member, groupID)
	require.NoError(t, err)
	assert.False(t, view.IsAdmin)
	assert.EqualValues(t, 2, view.TotalPlayers)

	_, err = svc.Get(ctx, stranger, groupID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, admin, uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGroupService_UpdateIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, member := f.db.addPlayer("a"), f.db.addPlayer("m")
	groupID := f.db.addGroup(admin)
	f.db.addMember(groupID, member, true)
	svc := newGroupService(f)

	goal := 5
	_, err := svc.Update(ctx, member, groupID, UpdateGroupInput{PointGoal: &goal})
	assert.ErrorIs(t, err, ErrForbidden)

	view, err := svc.Update(ctx, admin, groupID, UpdateGroupInput{PointGoal: &goal})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Group.PointGoal)
	assert.Equal(t, 5, f.db.groups[groupID].PointGoal)
}

func TestGroupService_ListMine(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ana, bia := f.db.addPlayer("ana"), f.db.addPlayer("bia")
	own := f.db.addGroup(ana)
	joined := f.db.addGroup(bia)
	left := f.db.addGroup(bia)
	f.db.addMember(joined, ana, true)
	f.db.addMember(left, ana, false)

	views, err := newGroupService(f).ListMine(ctx, ana)

	require.NoError(t, err)
	got := map[uuid.UUID]bool{}
	for _, v := range views {
		got[v.Group.ID] = v.IsAdmin
	}
	assert.Equal(t, map[uuid.UUID]bool{own: true, joined: false}, got)
}

func TestGroupService_RemoveMemberDeactivates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, member := f.db.addPlayer("a"), f.db.addPlayer("m")
	groupID := f.db.addGroup(admin)
	f.db.addMember(groupID, member, true)
	svc := newGroupService(f)

	assert.ErrorIs(t, svc.RemoveMember(ctx, member, groupID, admin), ErrForbidden)
	require.NoError(t, svc.RemoveMember(ctx, admin, groupID, member))

	m := f.db.membership(groupID, member)
	require.NotNil(t, m, "membership rows are never deleted")
	assert.False(t, m.Active)

	members, err := svc.Members(ctx, admin, groupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, admin, members[0].PlayerID)

	assert.ErrorIs(t, svc.RemoveMember(ctx, admin, groupID, uuid.New()), ErrMembershipNotFound)
}

func TestGroupService_BlankNameRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin := f.db.addPlayer("a")
	groupID := f.db.addGroup(admin)
	before := f.db.groups[groupID].Name
	svc := newGroupService(f)

	_, err := svc.Create(ctx, admin, CreateGroupInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	blank := " \t "
	_, err = svc.Update(ctx, admin, groupID, UpdateGroupInput{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, before, f.db.groups[groupID].Name)
}
