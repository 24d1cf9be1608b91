package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
	"rachas/hub/internal/repository"
)

func newJoinRequestService(f *fixture, reactivation ReactivationPolicy) JoinRequestService {
	return NewJoinRequestService(f.requests, f.groups, f.memberships, fakeTx{}, f.policy, reactivation, zap.NewNop())
}

func countMemberships(db *fakeDB, groupID, playerID uuid.UUID) int {
	n := 0
	for _, m := range db.memberships {
		if m.GroupID == groupID && m.PlayerID == playerID {
			n++
		}
	}
	return n
}

func TestJoinRequest_SubmitAndApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, player := f.db.addPlayer("admin"), f.db.addPlayer("joao")
	groupID := f.db.addGroup(admin)
	code := f.db.groups[groupID].InviteCode
	svc := newJoinRequestService(f, ReactivationKeep)

	req, err := svc.Submit(ctx, player, " "+strings.ToLower(code)+" ")
	require.NoError(t, err)
	assert.Equal(t, model.JoinRequestPending, req.Status)
	assert.Equal(t, groupID, req.Group.ID)

	_, err = svc.Submit(ctx, player, code)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	approved, err := svc.Approve(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JoinRequestAccepted, approved.Status)
	assert.Equal(t, 1, countMemberships(f.db, groupID, player))
	assert.True(t, f.db.membership(groupID, player).Active)

	_, err = svc.Approve(ctx, admin, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	_, err = svc.Deny(ctx, admin, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestJoinRequest_AlreadyMemberIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, member := f.db.addPlayer("admin"), f.db.addPlayer("m")
	groupID := f.db.addGroup(admin)
	f.db.addMember(groupID, member, true)
	svc := newJoinRequestService(f, ReactivationKeep)

	_, err := svc.SubmitToGroup(ctx, member, groupID, f.db.groups[groupID].InviteCode)

	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, 1, countMemberships(f.db, groupID, member))
	assert.Empty(t, f.db.requests)
}

func TestJoinRequest_SubmitToGroupChecksCodeOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, player := f.db.addPlayer("admin"), f.db.addPlayer("p")
	g1, g2 := f.db.addGroup(admin), f.db.addGroup(admin)
	svc := newJoinRequestService(f, ReactivationKeep)

	_, err := svc.SubmitToGroup(ctx, player, g1, f.db.groups[g2].InviteCode)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = svc.Submit(ctx, player, "ZZZZZ")
	assert.ErrorIs(t, err, ErrInviteCodeInvalid)
}

func TestJoinRequest_OnlyAdminsDecide(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, member, player := f.db.addPlayer("admin"), f.db.addPlayer("m"), f.db.addPlayer("p")
	groupID := f.db.addGroup(admin)
	f.db.addMember(groupID, member, true)
	svc := newJoinRequestService(f, ReactivationKeep)

	req, err := svc.Submit(ctx, player, f.db.groups[groupID].InviteCode)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, member, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	denied, err := svc.Deny(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JoinRequestDenied, denied.Status)
	assert.Nil(t, f.db.membership(groupID, player))

	_, err = svc.Approve(ctx, admin, uuid.New())
	assert.ErrorIs(t, err, ErrJoinRequestNotFound)
}

func TestJoinRequest_ListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, p1, p2 := f.db.addPlayer("admin"), f.db.addPlayer("p1"), f.db.addPlayer("p2")
	groupID := f.db.addGroup(admin)
	code := f.db.groups[groupID].InviteCode
	svc := newJoinRequestService(f, ReactivationKeep)

	r1, err := svc.Submit(ctx, p1, code)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, p2, code)
	require.NoError(t, err)
	_, err = svc.Deny(ctx, admin, r1.ID)
	require.NoError(t, err)

	pending := model.JoinRequestPending
	got, err := svc.List(ctx, admin, &pending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p2, got[0].PlayerID)

	all, err := svc.List(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := svc.List(ctx, p1, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJoinRequest_ReactivationPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("keep blocks former members", func(t *testing.T) {
		f := newFixture()
		admin, former := f.db.addPlayer("admin"), f.db.addPlayer("f")
		groupID := f.db.addGroup(admin)
		f.db.addMember(groupID, former, false)

		_, err := newJoinRequestService(f, ReactivationKeep).Submit(ctx, former, f.db.groups[groupID].InviteCode)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("keep leaves the row untouched on approval", func(t *testing.T) {
		f := newFixture()
		admin, former := f.db.addPlayer("admin"), f.db.addPlayer("f")
		groupID := f.db.addGroup(admin)
		f.db.requests = append(f.db.requests, &model.JoinRequest{
			ID: uuid.New(), GroupID: groupID, PlayerID: former, Status: model.JoinRequestPending,
		})
		f.db.addMember(groupID, former, false)
		svc := newJoinRequestService(f, ReactivationKeep)

		_, err := svc.Approve(ctx, admin, f.db.requests[0].ID)
		require.NoError(t, err)
		assert.False(t, f.db.membership(groupID, former).Active)
	})

	t.Run("reactivate restores the membership", func(t *testing.T) {
		f := newFixture()
		admin, former := f.db.addPlayer("admin"), f.db.addPlayer("f")
		groupID := f.db.addGroup(admin)
		f.db.addMember(groupID, former, false)
		svc := newJoinRequestService(f, ReactivationReactivate)

		req, err := svc.Submit(ctx, former, f.db.groups[groupID].InviteCode)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, admin, req.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, countMemberships(f.db, groupID, former))
		assert.True(t, f.db.membership(groupID, former).Active)
	})

	t.Run("reactivate allows a second acceptance", func(t *testing.T) {
		f := newFixture()
		admin, player := f.db.addPlayer("admin"), f.db.addPlayer("p")
		groupID := f.db.addGroup(admin)
		code := f.db.groups[groupID].InviteCode
		svc := newJoinRequestService(f, ReactivationReactivate)
		groups := newGroupService(f)

		first, err := svc.Submit(ctx, player, code)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, admin, first.ID)
		require.NoError(t, err)
		require.NoError(t, groups.RemoveMember(ctx, admin, groupID, player))

		second, err := svc.Submit(ctx, player, code)
		require.NoError(t, err)
		_, err = svc.Approve(ctx, admin, second.ID)
		require.NoError(t, err)

		accepted := 0
		for _, r := range f.db.requests {
			if r.Status == model.JoinRequestAccepted {
				accepted++
			}
		}
		assert.Equal(t, 1, accepted)
		assert.True(t, f.db.membership(groupID, player).Active)
	})
}

// racingRequestRepo simulates a concurrent writer: the existence check misses
// and the status update loses on the unique key.
type racingRequestRepo struct {
	repository.JoinRequestRepository
	statusErr error
}

func (r *racingRequestRepo) Exists(context.Context, uuid.UUID, uuid.UUID, model.JoinRequestStatus) (bool, error) {
	return false, nil
}

func (r *racingRequestRepo) SetStatus(ctx context.Context, req *model.JoinRequest, status model.JoinRequestStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	return r.JoinRequestRepository.SetStatus(ctx, req, status)
}

func TestJoinRequest_UniqueKeyRaceOnSubmitIsDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, player := f.db.addPlayer("admin"), f.db.addPlayer("joao")
	groupID := f.db.addGroup(admin)
	code := f.db.groups[groupID].InviteCode
	repo := &racingRequestRepo{JoinRequestRepository: f.requests}
	svc := NewJoinRequestService(repo, f.groups, f.memberships, fakeTx{}, f.policy, ReactivationKeep, zap.NewNop())

	_, err := svc.Submit(ctx, player, code)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, player, code)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	assert.Len(t, f.db.requests, 1)
}

func TestJoinRequest_UniqueKeyRaceOnDecisionIsNotPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, player := f.db.addPlayer("admin"), f.db.addPlayer("joao")
	groupID := f.db.addGroup(admin)
	code := f.db.groups[groupID].InviteCode
	repo := &racingRequestRepo{JoinRequestRepository: f.requests}
	svc := NewJoinRequestService(repo, f.groups, f.memberships, fakeTx{}, f.policy, ReactivationKeep, zap.NewNop())

	req, err := svc.Submit(ctx, player, code)
	require.NoError(t, err)

	repo.statusErr = gorm.ErrDuplicatedKey
	_, err = svc.Approve(ctx, admin, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	_, err = svc.Deny(ctx, admin, req.ID)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}
