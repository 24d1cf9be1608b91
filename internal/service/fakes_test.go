package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rachas/hub/internal/model"
	"rachas/hub/internal/policy"
	"rachas/hub/internal/repository"
)

// fakeDB is an in-memory stand-in for the relational store shared by the
// fake repositories below.
type fakeDB struct {
	players     map[uuid.UUID]model.Player
	groups      map[uuid.UUID]model.Group
	admins      map[uuid.UUID]map[uuid.UUID]bool
	memberships []*model.Membership
	matches     map[uuid.UUID]model.Match
	attendances []*model.Attendance
	goals       []*model.GoalEvent
	prizes      map[uuid.UUID]model.Prize
	awards      []*model.PrizeAward
	requests    []*model.JoinRequest
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		players: map[uuid.UUID]model.Player{},
		groups:  map[uuid.UUID]model.Group{},
		admins:  map[uuid.UUID]map[uuid.UUID]bool{},
		matches: map[uuid.UUID]model.Match{},
		prizes:  map[uuid.UUID]model.Prize{},
	}
}

func (db *fakeDB) addPlayer(username string) uuid.UUID {
	id := uuid.New()
	db.players[id] = model.Player{ID: id, Username: username}
	return id
}

func (db *fakeDB) addGroup(admin uuid.UUID, weights ...int) uuid.UUID {
	id := uuid.New()
	g := model.Group{ID: id, Name: "racha", InviteCode: strings.ToUpper(id.String()[:5])}
	if len(weights) == 3 {
		g.PointGoal, g.PointAssist, g.PointPresence = weights[0], weights[1], weights[2]
	}
	db.groups[id] = g
	db.admins[id] = map[uuid.UUID]bool{admin: true}
	db.addMember(id, admin, true)
	return id
}

func (db *fakeDB) addMember(groupID, playerID uuid.UUID, active bool) {
	db.memberships = append(db.memberships, &model.Membership{
		ID: uuid.New(), GroupID: groupID, PlayerID: playerID, Active: active, JoinedAt: time.Now(),
	})
}

func (db *fakeDB) addMatch(groupID uuid.UUID, start time.Time) uuid.UUID {
	id := uuid.New()
	db.matches[id] = model.Match{ID: id, GroupID: groupID, StartTime: &start, Status: model.MatchStatusOpen}
	return id
}

func (db *fakeDB) membership(groupID, playerID uuid.UUID) *model.Membership {
	for _, m := range db.memberships {
		if m.GroupID == groupID && m.PlayerID == playerID {
			return m
		}
	}
	return nil
}

func (db *fakeDB) withAdmins(g model.Group) *model.Group {
	g.Admins = nil
	for pid := range db.admins[g.ID] {
		g.Admins = append(g.Admins, db.players[pid])
	}
	return &g
}

func (db *fakeDB) belongs(groupID, playerID uuid.UUID) bool {
	if db.admins[groupID][playerID] {
		return true
	}
	m := db.membership(groupID, playerID)
	return m != nil && m.Active
}

// --- players ---

type fakePlayerRepo struct{ db *fakeDB }

func (r *fakePlayerRepo) Create(_ context.Context, p *model.Player) error {
	for _, existing := range r.db.players {
		if strings.EqualFold(existing.Username, p.Username) {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = uuid.New()
	r.db.players[p.ID] = *p
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Player, error) {
	p, ok := r.db.players[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakePlayerRepo) GetByUsername(_ context.Context, username string) (*model.Player, error) {
	for _, p := range r.db.players {
		if strings.EqualFold(p.Username, username) {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePlayerRepo) Update(_ context.Context, p *model.Player) error {
	r.db.players[p.ID] = *p
	return nil
}

// --- groups ---

type fakeGroupRepo struct{ db *fakeDB }

func (r *fakeGroupRepo) Create(_ context.Context, g *model.Group) error {
	for _, existing := range r.db.groups {
		if existing.InviteCode == g.InviteCode {
			return gorm.ErrDuplicatedKey
		}
	}
	g.ID = uuid.New()
	r.db.groups[g.ID] = *g
	return nil
}

func (r *fakeGroupRepo) AddAdmin(_ context.Context, groupID, playerID uuid.UUID) error {
	if r.db.admins[groupID] == nil {
		r.db.admins[groupID] = map[uuid.UUID]bool{}
	}
	r.db.admins[groupID][playerID] = true
	return nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Group, error) {
	g, ok := r.db.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.db.withAdmins(g), nil
}

func (r *fakeGroupRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range r.db.prizes {
		if p.GroupID == id {
			g.Prizes = append(g.Prizes, p)
		}
	}
	return g, nil
}

func (r *fakeGroupRepo) GetByInviteCode(_ context.Context, code string) (*model.Group, error) {
	for _, g := range r.db.groups {
		if g.InviteCode == code {
			return r.db.withAdmins(g), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGroupRepo) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByInviteCode(ctx, code)
	return err == nil, nil
}

func (r *fakeGroupRepo) IsAdmin(_ context.Context, groupID, playerID uuid.UUID) (bool, error) {
	return r.db.admins[groupID][playerID], nil
}

func (r *fakeGroupRepo) ListForPlayer(_ context.Context, playerID uuid.UUID) ([]model.Group, error) {
	var out []model.Group
	for _, g := range r.db.groups {
		if r.db.belongs(g.ID, playerID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) Update(_ context.Context, g *model.Group) error {
	cp := *g
	cp.Admins, cp.Prizes = nil, nil
	r.db.groups[g.ID] = cp
	return nil
}

// --- memberships ---

type fakeMembershipRepo struct{ db *fakeDB }

func (r *fakeMembershipRepo) Create(_ context.Context, m *model.Membership) error {
	if r.db.membership(m.GroupID, m.PlayerID) != nil {
		return gorm.ErrDuplicatedKey
	}
	m.ID = uuid.New()
	m.JoinedAt = time.Now()
	cp := *m
	r.db.memberships = append(r.db.memberships, &cp)
	return nil
}

func (r *fakeMembershipRepo) Get(_ context.Context, groupID, playerID uuid.UUID) (*model.Membership, error) {
	m := r.db.membership(groupID, playerID)
	if m == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMembershipRepo) Update(_ context.Context, m *model.Membership) error {
	stored := r.db.membership(m.GroupID, m.PlayerID)
	if stored == nil {
		return gorm.ErrRecordNotFound
	}
	*stored = *m
	return nil
}

func (r *fakeMembershipRepo) ListActive(_ context.Context, groupID uuid.UUID) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range r.db.memberships {
		if m.GroupID == groupID && m.Active {
			cp := *m
			cp.Player = r.db.players[m.PlayerID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) CountActive(ctx context.Context, groupID uuid.UUID) (int64, error) {
	active, _ := r.ListActive(ctx, groupID)
	return int64(len(active)), nil
}

// --- prizes ---

type fakePrizeRepo struct{ db *fakeDB }

func (r *fakePrizeRepo) Create(_ context.Context, p *model.Prize) error {
	p.ID = uuid.New()
	r.db.prizes[p.ID] = *p
	return nil
}

func (r *fakePrizeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Prize, error) {
	p, ok := r.db.prizes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakePrizeRepo) Update(_ context.Context, p *model.Prize) error {
	r.db.prizes[p.ID] = *p
	return nil
}

func (r *fakePrizeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.db.prizes, id)
	return nil
}

func (r *fakePrizeRepo) ListAdministeredBy(_ context.Context, adminID uuid.UUID, groupID *uuid.UUID) ([]model.Prize, error) {
	var out []model.Prize
	for _, p := range r.db.prizes {
		if !r.db.admins[p.GroupID][adminID] {
			continue
		}
		if groupID != nil && p.GroupID != *groupID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePrizeRepo) CreateAward(_ context.Context, a *model.PrizeAward) error {
	a.ID = uuid.New()
	cp := *a
	r.db.awards = append(r.db.awards, &cp)
	return nil
}

// --- matches ---

type fakeMatchRepo struct{ db *fakeDB }

func (r *fakeMatchRepo) Create(_ context.Context, m *model.Match) error {
	m.ID = uuid.New()
	r.db.matches[m.ID] = *m
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Match, error) {
	m, ok := r.db.matches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *fakeMatchRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, a := range r.db.attendances {
		if a.MatchID == id {
			m.Attendances = append(m.Attendances, *a)
		}
	}
	for _, g := range r.db.goals {
		if g.MatchID == id {
			m.Goals = append(m.Goals, *g)
		}
	}
	for _, a := range r.db.awards {
		if a.MatchID == id {
			m.Awards = append(m.Awards, *a)
		}
	}
	return m, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, m *model.Match) error {
	cp := *m
	cp.Attendances, cp.Goals, cp.Awards = nil, nil, nil
	r.db.matches[m.ID] = cp
	return nil
}

func (r *fakeMatchRepo) ListForPlayer(_ context.Context, playerID uuid.UUID) ([]model.Match, error) {
	var out []model.Match
	for _, m := range r.db.matches {
		if r.db.belongs(m.GroupID, playerID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpsertAttendance(_ context.Context, a *model.Attendance) error {
	for _, existing := range r.db.attendances {
		if existing.MatchID == a.MatchID && existing.PlayerID == a.PlayerID {
			existing.Present = a.Present
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = uuid.New()
	cp := *a
	r.db.attendances = append(r.db.attendances, &cp)
	return nil
}

func (r *fakeMatchRepo) ListPresent(_ context.Context, matchID uuid.UUID) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, a := range r.db.attendances {
		if a.MatchID == matchID && a.Present {
			cp := *a
			cp.Player = r.db.players[a.PlayerID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) CreateGoal(_ context.Context, g *model.GoalEvent) error {
	g.ID = uuid.New()
	cp := *g
	r.db.goals = append(r.db.goals, &cp)
	return nil
}

func (r *fakeMatchRepo) GetGoal(_ context.Context, matchID, goalID uuid.UUID) (*model.GoalEvent, error) {
	for _, g := range r.db.goals {
		if g.ID == goalID && g.MatchID == matchID {
			cp := *g
			cp.Scorer = r.db.players[g.ScorerID]
			if g.AssisterID != nil {
				assister := r.db.players[*g.AssisterID]
				cp.Assister = &assister
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMatchRepo) UpdateGoal(_ context.Context, g *model.GoalEvent) error {
	for _, stored := range r.db.goals {
		if stored.ID == g.ID {
			stored.ScorerID = g.ScorerID
			stored.AssisterID = g.AssisterID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeMatchRepo) DeleteGoal(_ context.Context, matchID, goalID uuid.UUID) error {
	for i, g := range r.db.goals {
		if g.ID == goalID && g.MatchID == matchID {
			r.db.goals = append(r.db.goals[:i], r.db.goals[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- join requests ---

type fakeJoinRequestRepo struct{ db *fakeDB }

func (r *fakeJoinRequestRepo) find(groupID, playerID uuid.UUID, status model.JoinRequestStatus) *model.JoinRequest {
	for _, req := range r.db.requests {
		if req.GroupID == groupID && req.PlayerID == playerID && req.Status == status {
			return req
		}
	}
	return nil
}

func (r *fakeJoinRequestRepo) Create(_ context.Context, req *model.JoinRequest) error {
	if r.find(req.GroupID, req.PlayerID, req.Status) != nil {
		return gorm.ErrDuplicatedKey
	}
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	cp := *req
	r.db.requests = append(r.db.requests, &cp)
	return nil
}

func (r *fakeJoinRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*model.JoinRequest, error) {
	for _, req := range r.db.requests {
		if req.ID == id {
			cp := *req
			cp.Group = *r.db.withAdmins(r.db.groups[req.GroupID])
			cp.Player = r.db.players[req.PlayerID]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeJoinRequestRepo) Exists(_ context.Context, groupID, playerID uuid.UUID, status model.JoinRequestStatus) (bool, error) {
	return r.find(groupID, playerID, status) != nil, nil
}

func (r *fakeJoinRequestRepo) SetStatus(_ context.Context, req *model.JoinRequest, status model.JoinRequestStatus) error {
	kept := r.db.requests[:0]
	for _, existing := range r.db.requests {
		if existing.ID != req.ID && existing.GroupID == req.GroupID &&
			existing.PlayerID == req.PlayerID && existing.Status == status {
			continue
		}
		kept = append(kept, existing)
	}
	r.db.requests = kept
	for _, existing := range r.db.requests {
		if existing.ID == req.ID {
			existing.Status = status
		}
	}
	req.Status = status
	return nil
}

func (r *fakeJoinRequestRepo) ListForAdmin(_ context.Context, adminID uuid.UUID, status *model.JoinRequestStatus) ([]model.JoinRequest, error) {
	var out []model.JoinRequest
	for _, req := range r.db.requests {
		if !r.db.admins[req.GroupID][adminID] {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

// --- stats ---

type fakeStatsRepo struct{ db *fakeDB }

func (r *fakeStatsRepo) row(playerID uuid.UUID) model.PlayerStats {
	p := r.db.players[playerID]
	return model.PlayerStats{PlayerID: p.ID, Username: p.Username, FirstName: p.FirstName, LastName: p.LastName}
}

func (r *fakeStatsRepo) GroupStats(_ context.Context, groupID uuid.UUID) ([]model.PlayerStats, error) {
	inGroup := func(matchID uuid.UUID) bool { return r.db.matches[matchID].GroupID == groupID }

	out := []model.PlayerStats{}
	for _, m := range r.db.memberships {
		if m.GroupID != groupID || !m.Active {
			continue
		}
		s := r.row(m.PlayerID)
		for _, g := range r.db.goals {
			if !inGroup(g.MatchID) {
				continue
			}
			if g.ScorerID == m.PlayerID {
				s.Goals++
			}
			if g.AssisterID != nil && *g.AssisterID == m.PlayerID {
				s.Assists++
			}
		}
		for _, a := range r.db.attendances {
			if inGroup(a.MatchID) && a.PlayerID == m.PlayerID && a.Present {
				s.Presences++
			}
		}
		for _, a := range r.db.awards {
			if inGroup(a.MatchID) && a.PlayerID == m.PlayerID {
				s.PrizePoints += r.db.prizes[a.PrizeID].PointValue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStatsRepo) GlobalStats(_ context.Context) ([]model.PlayerStats, error) {
	byPlayer := map[uuid.UUID]*model.PlayerStats{}
	get := func(id uuid.UUID) *model.PlayerStats {
		if s, ok := byPlayer[id]; ok {
			return s
		}
		s := r.row(id)
		byPlayer[id] = &s
		return &s
	}
	for _, g := range r.db.goals {
		get(g.ScorerID).Goals++
		if g.AssisterID != nil {
			get(*g.AssisterID).Assists++
		}
	}
	out := []model.PlayerStats{}
	for _, s := range byPlayer {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeStatsRepo) PlayerTotals(_ context.Context, playerID uuid.UUID) (*model.PlayerTotals, error) {
	t := &model.PlayerTotals{}
	for id := range r.db.groups {
		if r.db.belongs(id, playerID) {
			t.GroupCount++
		}
	}
	for _, a := range r.db.attendances {
		if a.PlayerID == playerID && a.Present {
			t.MatchCount++
		}
	}
	for _, g := range r.db.goals {
		if g.ScorerID == playerID {
			t.Goals++
		}
		if g.AssisterID != nil && *g.AssisterID == playerID {
			t.Assists++
		}
	}
	return t, nil
}

func (r *fakeStatsRepo) BestAssister(_ context.Context, playerID uuid.UUID) (*model.PlayerStats, error) {
	counts := map[uuid.UUID]int{}
	for _, g := range r.db.goals {
		if g.ScorerID == playerID && g.AssisterID != nil {
			counts[*g.AssisterID]++
		}
	}
	var best *model.PlayerStats
	for id, n := range counts {
		if best == nil || n > best.Assists || (n == best.Assists && id.String() < best.PlayerID.String()) {
			s := r.row(id)
			s.Assists = n
			best = &s
		}
	}
	return best, nil
}

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixture wires every repository to one fakeDB.
type fixture struct {
	db          *fakeDB
	players     repository.PlayerRepository
	groups      repository.GroupRepository
	memberships repository.MembershipRepository
	prizes      repository.PrizeRepository
	matches     repository.MatchRepository
	requests    repository.JoinRequestRepository
	stats       repository.StatsRepository
	policy      *policy.Policy
}

func newFixture() *fixture {
	db := newFakeDB()
	f := &fixture{
		db:          db,
		players:     &fakePlayerRepo{db},
		groups:      &fakeGroupRepo{db},
		memberships: &fakeMembershipRepo{db},
		prizes:      &fakePrizeRepo{db},
		matches:     &fakeMatchRepo{db},
		requests:    &fakeJoinRequestRepo{db},
		stats:       &fakeStatsRepo{db},
	}
	f.policy = policy.New(f.groups, f.memberships)
	return f
}
