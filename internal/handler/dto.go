package handler

import (
	"time"

	"github.com/google/uuid"

	"rachas/hub/internal/model"
	"rachas/hub/internal/ranking"
	"rachas/hub/internal/service"
	"rachas/hub/pkg/media"
)

type PlayerSummary struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	FullName     string         `json:"full_name"`
	Position     model.Position `json:"position"`
	ProfileImage *string        `json:"profile_image"`
}

type PlayerDetail struct {
	PlayerSummary
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	BirthDate *string   `json:"birth_date"`
	AuthUID   string    `json:"auth_uid"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage *string   `json:"profile_image"`
}

type GroupSummary struct {
	GroupRef
	Description   string    `json:"description"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	InviteCode    string    `json:"invite_code"`
	PointGoal     int       `json:"point_goal"`
	PointAssist   int       `json:"point_assist"`
	PointPresence int       `json:"point_presence"`
	CreatedAt     time.Time `json:"created_at"`
	TotalPlayers  int64     `json:"total_players"`
	IsAdmin       bool      `json:"is_admin"`
}

type GroupDetail struct {
	GroupSummary
	Prizes []PrizeResponse `json:"prizes"`
}

type MembershipResponse struct {
	ID       uuid.UUID     `json:"id"`
	GroupID  uuid.UUID     `json:"group_id"`
	Player   PlayerSummary `json:"player"`
	JoinedAt time.Time     `json:"joined_at"`
	Active   bool          `json:"active"`
}

type PrizeResponse struct {
	ID         uuid.UUID `json:"id"`
	GroupID    uuid.UUID `json:"group_id"`
	Name       string    `json:"name"`
	PointValue int       `json:"point_value"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

type MatchSummary struct {
	ID        uuid.UUID         `json:"id"`
	GroupID   uuid.UUID         `json:"group_id"`
	StartTime *time.Time        `json:"start_time"`
	EndTime   *time.Time        `json:"end_time"`
	Status    model.MatchStatus `json:"status"`
	Location  string            `json:"location"`
	TimeLabel string            `json:"time_label"`
	CreatedAt time.Time         `json:"created_at"`
}

type MatchDetail struct {
	MatchSummary
	Attendances  []AttendanceResponse `json:"attendances"`
	Goals        []GoalResponse       `json:"goals"`
	Awards       []AwardResponse      `json:"awards"`
	GroupIsAdmin bool                 `json:"group_is_admin"`
}

type AttendanceResponse struct {
	ID      uuid.UUID     `json:"id"`
	MatchID uuid.UUID     `json:"match_id"`
	Player  PlayerSummary `json:"player"`
	Present bool          `json:"present"`
}

type GoalResponse struct {
	ID        uuid.UUID      `json:"id"`
	MatchID   uuid.UUID      `json:"match_id"`
	Scorer    PlayerSummary  `json:"scorer"`
	Assister  *PlayerSummary `json:"assister"`
	CreatedAt time.Time      `json:"created_at"`
}

type AwardResponse struct {
	ID        uuid.UUID     `json:"id"`
	MatchID   uuid.UUID     `json:"match_id"`
	Prize     PrizeResponse `json:"prize"`
	Player    PlayerSummary `json:"player"`
	CreatedAt time.Time     `json:"created_at"`
}

type JoinRequestResponse struct {
	ID        uuid.UUID               `json:"id"`
	Group     GroupRef                `json:"group"`
	Player    PlayerSummary           `json:"player"`
	Status    model.JoinRequestStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
}

type RankingEntry struct {
	Position    int           `json:"position"`
	Player      PlayerSummary `json:"player"`
	Goals       int           `json:"goals"`
	Assists     int           `json:"assists"`
	Presences   int           `json:"presences"`
	PrizePoints int           `json:"prize_points"`
	Total       int           `json:"total"`
}

type GlobalRankingEntry struct {
	Position int           `json:"position"`
	Player   PlayerSummary `json:"player"`
	Goals    int           `json:"goals"`
	Assists  int           `json:"assists"`
	Score    int           `json:"score"`
}

type TopScorerEntry struct {
	Position int           `json:"position"`
	Player   PlayerSummary `json:"player"`
	Goals    int           `json:"goals"`
}

type TopAssistEntry struct {
	Position int           `json:"position"`
	Player   PlayerSummary `json:"player"`
	Assists  int           `json:"assists"`
}

type BestAssister struct {
	PlayerSummary
	Assists int `json:"assists"`
}

type DashboardResponse struct {
	PlayerSummary
	GroupCount      int           `json:"group_count"`
	MatchCount      int           `json:"match_count"`
	Goals           int           `json:"goals"`
	Assists         int           `json:"assists"`
	GoalsPerMatch   float64       `json:"goals_per_match"`
	AssistsPerMatch float64       `json:"assists_per_match"`
	BestAssister    *BestAssister `json:"best_assister"`
}

// presenter builds response DTOs, resolving stored image paths to URLs.
type presenter struct {
	urls *media.URLResolver
}

func (p presenter) player(m *model.Player) PlayerSummary {
	return PlayerSummary{
		ID:           m.ID,
		Username:     m.Username,
		FullName:     m.FullName(),
		Position:     m.Position,
		ProfileImage: p.urls.Resolve(m.ProfileImage),
	}
}

func (p presenter) playerStats(s *model.PlayerStats) PlayerSummary {
	return PlayerSummary{
		ID:           s.PlayerID,
		Username:     s.Username,
		FullName:     s.FullName(),
		Position:     s.Position,
		ProfileImage: p.urls.Resolve(s.ProfileImage),
	}
}

func (p presenter) playerDetail(m *model.Player) PlayerDetail {
	return PlayerDetail{
		PlayerSummary: p.player(m),
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Phone:         m.Phone,
		BirthDate:     formatDate(m.BirthDate),
		AuthUID:       m.AuthUID,
		CreatedAt:     m.CreatedAt,
	}
}

func (p presenter) groupRef(g *model.Group) GroupRef {
	return GroupRef{ID: g.ID, Name: g.Name, ProfileImage: p.urls.Resolve(g.ProfileImage)}
}

func (p presenter) groupSummary(v *service.GroupView) GroupSummary {
	g := v.Group
	return GroupSummary{
		GroupRef:      p.groupRef(g),
		Description:   g.Description,
		StartDate:     formatDate(g.StartDate),
		EndDate:       formatDate(g.EndDate),
		InviteCode:    g.InviteCode,
		PointGoal:     g.PointGoal,
		PointAssist:   g.PointAssist,
		PointPresence: g.PointPresence,
		CreatedAt:     g.CreatedAt,
		TotalPlayers:  v.TotalPlayers,
		IsAdmin:       v.IsAdmin,
	}
}

func (p presenter) groupDetail(v *service.GroupView) GroupDetail {
	prizes := make([]PrizeResponse, 0, len(v.Group.Prizes))
	for i := range v.Group.Prizes {
		prizes = append(prizes, p.prize(&v.Group.Prizes[i]))
	}
	return GroupDetail{GroupSummary: p.groupSummary(v), Prizes: prizes}
}

func (p presenter) membership(m *model.Membership) MembershipResponse {
	return MembershipResponse{
		ID:       m.ID,
		GroupID:  m.GroupID,
		Player:   p.player(&m.Player),
		JoinedAt: m.JoinedAt,
		Active:   m.Active,
	}
}

func (p presenter) prize(m *model.Prize) PrizeResponse {
	return PrizeResponse{
		ID:         m.ID,
		GroupID:    m.GroupID,
		Name:       m.Name,
		PointValue: m.PointValue,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt,
	}
}

func (p presenter) matchSummary(m *model.Match) MatchSummary {
	return MatchSummary{
		ID:        m.ID,
		GroupID:   m.GroupID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Status:    m.Status,
		Location:  m.Location,
		TimeLabel: m.TimeLabel,
		CreatedAt: m.CreatedAt,
	}
}

func (p presenter) matchDetail(v *service.MatchView) MatchDetail {
	m := v.Match
	d := MatchDetail{
		MatchSummary: p.matchSummary(m),
		Attendances:  make([]AttendanceResponse, 0, len(m.Attendances)),
		Goals:        make([]GoalResponse, 0, len(m.Goals)),
		Awards:       make([]AwardResponse, 0, len(m.Awards)),
		GroupIsAdmin: v.GroupIsAdmin,
	}
	for i := range m.Attendances {
		d.Attendances = append(d.Attendances, p.attendance(&m.Attendances[i]))
	}
	for i := range m.Goals {
		d.Goals = append(d.Goals, p.goal(&m.Goals[i]))
	}
	for i := range m.Awards {
		d.Awards = append(d.Awards, p.award(&m.Awards[i]))
	}
	return d
}

func (p presenter) attendance(a *model.Attendance) AttendanceResponse {
	return AttendanceResponse{ID: a.ID, MatchID: a.MatchID, Player: p.player(&a.Player), Present: a.Present}
}

func (p presenter) goal(g *model.GoalEvent) GoalResponse {
	r := GoalResponse{ID: g.ID, MatchID: g.MatchID, Scorer: p.player(&g.Scorer), CreatedAt: g.CreatedAt}
	if g.Assister != nil {
		a := p.player(g.Assister)
		r.Assister = &a
	}
	return r
}

func (p presenter) award(a *model.PrizeAward) AwardResponse {
	return AwardResponse{
		ID:        a.ID,
		MatchID:   a.MatchID,
		Prize:     p.prize(&a.Prize),
		Player:    p.player(&a.Player),
		CreatedAt: a.CreatedAt,
	}
}

func (p presenter) joinRequest(r *model.JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		ID:        r.ID,
		Group:     p.groupRef(&r.Group),
		Player:    p.player(&r.Player),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func (p presenter) ranking(entries []ranking.Entry) []RankingEntry {
	out := make([]RankingEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, RankingEntry{
			Position:    e.Position,
			Player:      p.playerStats(&e.PlayerStats),
			Goals:       e.Goals,
			Assists:     e.Assists,
			Presences:   e.Presences,
			PrizePoints: e.PrizePoints,
			Total:       e.Score,
		})
	}
	return out
}

func (p presenter) globalRanking(entries []ranking.Entry) []GlobalRankingEntry {
	out := make([]GlobalRankingEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, GlobalRankingEntry{
			Position: e.Position,
			Player:   p.playerStats(&e.PlayerStats),
			Goals:    e.Goals,
			Assists:  e.Assists,
			Score:    e.Score,
		})
	}
	return out
}

func (p presenter) topScorers(entries []ranking.Entry) []TopScorerEntry {
	out := make([]TopScorerEntry, 0, len(entries))
	for i := range entries {
		out = append(out, TopScorerEntry{
			Position: entries[i].Position,
			Player:   p.playerStats(&entries[i].PlayerStats),
			Goals:    entries[i].Score,
		})
	}
	return out
}

func (p presenter) topAssists(entries []ranking.Entry) []TopAssistEntry {
	out := make([]TopAssistEntry, 0, len(entries))
	for i := range entries {
		out = append(out, TopAssistEntry{
			Position: entries[i].Position,
			Player:   p.playerStats(&entries[i].PlayerStats),
			Assists:  entries[i].Score,
		})
	}
	return out
}

func (p presenter) dashboard(d *service.Dashboard) DashboardResponse {
	r := DashboardResponse{
		PlayerSummary:   p.player(d.Player),
		GroupCount:      d.GroupCount,
		MatchCount:      d.MatchCount,
		Goals:           d.Goals,
		Assists:         d.Assists,
		GoalsPerMatch:   d.GoalsPerMatch,
		AssistsPerMatch: d.AssistsPerMatch,
	}
	if d.BestAssister != nil {
		r.BestAssister = &BestAssister{
			PlayerSummary: p.playerStats(d.BestAssister),
			Assists:       d.BestAssister.Assists,
		}
	}
	return r
}
