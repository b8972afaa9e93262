// Package feed merges heterogeneous marketplace records into a normalized,
// time-ordered activity stream at three scopes: global, per-user and
// per-case.
//
// Aggregation is gather-then-sort: every source is fetched independently,
// bounded by the requested limit, then the candidates are sorted and
// truncated in memory. This is O(candidates log candidates) rather than a
// streaming k-way merge, and the result is only exact when each source's
// window already contains everything that could rank in the final top-K.
// At the documented small-N scale that trade-off is deliberate.
package feed

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"rescuefeed/internal/domain"
)

// ImageResolver resolves stored image keys to fetchable URLs.
type ImageResolver interface {
	URL(key string) string
}

// Service aggregates feed activities. It is strictly read-only; per-source
// queries are individually consistent but the merged view tolerates bounded
// cross-source staleness.
type Service struct {
	cases         domain.CaseRepository
	donations     domain.DonationRepository
	adoptions     domain.AdoptionRepository
	achievements  domain.AchievementRepository
	users         domain.UserRepository
	announcements domain.AnnouncementRepository
	images        ImageResolver
	cache         *Cache
	logger        zerolog.Logger
}

// Deps bundles the service's collaborators.
type Deps struct {
	Cases         domain.CaseRepository
	Donations     domain.DonationRepository
	Adoptions     domain.AdoptionRepository
	Achievements  domain.AchievementRepository
	Users         domain.UserRepository
	Announcements domain.AnnouncementRepository
	Images        ImageResolver
	Cache         *Cache // optional
}

// NewService creates a feed aggregation service.
func NewService(deps Deps, logger zerolog.Logger) *Service {
	return &Service{
		cases:         deps.Cases,
		donations:     deps.Donations,
		adoptions:     deps.Adoptions,
		achievements:  deps.Achievements,
		users:         deps.Users,
		announcements: deps.Announcements,
		images:        deps.Images,
		cache:         deps.Cache,
		logger:        logger,
	}
}

// typePriority is the secondary sort key after the timestamp: lower sorts
// first among activities sharing the same instant. Needed in particular for
// synthesized milestones, whose timestamp (createdAt+1s) can collide with a
// real event at the same instant.
var typePriority = map[domain.ActivityType]int{
	domain.ActivityAnnouncement: 0,
	domain.ActivityDonation:     1,
	domain.ActivityAdoption:     2,
	domain.ActivityAchievement:  3,
	domain.ActivityMilestone:    4,
	domain.ActivityCaseUpdate:   5,
	domain.ActivityCaseCreated:  6,
}

// Global returns the platform-wide feed: completed donations, case creation
// events, case timeline updates, completed adoptions and curated
// announcements. Served from cache when one is configured and warm.
func (s *Service) Global(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		return []domain.Activity{}, nil
	}
	if s.cache != nil {
		if items, ok := s.cache.GetGlobal(ctx, limit); ok {
			return items, nil
		}
	}
	items, err := s.aggregateGlobal(ctx, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetGlobal(ctx, limit, items)
	}
	return items, nil
}

// RefreshGlobal recomputes the global feed and overwrites the cache entry.
// Used by the warmer worker; without a cache it is a plain aggregation.
func (s *Service) RefreshGlobal(ctx context.Context, limit int) ([]domain.Activity, error) {
	items, err := s.aggregateGlobal(ctx, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetGlobal(ctx, limit, items)
	}
	return items, nil
}

func (s *Service) aggregateGlobal(ctx context.Context, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity

	donations, err := s.donations.ListCompleted(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, d := range donations {
		activities = append(activities, donationActivity(d, true))
	}

	cases, err := s.cases.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		activities = append(activities, caseCreatedActivity(c))
		activities = append(activities, s.caseUpdateActivities(c)...)
	}

	adoptions, err := s.adoptions.ListCompleted(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, a := range adoptions {
		activities = append(activities, adoptionActivity(a))
	}

	announcements, err := s.announcements.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, a := range announcements {
		activities = append(activities, announcementActivity(a))
	}

	return s.finish(ctx, activities, limit), nil
}

// ByUser returns one user's feed: cases they own (with timeline updates),
// donations they made and achievements they unlocked.
func (s *Service) ByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		return []domain.Activity{}, nil
	}
	var activities []domain.Activity

	cases, err := s.cases.ListByOwner(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		activities = append(activities, caseCreatedActivity(c))
		activities = append(activities, s.caseUpdateActivities(c)...)
	}

	donations, err := s.donations.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for _, d := range donations {
		activities = append(activities, donationActivity(d, true))
	}

	achievements, err := s.achievements.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	for _, a := range achievements {
		activities = append(activities, achievementActivity(a))
	}

	return s.finish(ctx, activities, limit), nil
}

// ByCase returns a single case's timeline: the creation event, every update,
// donations to the case (identity stripped when anonymous) and funding
// milestones synthesized from the fundraising progress.
func (s *Service) ByCase(ctx context.Context, caseID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		return []domain.Activity{}, nil
	}
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	activities := []domain.Activity{caseCreatedActivity(*c)}
	activities = append(activities, s.caseUpdateActivities(*c)...)
	activities = append(activities, milestoneActivities(*c)...)

	donations, err := s.donations.ListByCase(ctx, caseID, limit)
	if err != nil {
		return nil, err
	}
	for _, d := range donations {
		activities = append(activities, donationActivity(d, !d.Anonymous))
	}

	return s.finish(ctx, activities, limit), nil
}

// finish sorts, truncates and enriches in that order, so enrichment only
// touches activities that survive the cut.
func (s *Service) finish(ctx context.Context, activities []domain.Activity, limit int) []domain.Activity {
	sortActivities(activities)
	if len(activities) > limit {
		activities = activities[:limit]
	}
	s.enrich(ctx, activities)
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities
}

// sortActivities orders newest first with a deterministic tie-break:
// timestamp desc, then type priority asc, then id asc.
func sortActivities(activities []domain.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if typePriority[a.Type] != typePriority[b.Type] {
			return typePriority[a.Type] < typePriority[b.Type]
		}
		return a.ID < b.ID
	})
}

// enrich batch-resolves referenced users and cases in one lookup each.
// A dangling reference degrades that activity's enrichment field to null;
// the activity itself is always kept.
func (s *Service) enrich(ctx context.Context, activities []domain.Activity) {
	userIDs := make([]string, 0, len(activities))
	caseIDs := make([]string, 0, len(activities))
	seenUsers := map[string]bool{}
	seenCases := map[string]bool{}
	for _, a := range activities {
		if a.UserID != "" && !seenUsers[a.UserID] {
			seenUsers[a.UserID] = true
			userIDs = append(userIDs, a.UserID)
		}
		if a.CaseID != "" && !seenCases[a.CaseID] {
			seenCases[a.CaseID] = true
			caseIDs = append(caseIDs, a.CaseID)
		}
	}

	users := map[string]domain.User{}
	if len(userIDs) > 0 {
		resolved, err := s.users.GetMany(ctx, userIDs)
		if err != nil {
			s.logger.Warn().Err(err).Msg("feed: user enrichment degraded")
		} else {
			users = resolved
		}
	}
	cases := map[string]domain.Case{}
	if len(caseIDs) > 0 {
		resolved, err := s.cases.GetMany(ctx, caseIDs)
		if err != nil {
			s.logger.Warn().Err(err).Msg("feed: case enrichment degraded")
		} else {
			cases = resolved
		}
	}

	for i := range activities {
		if u, ok := users[activities[i].UserID]; ok {
			activities[i].User = &domain.UserRef{
				ID:        u.ID,
				Name:      u.Name,
				AvatarURL: s.resolveImage(u.Picture),
			}
		}
		if c, ok := cases[activities[i].CaseID]; ok {
			activities[i].Case = &domain.CaseRef{
				ID:       c.ID,
				Title:    c.Title,
				ImageURL: s.resolveImage(c.CoverImage()),
			}
		}
	}
}

func (s *Service) resolveImage(key string) string {
	if key == "" || s.images == nil {
		return ""
	}
	return s.images.URL(key)
}

func (s *Service) caseUpdateActivities(c domain.Case) []domain.Activity {
	out := make([]domain.Activity, 0, len(c.Updates))
	for _, u := range c.Updates {
		out = append(out, caseUpdateActivity(c, u))
	}
	return out
}

func donationActivity(d domain.Donation, includeIdentity bool) domain.Activity {
	a := domain.Activity{
		ID:        domain.ActivityID(domain.ActivityDonation, d.ID),
		Type:      domain.ActivityDonation,
		Timestamp: d.CreatedAt,
		Payload: map[string]any{
			"amount":    d.AmountInt,
			"currency":  d.Currency,
			"anonymous": d.Anonymous,
		},
	}
	if d.CaseID != nil {
		a.CaseID = *d.CaseID
	}
	if includeIdentity {
		a.UserID = d.UserID
	}
	return a
}

func caseCreatedActivity(c domain.Case) domain.Activity {
	return domain.Activity{
		ID:        domain.ActivityID(domain.ActivityCaseCreated, c.ID),
		Type:      domain.ActivityCaseCreated,
		UserID:    c.OwnerUserID,
		CaseID:    c.ID,
		Timestamp: c.CreatedAt,
		Payload: map[string]any{
			"title":  c.Title,
			"status": string(c.Status),
		},
	}
}

func caseUpdateActivity(c domain.Case, u domain.CaseUpdate) domain.Activity {
	payload := map[string]any{
		"text":        u.Text,
		"update_type": string(u.Type),
	}
	if u.EvidenceType != "" {
		payload["evidence_type"] = u.EvidenceType
	}
	if len(u.Images) > 0 {
		payload["images"] = u.Images
	}
	return domain.Activity{
		ID:        domain.CaseUpdateActivityID(c.ID, u.Date),
		Type:      domain.ActivityCaseUpdate,
		CaseID:    c.ID,
		Timestamp: u.Date,
		Payload:   payload,
	}
}

func adoptionActivity(a domain.Adoption) domain.Activity {
	return domain.Activity{
		ID:        domain.ActivityID(domain.ActivityAdoption, a.ID),
		Type:      domain.ActivityAdoption,
		UserID:    a.UserID,
		Timestamp: a.CreatedAt,
		Payload: map[string]any{
			"name":        a.Name,
			"animal_type": a.AnimalType,
		},
	}
}

func achievementActivity(a domain.Achievement) domain.Activity {
	return domain.Activity{
		ID:        domain.ActivityID(domain.ActivityAchievement, a.ID),
		Type:      domain.ActivityAchievement,
		UserID:    a.UserID,
		Timestamp: a.UnlockedAt,
		Payload: map[string]any{
			"achievement_type": a.Type,
		},
	}
}

func announcementActivity(a domain.Announcement) domain.Activity {
	return domain.Activity{
		ID:        domain.ActivityID(domain.ActivityAnnouncement, a.ID),
		Type:      domain.ActivityAnnouncement,
		Timestamp: a.PublishedAt,
		Payload: map[string]any{
			"title": a.Title,
			"body":  a.Body,
		},
	}
}

// milestoneActivities derives funding milestones from the current
// fundraising state. The synthetic timestamp is createdAt+1s so a milestone
// sorts immediately after the creation event; when that instant collides
// with a real event the type-priority tie-break keeps the order stable.
func milestoneActivities(c domain.Case) []domain.Activity {
	if c.Fundraising.Goal <= 0 {
		return nil
	}
	ts := c.CreatedAt.Add(time.Second)
	base := map[string]any{
		"raised":   c.Fundraising.Raised,
		"goal":     c.Fundraising.Goal,
		"currency": c.Fundraising.Currency,
	}
	var out []domain.Activity
	if c.Fundraising.Raised*2 >= c.Fundraising.Goal {
		payload := map[string]any{"kind": "halfway"}
		for k, v := range base {
			payload[k] = v
		}
		out = append(out, domain.Activity{
			ID:        "milestone-halfway-" + c.ID,
			Type:      domain.ActivityMilestone,
			CaseID:    c.ID,
			Timestamp: ts,
			Payload:   payload,
		})
	}
	if c.Fundraising.Raised >= c.Fundraising.Goal {
		payload := map[string]any{"kind": "fully_funded"}
		for k, v := range base {
			payload[k] = v
		}
		out = append(out, domain.Activity{
			ID:        "milestone-funded-" + c.ID,
			Type:      domain.ActivityMilestone,
			CaseID:    c.ID,
			Timestamp: ts,
			Payload:   payload,
		})
	}
	return out
}
