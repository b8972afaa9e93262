package domain

import (
	"strconv"
	"time"
)

// ActivityType enumerates feed item kinds.
type ActivityType string

const (
	ActivityDonation     ActivityType = "donation"
	ActivityCaseCreated  ActivityType = "case_created"
	ActivityCaseUpdate   ActivityType = "case_update"
	ActivityAdoption     ActivityType = "adoption"
	ActivityAchievement  ActivityType = "achievement"
	ActivityAnnouncement ActivityType = "announcement"
	ActivityMilestone    ActivityType = "milestone"
)

// UserRef is the enriched projection of a referenced user.
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CaseRef is the enriched projection of a referenced case.
type CaseRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

// Activity is a normalized feed item synthesized at read time; it is
// never persisted. IDs are deterministic so repeated aggregation of
// unchanged data yields identical sequences and clients can dedup.
type Activity struct {
	ID        string         `json:"id"`
	Type      ActivityType   `json:"type"`
	UserID    string         `json:"user_id,omitempty"`
	CaseID    string         `json:"case_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
	User      *UserRef       `json:"user"`
	Case      *CaseRef       `json:"case"`
}

// ActivityID builds the deterministic id for a single-source activity.
func ActivityID(t ActivityType, sourceID string) string {
	return string(t) + "-" + sourceID
}

// CaseUpdateActivityID builds the deterministic id for a flattened case
// timeline entry. The entry date stands in for a source id because
// updates have no id of their own.
func CaseUpdateActivityID(caseID string, date time.Time) string {
	return string(ActivityCaseUpdate) + "-" + caseID + "-" + strconv.FormatInt(date.UnixMilli(), 10)
}
