package domain

import "time"

// CaseStatus enumerates the medical urgency shown to supporters.
type CaseStatus string

const (
	CaseStatusCritical   CaseStatus = "critical"
	CaseStatusUrgent     CaseStatus = "urgent"
	CaseStatusRecovering CaseStatus = "recovering"
	CaseStatusAdopted    CaseStatus = "adopted"
)

// LifecycleStage enumerates a case's position in the rescue workflow.
// Transitions are monotonic: once a case enters a closed_* stage no
// further transitions are allowed, and there are no backward edges.
type LifecycleStage string

const (
	StageActiveTreatment   LifecycleStage = "active_treatment"
	StageSeekingAdoption   LifecycleStage = "seeking_adoption"
	StageClosedSuccess     LifecycleStage = "closed_success"
	StageClosedTransferred LifecycleStage = "closed_transferred"
	StageClosedOther       LifecycleStage = "closed_other"
)

var lifecycleEdges = map[LifecycleStage][]LifecycleStage{
	StageActiveTreatment:   {StageSeekingAdoption, StageClosedSuccess, StageClosedTransferred, StageClosedOther},
	StageSeekingAdoption:   {StageClosedSuccess, StageClosedTransferred, StageClosedOther},
	StageClosedSuccess:     nil,
	StageClosedTransferred: nil,
	StageClosedOther:       nil,
}

// Valid reports whether the stage is a known lifecycle stage.
func (s LifecycleStage) Valid() bool {
	_, ok := lifecycleEdges[s]
	return ok
}

// Terminal reports whether the stage is one of the closed_* stages.
func (s LifecycleStage) Terminal() bool {
	return s == StageClosedSuccess || s == StageClosedTransferred || s == StageClosedOther
}

// CanTransition reports whether the edge s -> target exists.
func (s LifecycleStage) CanTransition(target LifecycleStage) bool {
	for _, t := range lifecycleEdges[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidTargets returns the allowed targets from the current stage.
func (s LifecycleStage) ValidTargets() []LifecycleStage {
	targets := lifecycleEdges[s]
	out := make([]LifecycleStage, len(targets))
	copy(out, targets)
	return out
}

// CaseUpdateType categorizes timeline entries on a case.
type CaseUpdateType string

const (
	UpdateTypeProgress  CaseUpdateType = "progress"
	UpdateTypeMedical   CaseUpdateType = "medical"
	UpdateTypeExpense   CaseUpdateType = "expense"
	UpdateTypeMilestone CaseUpdateType = "milestone"
)

// CaseUpdate is one timeline entry. The updates list on a case is
// append-only and ordered by Date ascending.
type CaseUpdate struct {
	Date         time.Time      `json:"date"`
	Text         string         `json:"text"`
	Type         CaseUpdateType `json:"type"`
	Images       []string       `json:"images,omitempty"`
	EvidenceType string         `json:"evidence_type,omitempty"`
}

// Fundraising tracks money raised against a goal in minor currency units.
// Raised may exceed Goal; over-funding is permitted.
type Fundraising struct {
	Raised   int64
	Goal     int64
	Currency string
}

// Case is a rescue case published on the marketplace.
type Case struct {
	ID             string
	Title          string
	Description    string
	Story          string
	Images         []string // storage keys, resolved to URLs at the edge
	Status         CaseStatus
	LifecycleStage LifecycleStage
	Fundraising    Fundraising
	Updates        []CaseUpdate
	OwnerUserID    string
	ClinicID       *string
	ClosedAt       *time.Time
	ClosedReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CoverImage returns the first image key, or "" when the case has none.
func (c Case) CoverImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0]
}
