package types

// Disposition is the six-way classification of a foreign snapshot item
// against the local machine. Every planned item lands in exactly one.
type Disposition string

const (
	DispositionUnsupported      Disposition = "unsupported"
	DispositionAlreadyInstalled Disposition = "already_installed"
	DispositionManualRequired   Disposition = "manual_required"
	DispositionManualOptional   Disposition = "manual_optional"
	DispositionPromptRequired   Disposition = "prompt_required"
	DispositionPromptOptional   Disposition = "prompt_optional"
)

// PlannedItem is a snapshot item annotated with its import disposition.
type PlannedItem struct {
	ProfileItem
	Disposition Disposition `json:"disposition"`
	Reason      string      `json:"reason"`
}

// PlanSummary counts planned items per bucket.
type PlanSummary struct {
	TotalItems       int `json:"total_items"`
	PromptRequired   int `json:"prompt_required"`
	PromptOptional   int `json:"prompt_optional"`
	ManualRequired   int `json:"manual_required"`
	ManualOptional   int `json:"manual_optional"`
	AlreadyInstalled int `json:"already_installed"`
	Unsupported      int `json:"unsupported"`
}

// ImportPlan is the transient classification of a foreign snapshot against
// the local machine. It is never persisted and recomputed on every run.
//
// OrderedCandidates concatenates the actionable buckets in the fixed
// sequence prompt_required, prompt_optional, manual_required,
// manual_optional, so consumers process the highest-value items first.
// AlreadyInstalled and Unsupported are reported for transparency only.
type ImportPlan struct {
	CurrentOS         OSName        `json:"current_os"`
	Summary           PlanSummary   `json:"summary"`
	PromptRequired    []PlannedItem `json:"prompt_required"`
	PromptOptional    []PlannedItem `json:"prompt_optional"`
	ManualRequired    []PlannedItem `json:"manual_required"`
	ManualOptional    []PlannedItem `json:"manual_optional"`
	AlreadyInstalled  []PlannedItem `json:"already_installed"`
	Unsupported       []PlannedItem `json:"unsupported"`
	OrderedCandidates []PlannedItem `json:"ordered_candidates"`
}
