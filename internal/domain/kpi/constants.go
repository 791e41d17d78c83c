package kpi

const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusArchived    = "archived"

	CategoryBusiness  = "business"
	CategoryMainTasks = "main_tasks"
	CategoryProjects  = "projects"

	DirectionPositive = "positive"
	DirectionNegative = "negative"

	RatingRed    = "red"
	RatingYellow = "yellow"
	RatingGreen  = "green"

	BranchRed    = "red"
	BranchYellow = "yellow"
	BranchGreen  = "green"
	BranchBonus  = "bonus"
)

var AllStatuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusArchived,
}
