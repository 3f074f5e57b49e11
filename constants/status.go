package constants

// UnitStatus is the outcome of one import unit (document or snapshot file).
type UnitStatus string

const (
	UnitImported UnitStatus = "IMPORTED" // every record persisted
	UnitPartial  UnitStatus = "PARTIAL"  // at least one record failed to persist
	UnitSkipped  UnitStatus = "SKIPPED"  // decode failure, nothing attempted
	UnitRejected UnitStatus = "REJECTED" // required field missing, nothing attempted
)

// Default literals written by the assembler and normalizer.
const (
	CampaignStatusTodo = "Todo"
	LogTypeSystem      = "SYSTEM"
	ImportLogNote      = "Campaign Created from Import"
	NotApplicable      = "N/A"
	SystemActorID      = 1
)
