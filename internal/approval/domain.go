// Package approval holds the core value types of the sales order approval
// workflow. It has no dependencies so every other package can share them.
package approval

// Status is the lifecycle state of a sales order record.
type Status string

const (
	StatusInProgress     Status = "IN-PROGRESS"
	StatusSOConfirmed    Status = "SO-CONFIRMED"
	StatusAddedToProgen  Status = "ADDED-TO-PROGEN"
	StatusRequestChanges Status = "REQUEST-CHANGES"
	StatusCancel         Status = "CANCEL"
)

// AllStatuses lists every recognised status.
var AllStatuses = []Status{
	StatusInProgress,
	StatusSOConfirmed,
	StatusAddedToProgen,
	StatusRequestChanges,
	StatusCancel,
}

// Valid reports whether s is a recognised status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusSOConfirmed, StatusAddedToProgen, StatusRequestChanges, StatusCancel:
		return true
	}
	return false
}

// Dosage is the pharmaceutical form of the ordered product. It gates which
// fields of a record apply.
type Dosage string

const (
	DosageTablet    Dosage = "TABLET"
	DosageCapsule   Dosage = "CAPSULE"
	DosageLiquid    Dosage = "LIQUID"
	DosageInjection Dosage = "INJECTION"
	DosageOintment  Dosage = "OINTMENT"
	DosagePowder    Dosage = "POWDER"
)

// AllDosages lists every recognised dosage form.
var AllDosages = []Dosage{
	DosageTablet,
	DosageCapsule,
	DosageLiquid,
	DosageInjection,
	DosageOintment,
	DosagePowder,
}

// Valid reports whether d is a recognised dosage form.
func (d Dosage) Valid() bool {
	switch d {
	case DosageTablet, DosageCapsule, DosageLiquid, DosageInjection, DosageOintment, DosagePowder:
		return true
	}
	return false
}

// Flags carries the per-stage approval booleans of a record, one per stage
// in chain order.
type Flags struct {
	Costing            bool `json:"costing"`
	QA                 bool `json:"qa"`
	FinalAuthorization bool `json:"final_authorization"`
	Designer           bool `json:"designer"`
	FinalQA            bool `json:"final_qa"`
	PM                 bool `json:"pm"`
}

// AllSet reports whether every stage has approved.
func (f Flags) AllSet() bool {
	return f.Costing && f.QA && f.FinalAuthorization && f.Designer && f.FinalQA && f.PM
}

// Decision is the verdict a stage approver records.
type Decision string

const (
	DecisionApprove        Decision = "APPROVE"
	DecisionRequestChanges Decision = "REQUEST-CHANGES"
)

// Valid reports whether d is a recognised decision.
func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionRequestChanges
}

// State is the workflow-relevant snapshot of a record: everything the stage
// machine, the transition guard and the access evaluator need to decide.
type State struct {
	Status Status
	Dosage Dosage
	Flags  Flags
}
