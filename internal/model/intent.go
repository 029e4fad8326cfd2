package model

// Intent is the high-level goal an agent is pursuing.
type Intent int32

const (
	// IntentWander - nothing pressing, stroll around
	IntentWander Intent = iota
	// IntentSurvive - health is critical, seek medical care or rest
	IntentSurvive
	// IntentEat - satisfy hunger
	IntentEat
	// IntentSleep - restore energy
	IntentSleep
	// IntentWork - attend the job during shift hours
	IntentWork
	// IntentSchool - attend school during school hours
	IntentSchool
	// IntentSocialize - talk to another agent
	IntentSocialize
	// IntentFun - have fun
	IntentFun
	// IntentNeed - fulfil the specific need carried in PlanContext.Need
	IntentNeed
	// IntentEscort - caregiver task assigned through a caregiver request
	IntentEscort
)

// String returns human-readable intent name
func (i Intent) String() string {
	switch i {
	case IntentWander:
		return "WANDER"
	case IntentSurvive:
		return "SURVIVE"
	case IntentEat:
		return "EAT"
	case IntentSleep:
		return "SLEEP"
	case IntentWork:
		return "WORK"
	case IntentSchool:
		return "SCHOOL"
	case IntentSocialize:
		return "SOCIALIZE"
	case IntentFun:
		return "FUN"
	case IntentNeed:
		return "NEED"
	case IntentEscort:
		return "ESCORT"
	default:
		return "UNKNOWN"
	}
}

// CaregiverTask is the job a caregiver was summoned for.
type CaregiverTask uint8

const (
	TaskNone CaregiverTask = iota
	// TaskEscortSchool walks the target to school.
	TaskEscortSchool
	// TaskEscortHome walks the target back home.
	TaskEscortHome
	// TaskBabysit keeps the target company at home.
	TaskBabysit
)

// String returns the wire name of the task.
func (t CaregiverTask) String() string {
	switch t {
	case TaskEscortSchool:
		return "escort_school"
	case TaskEscortHome:
		return "escort_home"
	case TaskBabysit:
		return "babysit"
	default:
		return "none"
	}
}

// ParseCaregiverTask resolves a wire name produced by String.
func ParseCaregiverTask(s string) (CaregiverTask, bool) {
	for _, t := range []CaregiverTask{TaskEscortSchool, TaskEscortHome, TaskBabysit} {
		if t.String() == s {
			return t, true
		}
	}
	return TaskNone, false
}

// PlanContext travels with an ActionQueue and tells the executor and the
// state machine why the plan exists. It replaces loosely typed per-agent hints.
type PlanContext struct {
	Intent Intent
	// Need is meaningful only for IntentNeed.
	Need NeedKind
	// Partner is the other agent for social and escort plans.
	Partner AgentID
	// Destination is where an escort ends.
	Destination Point
	Task        CaregiverTask
	Urgent      bool
	// DutyAware is set when a work or school obligation was already due at
	// planning time, so the schedule check leaves the plan alone.
	DutyAware bool
	Score     float64
	Reason    string
}
