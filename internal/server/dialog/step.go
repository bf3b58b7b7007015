// Package dialog defines the fixed conversation graph: the closed set of
// dialog steps, the prompt shown at each step, and the single successor each
// step advances to. The next step never depends on what the user typed; the
// input only decides what gets merged into the session context.
package dialog

import (
	"errors"
	"fmt"
)

// Step marks where a user is in the conversation graph. Stored as text in
// the sessions table.
type Step string

const (
	StepStart           Step = "START"
	StepWaitingName     Step = "WAITING_NAME"
	StepWaitingContacts Step = "WAITING_CONTACTS"
	StepWaitingSummary  Step = "WAITING_SUMMARY"
	StepIdle            Step = "IDLE"

	StepWaitingExpCompany  Step = "WAITING_EXP_COMPANY"
	StepWaitingExpPosition Step = "WAITING_EXP_POSITION"
	StepWaitingExpPeriod   Step = "WAITING_EXP_PERIOD"
	StepWaitingExpDesc     Step = "WAITING_EXP_DESC"

	StepWaitingEduInstitution Step = "WAITING_EDU_INSTITUTION"
	StepWaitingEduDegree      Step = "WAITING_EDU_DEGREE"
	StepWaitingEduYear        Step = "WAITING_EDU_YEAR"

	StepWaitingSkill Step = "WAITING_SKILL"
)

// ErrUnknownStep reports a persisted step value that is not part of the
// running step table, e.g. after a deploy removed a state. The turn is lost;
// the user has to /start again.
var ErrUnknownStep = errors.New("unknown dialog step")

// Transition is one row of the step table.
type Transition struct {
	// Prompt is sent to the user when this step is entered.
	Prompt string
	// Next is the step the session advances to after one accepted input.
	Next Step
}

// Lookup resolves a step to its transition. The switch is exhaustive over
// the Step constants; anything else is a state inconsistency.
func Lookup(s Step) (Transition, error) {
	switch s {
	case StepStart:
		return Transition{
			Prompt: "Hi! I build résumés. Please enter your full name:",
			Next:   StepWaitingName,
		}, nil
	case StepWaitingName:
		return Transition{
			Prompt: "Please enter your full name:",
			Next:   StepWaitingContacts,
		}, nil
	case StepWaitingContacts:
		return Transition{
			Prompt: "Great! Now enter your email and phone, separated by a comma:",
			Next:   StepWaitingSummary,
		}, nil
	case StepWaitingSummary:
		return Transition{
			Prompt: "Describe your professional summary in one paragraph:",
			Next:   StepIdle,
		}, nil
	case StepIdle:
		return Transition{
			Prompt: "Saved! Use /add_experience, /add_education or /add_skill to add sections, or /generate for a PDF.",
			Next:   StepIdle,
		}, nil

	case StepWaitingExpCompany:
		return Transition{
			Prompt: "Enter the company name:",
			Next:   StepWaitingExpPosition,
		}, nil
	case StepWaitingExpPosition:
		return Transition{
			Prompt: "Enter your position:",
			Next:   StepWaitingExpPeriod,
		}, nil
	case StepWaitingExpPeriod:
		return Transition{
			Prompt: "Enter the period (for example: 2020-2023 or 'September 2021 - now'):",
			Next:   StepWaitingExpDesc,
		}, nil
	case StepWaitingExpDesc:
		return Transition{
			Prompt: "Describe your responsibilities and achievements:",
			Next:   StepIdle,
		}, nil

	case StepWaitingEduInstitution:
		return Transition{
			Prompt: "Enter the institution name:",
			Next:   StepWaitingEduDegree,
		}, nil
	case StepWaitingEduDegree:
		return Transition{
			Prompt: "Enter the degree you received:",
			Next:   StepWaitingEduYear,
		}, nil
	case StepWaitingEduYear:
		return Transition{
			Prompt: "Enter the year you finished:",
			Next:   StepIdle,
		}, nil

	case StepWaitingSkill:
		return Transition{
			Prompt: "Enter one skill (for example: Go):",
			Next:   StepIdle,
		}, nil
	}
	return Transition{}, fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// Steps returns every step in the table. Used by tests to prove the graph is
// closed and terminates at IDLE.
func Steps() []Step {
	return []Step{
		StepStart, StepWaitingName, StepWaitingContacts, StepWaitingSummary, StepIdle,
		StepWaitingExpCompany, StepWaitingExpPosition, StepWaitingExpPeriod, StepWaitingExpDesc,
		StepWaitingEduInstitution, StepWaitingEduDegree, StepWaitingEduYear,
		StepWaitingSkill,
	}
}
