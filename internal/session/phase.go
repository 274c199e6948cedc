package session

import "fmt"

// PhaseKind tags the sequencer's top-level states.
type PhaseKind int

const (
	PhaseStart PhaseKind = iota
	PhaseInstruction
	PhaseRunning
	PhaseInterstitial
	PhaseResults
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseStart:
		return "start"
	case PhaseInstruction:
		return "instruction"
	case PhaseRunning:
		return "running"
	case PhaseInterstitial:
		return "interstitial"
	case PhaseResults:
		return "results"
	}
	return fmt.Sprintf("PhaseKind(%d)", int(k))
}

// Phase is the sequencer's position in the battery. Test is the battery
// index of the current test; for interstitials it is the index of the
// test about to start.
type Phase struct {
	Kind PhaseKind
	Test int
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseInstruction, PhaseRunning, PhaseInterstitial:
		return fmt.Sprintf("%s[%d]", p.Kind, p.Test)
	}
	return p.Kind.String()
}

// Event drives a phase transition.
type Event int

const (
	// EventBegin is a user tap on the start screen or an instruction card.
	EventBegin Event = iota
	// EventTestDone is the active engine reporting completion.
	EventTestDone
	// EventInterstitialDone is the interstitial timer elapsing.
	EventInterstitialDone
	// EventRestart abandons the session state from any phase.
	EventRestart
)

func (e Event) String() string {
	switch e {
	case EventBegin:
		return "begin"
	case EventTestDone:
		return "testDone"
	case EventInterstitialDone:
		return "interstitialDone"
	case EventRestart:
		return "restart"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Transition is the pure phase-transition function over testCount tests.
// Pairs outside the table mean the sequencing is corrupted; they panic
// rather than limp on.
func Transition(p Phase, ev Event, testCount int) Phase {
	switch {
	case ev == EventRestart:
		return Phase{Kind: PhaseStart}

	case p.Kind == PhaseStart && ev == EventBegin:
		return Phase{Kind: PhaseInstruction, Test: 0}

	case p.Kind == PhaseInstruction && ev == EventBegin:
		return Phase{Kind: PhaseRunning, Test: p.Test}

	case p.Kind == PhaseRunning && ev == EventTestDone:
		if p.Test+1 >= testCount {
			return Phase{Kind: PhaseResults}
		}
		return Phase{Kind: PhaseInterstitial, Test: p.Test + 1}

	case p.Kind == PhaseInterstitial && ev == EventInterstitialDone:
		return Phase{Kind: PhaseInstruction, Test: p.Test}
	}

	panic(fmt.Sprintf("session: invalid transition %s on %s", ev, p))
}
