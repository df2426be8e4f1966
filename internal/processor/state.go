package processor

// State is the position of a job in its lifecycle.
type State string

const (
	StateInit         State = "INIT"
	StateFetching     State = "FETCHING"
	StateTranscribing State = "TRANSCRIBING"
	StateSummarizing  State = "SUMMARIZING"
	StateDoneText     State = "DONE_TEXT"
	StateDoneFull     State = "DONE_FULL"
	StateFailed       State = "FAILED"
)

// transitions lists the legal moves of the job state machine. SUMMARIZING
// falls back to DONE_TEXT when the summary fails.
var transitions = map[State][]State{
	StateInit:         {StateFetching, StateFailed},
	StateFetching:     {StateTranscribing, StateFailed},
	StateTranscribing: {StateDoneText, StateFailed},
	StateDoneText:     {StateSummarizing, StateFailed},
	StateSummarizing:  {StateDoneFull, StateDoneText, StateFailed},
	StateDoneFull:     {StateFailed},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
