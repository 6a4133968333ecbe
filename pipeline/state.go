package pipeline

// State tracks where in the stage sequence a job currently is. Any stage
// error moves the job directly to StateFailed; Done and Failed are the only
// terminal states.
type State int

const (
	StatePending State = iota
	StateDownloading
	StateProbing
	StateEncodingArchival
	StateAnalyzingLoudness
	StateEncodingLadder
	StateGeneratingAuxiliary
	StatePublishing
	StateNotifying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDownloading:
		return "downloading"
	case StateProbing:
		return "probing"
	case StateEncodingArchival:
		return "encoding-archival"
	case StateAnalyzingLoudness:
		return "analyzing-loudness"
	case StateEncodingLadder:
		return "encoding-ladder"
	case StateGeneratingAuxiliary:
		return "generating-auxiliary"
	case StatePublishing:
		return "publishing"
	case StateNotifying:
		return "notifying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
