package draft

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/figurine/pkg/errors"
)

// MaxFeedbackLength caps reviewer feedback, in runes.
const MaxFeedbackLength = 5000

// Action is a reviewer's verdict.
type Action string

const (
	Approve Action = "approve"
	Reject  Action = "reject"
	Revise  Action = "revise"
)

// ParseAction validates a verdict name.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Approve, Reject, Revise:
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown review action %q (must be one of: approve, reject, revise)", s)
}

// Decision is the outcome of one review, in the shape the workflow resumes
// with.
type Decision struct {
	Approved bool   `json:"approved"`
	Revise   bool   `json:"revise,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// NewDecision builds the decision for action. Revisions need feedback, which
// is trimmed and capped at MaxFeedbackLength; other actions ignore it.
func NewDecision(action Action, feedback string) (Decision, error) {
	switch action {
	case Approve:
		return Decision{Approved: true}, nil
	case Reject:
		return Decision{Rejected: true}, nil
	case Revise:
		feedback = strings.TrimSpace(feedback)
		if feedback == "" {
			return Decision{}, errors.New(errors.ErrCodeInvalidInput, "revision needs feedback")
		}
		if utf8.RuneCountInString(feedback) > MaxFeedbackLength {
			feedback = string([]rune(feedback)[:MaxFeedbackLength])
		}
		return Decision{Revise: true, Feedback: feedback}, nil
	}
	return Decision{}, errors.New(errors.ErrCodeInvalidInput, "unknown review action %q", action)
}

// Action reports which verdict d encodes.
func (d Decision) Action() Action {
	switch {
	case d.Approved:
		return Approve
	case d.Revise:
		return Revise
	}
	return Reject
}

// JSON returns the encoded decision.
func (d Decision) JSON() []byte {
	data, _ := json.Marshal(d)
	return data
}
