package widget

import (
	"errors"
	"time"
)

// Phase is the submission state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseChallenging
	PhaseSigning
	PhaseSettling
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseChallenging:
		return "challenging"
	case PhaseSigning:
		return "signing"
	case PhaseSettling:
		return "settling"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is a snapshot of the widget's session state. The controller owns the
// state; render layers consume snapshots and events, they never write back.
type State struct {
	ModalOpen      bool
	Connected      bool
	Loading        bool
	UserAddress    string
	CurrentChainID int64
	Error          string
	Phase          Phase

	// Donation intent. SelectedPreset and CustomAmount are mutually
	// exclusive: at most one is non-zero.
	SelectedPreset float64
	CustomAmount   float64
	Message        string
}

// Submission and input errors.
var (
	// ErrBusy indicates a submission is already in flight.
	ErrBusy = errors.New("widget: submission already in progress")

	// ErrNoAmountSelected indicates no donation amount has been chosen.
	ErrNoAmountSelected = errors.New("widget: no donation amount selected")

	// ErrAmountOutOfRange indicates the amount is outside the configured bounds.
	ErrAmountOutOfRange = errors.New("widget: amount outside configured bounds")

	// ErrInvalidAmount indicates the custom amount input did not parse.
	ErrInvalidAmount = errors.New("widget: invalid amount")

	// ErrMessageTooLong indicates a message edit beyond the length limit.
	ErrMessageTooLong = errors.New("widget: message exceeds length limit")

	// ErrModalBusy indicates the modal cannot close during a submission.
	ErrModalBusy = errors.New("widget: cannot close modal while payment is in progress")

	// ErrUnexpectedStatus indicates the endpoint broke protocol where a
	// 402 challenge was expected.
	ErrUnexpectedStatus = errors.New("widget: unexpected response status, expected 402")

	// ErrNoAcceptableOption indicates no challenge entry matches the
	// configured network and scheme.
	ErrNoAcceptableOption = errors.New("widget: no acceptable payment option")

	// ErrNetworkSwitchFailed indicates the wallet could not reach the
	// target network after one registration retry.
	ErrNetworkSwitchFailed = errors.New("widget: failed to switch network")

	// ErrPaymentRejected indicates the endpoint rejected the payment.
	ErrPaymentRejected = errors.New("widget: payment rejected")
)

// EventType classifies widget events.
type EventType string

const (
	// EventPhaseChange fires on every submission phase transition.
	EventPhaseChange EventType = "phase"

	// EventError fires when a user-facing error is surfaced.
	EventError EventType = "error"

	// EventSuccess fires when a donation settles.
	EventSuccess EventType = "success"
)

// Event is a widget lifecycle event for render layers and logging.
type Event struct {
	Type      EventType
	Phase     Phase
	Message   string
	Amount    float64
	Err       error
	Timestamp time.Time
}

// EventCallback receives widget events. Callbacks run synchronously on the
// submitting goroutine and should return quickly.
type EventCallback func(Event)
