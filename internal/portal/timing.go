package portal

import "time"

const (
	jiggleMoves = 3
	scrollSteps = 5
)

// Timing holds the fixed waits and per-operation bounds of the portal flows.
type Timing struct {
	TypeDelay     time.Duration
	MouseSettle   time.Duration
	CaptchaWait   time.Duration
	OverlayDelay  time.Duration
	SettleDelay   time.Duration
	PageDelay     time.Duration
	Navigation    time.Duration
	ManualLogin   time.Duration
	SearchBox     time.Duration
	FilterControl time.Duration
	FilterReady   time.Duration
	Cards         time.Duration
	Ready         time.Duration
	// Jiggle and ScrollPause cap the random pauses of the stealth moves.
	Jiggle      time.Duration
	ScrollPause time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		TypeDelay:     100 * time.Millisecond,
		MouseSettle:   time.Second,
		CaptchaWait:   3 * time.Second,
		OverlayDelay:  overlayDelay,
		SettleDelay:   3 * time.Second,
		PageDelay:     2 * time.Second,
		Navigation:    60 * time.Second,
		ManualLogin:   120 * time.Second,
		SearchBox:     15 * time.Second,
		FilterControl: 5 * time.Second,
		FilterReady:   2 * time.Second,
		Cards:         10 * time.Second,
		Ready:         5 * time.Second,
		Jiggle:        300 * time.Millisecond,
		ScrollPause:   1500 * time.Millisecond,
	}
}
