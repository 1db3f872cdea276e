package engine

import (
	"time"

	"github.com/san-kum/kinetic/internal/motion"
)

// Update is one submitted instruction for a value. Zero fields are simply
// absent; callID is assigned at submission time and is the ordering authority
// for competing updates.
type Update struct {
	To   *Target
	From *Target

	// Chain is an ordered async "to" sequence: each element is submitted in
	// turn once its predecessor finishes.
	Chain []Update

	Config *motion.Config

	Reset     bool
	Pause     bool
	Cancel    bool
	Immediate bool
	Default   bool
	Reverse   bool

	// CancelBefore cancels every pending update with callID at or below the
	// given id. Zero with Cancel set cancels all of them.
	CancelBefore uint64

	// Loop re-submits the update after each finished result for as long as the
	// predicate returns true. Forever loops until externally stopped.
	Loop func() bool

	Delay time.Duration

	OnStart    func(*Value)
	OnChange   func(*Value, []float64)
	OnRest     func(Result)
	OnPause    func(*Value)
	OnResume   func(*Value)
	OnProps    func(*Update)
	OnDelayEnd func(*Update)

	callID   uint64
	chainID  uint64
	fromLoop bool
}

// Forever is the loop predicate that never terminates.
func Forever() bool { return true }

// Times returns a loop predicate that allows n additional iterations.
func Times(n int) func() bool {
	return func() bool {
		n--
		return n >= 0
	}
}

func (u *Update) hasRange() bool {
	return u.To != nil || u.From != nil
}
