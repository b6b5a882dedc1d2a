package tiles

import "fmt"

// LayerSelection identifies which family of tiles is currently requested.
type LayerSelection int

const (
	// SelectionBaseline is the default, terminal-stable selection backed by
	// the always-available baseline provider.
	SelectionBaseline LayerSelection = iota

	// SelectionFallback means the controller is working through the ordered
	// fallback provider catalog.
	SelectionFallback
)

// String returns the string representation of the selection.
func (s LayerSelection) String() string {
	switch s {
	case SelectionBaseline:
		return "baseline"
	case SelectionFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// FallbackState is the single mutable state owned by the Controller.
// AttemptIndex is a valid catalog index while Selection is
// SelectionFallback; it is reset to 0 in baseline.
type FallbackState struct {
	Selection     LayerSelection
	AttemptIndex  int
	StatusMessage string
}

// initialState returns the state a freshly mounted controller starts in.
func initialState() FallbackState {
	return FallbackState{Selection: SelectionBaseline}
}

// eventKind enumerates the inputs the transition function reacts to.
type eventKind int

const (
	eventSelectBaseline eventKind = iota
	eventSelectFallback
	eventTileLoad
	eventTileError
)

func (k eventKind) String() string {
	switch k {
	case eventSelectBaseline:
		return "select_baseline"
	case eventSelectFallback:
		return "select_fallback"
	case eventTileLoad:
		return "tile_load"
	case eventTileError:
		return "tile_error"
	default:
		return "unknown"
	}
}

// event is a single input to the transition function. Tile events carry the
// attempt index captured when the emitting layer was mounted so stale
// callbacks from torn-down sources can be discarded.
type event struct {
	kind    eventKind
	attempt int
}

// effectKind enumerates the side effects a transition can request. The
// transition function stays pure; the controller executes effects in order.
type effectKind int

const (
	effectMountFallback effectKind = iota // mount catalog provider at the new attempt index
	effectMountBaseline                   // mount the baseline provider
	effectShowStatus                      // show a status message
	effectClearStatus                     // clear the status message now
	effectCancelStatusClear               // cancel a pending deferred status clear
	effectScheduleStatusClear             // clear the status message after the configured delay
	effectSettleRedraw                    // redraw after the post-load settle delay
	effectRevertRedraw                    // redraw after the post-revert delay
)

type effect struct {
	kind    effectKind
	message string
}

// Status messages surfaced through the notifier.
const (
	statusLoadingFallback = "loading fallback tiles"
	statusReverted        = "fallback tiles unavailable, reverted to baseline"
)

func statusAttempt(next, total int) string {
	return fmt.Sprintf("fallback provider unavailable, trying %d/%d", next, total)
}

// transition applies one event to the current state and returns the next
// state plus the effects to execute. providerCount is the fallback catalog
// length N; tile events in baseline are no-ops, and a tile event whose
// attempt index no longer matches the current state is dropped by the caller
// before reaching this function.
func transition(s FallbackState, ev event, providerCount int) (FallbackState, []effect) {
	switch ev.kind {
	case eventSelectBaseline:
		// Forced unconditionally, idempotent. Attempt index resets so a
		// later fallback selection starts a fresh sequence.
		next := FallbackState{Selection: SelectionBaseline}
		return next, []effect{
			{kind: effectCancelStatusClear},
			{kind: effectMountBaseline},
			{kind: effectClearStatus},
		}

	case eventSelectFallback:
		if s.Selection == SelectionFallback {
			// Already attempting, no-op.
			return s, nil
		}
		next := FallbackState{
			Selection:     SelectionFallback,
			AttemptIndex:  0,
			StatusMessage: statusLoadingFallback,
		}
		return next, []effect{
			{kind: effectCancelStatusClear},
			{kind: effectMountFallback},
			{kind: effectShowStatus, message: statusLoadingFallback},
		}

	case eventTileLoad:
		if s.Selection != SelectionFallback {
			return s, nil
		}
		next := s
		next.StatusMessage = ""
		return next, []effect{
			{kind: effectClearStatus},
			{kind: effectSettleRedraw},
		}

	case eventTileError:
		if s.Selection != SelectionFallback {
			// Baseline tiles are outside the fallback sequence.
			return s, nil
		}
		if s.AttemptIndex+1 < providerCount {
			msg := statusAttempt(s.AttemptIndex+2, providerCount)
			next := FallbackState{
				Selection:     SelectionFallback,
				AttemptIndex:  s.AttemptIndex + 1,
				StatusMessage: msg,
			}
			return next, []effect{
				{kind: effectMountFallback},
				{kind: effectShowStatus, message: msg},
			}
		}
		// Every candidate failed: revert to baseline with a transient,
		// auto-dismissing status message.
		next := FallbackState{
			Selection:     SelectionBaseline,
			StatusMessage: statusReverted,
		}
		return next, []effect{
			{kind: effectMountBaseline},
			{kind: effectShowStatus, message: statusReverted},
			{kind: effectScheduleStatusClear},
			{kind: effectRevertRedraw},
		}
	}

	return s, nil
}
