package verdict

// Kind is a member of the closed verdict taxonomy shown to users.
type Kind string

const (
	KindError       Kind = "error"
	KindNothing     Kind = "nothing"
	KindCompTimeout Kind = "comp_timeout"
	KindCompSignal  Kind = "comp_signal"
	KindCompFailed  Kind = "comp_failed"
	KindTimeout     Kind = "timeout"
	KindSignal      Kind = "signal"
	KindFailed      Kind = "failed"
	KindCorrect     Kind = "correct"
	KindWrong       Kind = "wrong"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{
	KindError,
	KindCompTimeout,
	KindCompSignal,
	KindCompFailed,
	KindNothing,
	KindTimeout,
	KindSignal,
	KindFailed,
	KindCorrect,
	KindWrong,
}

// keys maps a kind to its translation key. The keys are shared with the
// translation service and must not change.
var keys = map[Kind]string{
	KindError:       "error",
	KindNothing:     "result_nothing",
	KindCompTimeout: "result_comp_timeout",
	KindCompSignal:  "result_comp_signal",
	KindCompFailed:  "result_comp_failed",
	KindTimeout:     "result_timeout",
	KindSignal:      "result_signal",
	KindFailed:      "result_failed",
	KindCorrect:     "result_correct",
	KindWrong:       "result_wrong",
}

// Key returns the translation key of the kind.
// Unknown kinds map to the key of KindError.
func (k Kind) Key() string {
	if key, ok := keys[k]; ok {
		return key
	}
	return keys[KindError]
}

// Rank returns the position of the kind in display order, or -1.
func (k Kind) Rank() int {
	for i, kind := range Kinds {
		if kind == k {
			return i
		}
	}
	return -1
}

// Accepted reports whether the kind is a full success.
func (k Kind) Accepted() bool {
	return k == KindCorrect
}

var compilationKinds = map[CompilationResult]Kind{
	CompNothing: KindNothing,
	CompTimeout: KindCompTimeout,
	CompSignal:  KindCompSignal,
	CompFailed:  KindCompFailed,
}

var executionKinds = map[ExecutionResult]Kind{
	ResultNothing: KindNothing,
	ResultTimeout: KindTimeout,
	ResultSignal:  KindSignal,
	ResultFailed:  KindFailed,
	ResultCorrect: KindCorrect,
	ResultWrong:   KindWrong,
}

// Kind returns the display kind of a failed compilation.
// It must not be called with CompSuccess; unknown codes are reported as
// KindCompFailed.
func (c CompilationResult) Kind() Kind {
	if kind, ok := compilationKinds[c]; ok {
		return kind
	}
	return KindCompFailed
}

// Kind returns the display kind of an execution outcome.
// Unknown codes are reported as KindNothing.
func (r ExecutionResult) Kind() Kind {
	if kind, ok := executionKinds[r]; ok {
		return kind
	}
	return KindNothing
}

func (c CompilationResult) String() string {
	switch c {
	case CompNothing:
		return "Nothing"
	case CompTimeout:
		return "Timeout"
	case CompSignal:
		return "Signal"
	case CompFailed:
		return "Failed"
	case CompSuccess:
		return "Success"
	default:
		return "Unknown"
	}
}

func (r ExecutionResult) String() string {
	switch r {
	case ResultNothing:
		return "Nothing"
	case ResultTimeout:
		return "Timeout"
	case ResultSignal:
		return "Signal"
	case ResultFailed:
		return "Failed"
	case ResultCorrect:
		return "Correct"
	case ResultWrong:
		return "Wrong"
	default:
		return "Unknown"
	}
}
