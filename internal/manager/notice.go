package manager

// Level grades a Notice.
type Level int

const (
	LevelNone Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "none"
}

// Notice is a transient, user-facing outcome message (a toast).
// The zero Notice means there is nothing to show.
type Notice struct {
	Level Level
	Text  string
}

func (n Notice) Empty() bool { return n.Level == LevelNone }

// Failed reports whether the notice reports a failed operation.
func (n Notice) Failed() bool { return n.Level == LevelWarn || n.Level == LevelError }

func Success(text string) Notice { return Notice{Level: LevelSuccess, Text: text} }
func Warn(text string) Notice    { return Notice{Level: LevelWarn, Text: text} }
func Error(text string) Notice   { return Notice{Level: LevelError, Text: text} }

// Notifier presents notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }
