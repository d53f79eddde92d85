package session

// Observer is notified of session lifecycle events. Calls happen
// synchronously on the goroutine driving the session, after the session
// state has been updated. Observers own their failures: nothing they do can
// change the outcome of an Answer or Finish.
type Observer interface {
	SessionStarted(Info)
	QuestionAnswered(Step)
	SessionFinished(Transcript)
}

// Hooks adapts optional functions to Observer. Nil fields are skipped.
type Hooks struct {
	OnStart  func(Info)
	OnAnswer func(Step)
	OnFinish func(Transcript)
}

func (h Hooks) SessionStarted(i Info) {
	if h.OnStart != nil {
		h.OnStart(i)
	}
}

func (h Hooks) QuestionAnswered(s Step) {
	if h.OnAnswer != nil {
		h.OnAnswer(s)
	}
}

func (h Hooks) SessionFinished(t Transcript) {
	if h.OnFinish != nil {
		h.OnFinish(t)
	}
}

// Multi fans events out to several observers in order. Nil entries are
// ignored.
func Multi(observers ...Observer) Observer {
	var out multi
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multi []Observer

func (m multi) SessionStarted(i Info) {
	for _, o := range m {
		o.SessionStarted(i)
	}
}

func (m multi) QuestionAnswered(s Step) {
	for _, o := range m {
		o.QuestionAnswered(s)
	}
}

func (m multi) SessionFinished(t Transcript) {
	for _, o := range m {
		o.SessionFinished(t)
	}
}
