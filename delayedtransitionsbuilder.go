package chartbuild

// DelayedTransition is one entry for AfterMultiple. Zero fields are omitted.
type DelayedTransition[S, A, G Name] struct {
	Delay   Delay
	Target  S
	Actions []A
	Guard   G
}

// DelayedTransitionsBuilder builds the "after" block of a state. Each delay
// holds one transition; adding the same delay again replaces it.
type DelayedTransitionsBuilder[S, A, G Name] struct {
	after DelayedTransitions
}

func NewDelayedTransitionsBuilder[S, A, G Name]() *DelayedTransitionsBuilder[S, A, G] {
	return &DelayedTransitionsBuilder[S, A, G]{after: make(DelayedTransitions)}
}

// After transitions to target once delay elapses.
func (db *DelayedTransitionsBuilder[S, A, G]) After(delay Delay, target S) *DelayedTransitionsBuilder[S, A, G] {
	db.after[delay] = TransitionConfig{Target: string(target)}
	return db
}

// AfterWithActions runs actions once delay elapses; an empty target keeps
// the transition targetless.
func (db *DelayedTransitionsBuilder[S, A, G]) AfterWithActions(delay Delay, actions []A, target S) *DelayedTransitionsBuilder[S, A, G] {
	db.after[delay] = TransitionConfig{Target: string(target), Actions: names(actions)}
	return db
}

func (db *DelayedTransitionsBuilder[S, A, G]) AfterWithGuard(delay Delay, guard G, target S) *DelayedTransitionsBuilder[S, A, G] {
	db.after[delay] = TransitionConfig{Target: string(target), Guard: string(guard)}
	return db
}

func (db *DelayedTransitionsBuilder[S, A, G]) AfterWithActionsAndGuard(delay Delay, actions []A, guard G, target S) *DelayedTransitionsBuilder[S, A, G] {
	db.after[delay] = TransitionConfig{
		Target:  string(target),
		Actions: names(actions),
		Guard:   string(guard),
	}
	return db
}

// AfterMultiple adds several delayed transitions in order.
func (db *DelayedTransitionsBuilder[S, A, G]) AfterMultiple(transitions ...DelayedTransition[S, A, G]) *DelayedTransitionsBuilder[S, A, G] {
	for _, t := range transitions {
		db.after[t.Delay] = TransitionConfig{
			Target:  string(t.Target),
			Actions: names(t.Actions),
			Guard:   string(t.Guard),
		}
	}
	return db
}

func (db *DelayedTransitionsBuilder[S, A, G]) Build() DelayedTransitions {
	return db.after.clone()
}
