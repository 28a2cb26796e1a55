package grid

// NopNotifier never triggers; thumbnail loads are driven entirely by
// the embedding UI's own proximity events.
type NopNotifier struct{}

func (NopNotifier) Watch(string, func()) {}
func (NopNotifier) Unwatch(string)       {}

// EagerNotifier triggers on registration. Useful where there is no
// viewport, such as the CLI, so every cell counts as near.
type EagerNotifier struct{}

func (EagerNotifier) Watch(_ string, fn func()) { fn() }
func (EagerNotifier) Unwatch(string)            {}
