package events

import "sync"

// Binding couples one event type on one source to one handler for the
// lifetime of its owner. Registration happens at construction; Release
// is the only sanctioned way to stop receiving the event and is safe to
// call more than once.
type Binding struct {
	t      Type
	source Emitter

	once   sync.Once
	cancel func()
}

func Bind(source Emitter, t Type, h Handler) *Binding {
	return &Binding{
		t:      t,
		source: source,
		cancel: source.Subscribe(t, h),
	}
}

func (b *Binding) Type() Type { return b.t }

func (b *Binding) Release() {
	b.once.Do(b.cancel)
}
