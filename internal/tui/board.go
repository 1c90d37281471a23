package tui

import "sync"

// Board is the render target task components draw into. Components and
// controller calls may settle on command goroutines, so access is
// guarded; the bubbletea model reads a snapshot each frame.
type Board struct {
	mu    sync.Mutex
	views map[int]string
	toast string
}

func NewBoard() *Board {
	return &Board{views: map[int]string{}}
}

func (b *Board) Attach(id int, view string) {
	b.mu.Lock()
	b.views[id] = view
	b.mu.Unlock()
}

func (b *Board) Detach(id int) {
	b.mu.Lock()
	delete(b.views, id)
	b.mu.Unlock()
}

func (b *Board) Toast(msg string) {
	b.mu.Lock()
	b.toast = msg
	b.mu.Unlock()
}

func (b *Board) View(id int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.views[id]
}

func (b *Board) LastToast() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toast
}

func (b *Board) clearToast() {
	b.mu.Lock()
	b.toast = ""
	b.mu.Unlock()
}
