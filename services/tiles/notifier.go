package tiles

import "sync"

// StatusNotifier displays the transient user-facing status banner. Absence
// of a message means stable state.
type StatusNotifier interface {
	Show(message string)
	Clear()
}

// MemoryNotifier is the in-process StatusNotifier. The HTTP layer reads the
// current message through Current when serving map state.
type MemoryNotifier struct {
	mu      sync.RWMutex
	message string
}

// NewMemoryNotifier creates an empty notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// Show replaces the current status message.
func (n *MemoryNotifier) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
}

// Clear removes the current status message.
func (n *MemoryNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
}

// Current returns the currently displayed message, empty when none.
func (n *MemoryNotifier) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.message
}
