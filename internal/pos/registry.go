package pos

import "sync"

// Registry hands out the cart owned by each POS session. Lookup is
// synchronized; the returned cart itself is exclusively owned by its
// session and must not be shared across sessions.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Cart returns the cart for the given session, creating it on first use.
func (r *Registry) Cart(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[sessionID]
	if !ok {
		c = NewCart()
		r.carts[sessionID] = c
	}
	return c
}
