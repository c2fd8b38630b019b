package sessionprefs

import (
	"context"
	"sync"
)

// Prefs captures per-shell preferences that do not belong in the persisted
// session.
type Prefs struct {
	mu      sync.Mutex
	private bool
	verbose bool
}

type prefsKey struct{}

// New returns a new Prefs instance with defaults applied.
func New() *Prefs {
	return &Prefs{}
}

// Private reports whether new tabs open incognito by default.
func (p *Prefs) Private() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.private
}

// TogglePrivate flips the incognito default and returns the new value.
func (p *Prefs) TogglePrivate() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.private = !p.private
	return p.private
}

// Verbose reports whether listings include tab ids.
func (p *Prefs) Verbose() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.verbose
}

// SetVerbose sets the verbose listing flag.
func (p *Prefs) SetVerbose(v bool) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.verbose = v
	p.mu.Unlock()
}

// WithContext stores prefs in the context.
func WithContext(ctx context.Context, prefs *Prefs) context.Context {
	if ctx == nil || prefs == nil {
		return ctx
	}
	return context.WithValue(ctx, prefsKey{}, prefs)
}

// FromContext returns the prefs stored in the context, if any.
func FromContext(ctx context.Context) *Prefs {
	if ctx == nil {
		return nil
	}
	if value := ctx.Value(prefsKey{}); value != nil {
		if prefs, ok := value.(*Prefs); ok {
			return prefs
		}
	}
	return nil
}
