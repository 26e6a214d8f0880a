package policy

import "context"

// Admission modes recognised by the executor.
const (
	ModeReject = "reject" // fail fast with a queue-full error (default)
	ModeWait   = "wait"   // block until space frees up or the context ends
)

// Policy represents the admission settings for a spawn call.
//
// A nil *Policy means "reject on a full queue" and is therefore the
// zero-cost default – call sites that never saturate the queue do not need
// to touch this package.
type Policy struct {
	Mode string // reject / wait (default = reject)
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{Mode: p.Mode}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{Mode: c.Mode}
}

// Waits reports whether the policy asks spawn to wait for queue space
// instead of failing fast.
func (p *Policy) Waits() bool {
	return p != nil && p.Mode == ModeWait
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the *Policy carried by ctx, nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
