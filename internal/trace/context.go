package trace

import "context"

type ctxKey struct{}

// frame is what a context carries: the tracer and the span new spans
// should hang under.
type frame struct {
	tracer Tracer
	parent uint64
}

func frameOf(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(ctxKey{}).(frame); ok {
			return f
		}
	}
	return frame{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return frameOf(ctx).tracer
}

// WithTracer attaches t to ctx; a nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	f := frameOf(ctx)
	f.tracer = t
	return context.WithValue(ctx, ctxKey{}, f)
}

// WithSpan makes s the parent of spans begun from the returned context.
func WithSpan(ctx context.Context, s *Span) context.Context {
	f := frameOf(ctx)
	f.parent = s.ID()
	return context.WithValue(ctx, ctxKey{}, f)
}

// ParentID returns the span ID recorded by WithSpan, 0 at the root.
func ParentID(ctx context.Context) uint64 {
	return frameOf(ctx).parent
}
