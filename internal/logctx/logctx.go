// Package logctx attaches request-scoped attributes to slog records. Callers
// store request data on the context and wrap their handler with Handler;
// every record logged with that context gains a "req" group.
package logctx

import (
	"context"
	"log/slog"
)

type Handler struct {
	slog.Handler
}

// Wrap returns a logger whose handler adds request data from the context.
// A nil logger yields a logger that discards everything.
func Wrap(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	if _, ok := l.Handler().(Handler); ok {
		return l
	}
	return slog.New(Handler{Handler: l.Handler()})
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		attrs := []any{
			slog.String("id", rd.RequestID),
			slog.String("method", rd.Method),
			slog.String("endpoint", rd.Endpoint),
		}
		if rd.Attempt > 0 {
			attrs = append(attrs, slog.Int("attempt", rd.Attempt))
		}
		r.AddAttrs(slog.Group("req", attrs...))
	}

	if cd, ok := ctx.Value(callDataKey{}).(*CallData); ok {
		r.AddAttrs(slog.Group("call",
			slog.String("op", cd.Operation),
		))
	}

	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type requestDataKey struct{}

// RequestData describes one outbound HTTP attempt.
type RequestData struct {
	RequestID string
	Method    string
	Endpoint  string
	Attempt   int
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

// RequestDataFrom returns the request data stored on ctx, if any.
func RequestDataFrom(ctx context.Context) (*RequestData, bool) {
	rd, ok := ctx.Value(requestDataKey{}).(*RequestData)
	return rd, ok
}

type callDataKey struct{}

// CallData names the client operation a request belongs to, such as
// "people.list". One operation may issue several requests.
type CallData struct {
	Operation string
}

func WithCallData(ctx context.Context, data *CallData) context.Context {
	return context.WithValue(ctx, callDataKey{}, data)
}
