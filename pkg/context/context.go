package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tubeworks/streamapi/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	UserIDKey    = constants.CtxKeyUserID
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	StartTimeKey = constants.CtxKeyStartTime
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
)

// NewContextWithRequest seeds a context with request metadata plus the
// module/function pair used by the logging builder.
func NewContextWithRequest(ctx context.Context, r *http.Request, module, function string) context.Context {
	requestID := r.Header.Get(constants.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	ctx = context.WithValue(ctx, ClientIPKey, clientIP(r))
	ctx = context.WithValue(ctx, UserAgentKey, r.UserAgent())
	ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	return WithOperation(ctx, module, function)
}

// WithOperation tags the context with the module and function currently
// executing; the logging builder emits both as fields.
func WithOperation(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, ModuleKey, module)
	return context.WithValue(ctx, FunctionKey, function)
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UserAgentKey).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(UserIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(ModuleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(FunctionKey).(string); ok {
		return val
	}
	return ""
}

func GetDuration(ctx context.Context) time.Duration {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return time.Since(val)
	}
	return 0
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
