package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	scierrors "github.com/YuminosukeSato/ridgepca/pkg/errors"
)

// ErrFmtHandler is a slog handler for records carrying an error under
// ErrAttrKey. It adds the stacktrace recorded by cockroachdb/errors and,
// for the structured error types of pkg/errors, an error.code attribute.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler so that it emits stacktrace and error code attributes.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var found error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				found = err
			}
			return false
		}
		return true
	})
	if found != nil {
		if stacktrace := extractStacktrace(found); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		if code := errorCode(found); code != "" {
			r.AddAttrs(slog.String(ErrorCodeKey, code))
		}
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

func errorCode(err error) string {
	var dimErr *scierrors.DimensionError
	if errors.As(err, &dimErr) {
		return ErrorDimensionMismatch
	}
	var valErr *scierrors.ValidationError
	if errors.As(err, &valErr) {
		return ErrorInvalidInput
	}
	var rankWarn *scierrors.RankDeficiencyWarning
	if errors.As(err, &rankWarn) {
		return ErrorRankDeficient
	}
	return ""
}
