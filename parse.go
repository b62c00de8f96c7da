package toolskema

import (
	"context"
	"errors"
	"io"

	"github.com/reoring/toolskema/i18n"
	eng "github.com/reoring/toolskema/internal/engine"
)

// ParseFrom is the primary entry point. It consumes tokens from the Source,
// builds an any value under the enforcement options, and delegates validation
// to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := decodeAnyFromSource(src, opt)
	if err != nil {
		return zero, toIssues(err)
	}
	return s.Parse(ctx, v)
}

// StreamParse validates input read from an io.Reader. When MaxBytes is set it
// enforces the size cap up front, otherwise it streams through ParseFrom.
func StreamParse[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...ParseOpt) (T, error) {
	var zero T
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		limit := opts[len(opts)-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return zero, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > limit {
			return zero, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return ParseFrom(ctx, s, JSONBytes(data), opts...)
	}
	return ParseFrom(ctx, s, JSONReader(r), opts...)
}

func decodeAnyFromSource(src Source, opt ParseOpt) (any, error) {
	var sink func(eng.SimpleIssue)
	if opt.OnWarn != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnWarn(engineIssue(si))
		}
	}
	enforced := eng.WrapWithEnforcement(src.tokens(), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
		FailFast:    opt.FailFast,
	})
	if src.NumberMode() == NumberFloat64 {
		return eng.DecodeAnyFromSourceAsFloat64(enforced)
	}
	return eng.DecodeAnyFromSource(enforced)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, engineIssue(ie.SimpleIssue))
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: err.Error(), Cause: err, Offset: -1})
}

// engineIssue translates the message; the engine's own text becomes the hint.
func engineIssue(si eng.SimpleIssue) Issue {
	return Issue{Path: si.Path, Code: si.Code, Message: i18n.T(si.Code, nil), Hint: si.Message, Offset: si.Offset}
}

func singleIssue(code, detail string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: detail, Offset: -1})
}
