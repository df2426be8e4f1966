// Package apperr defines the error kinds a transcription job can fail with.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindConfig            Kind = "ConfigError"
	KindDependencyMissing Kind = "DependencyMissing"
	KindFetchFailed       Kind = "FetchFailed"
	KindTranscribeFailed  Kind = "TranscribeFailed"
	KindSummarizeFailed   Kind = "SummarizeFailed"
)

// Dependency names reported by DependencyMissing.
const (
	DepDownloader = "downloader"
	DepRecognizer = "recognizer"
	DepModel      = "model"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind       Kind
	Which      string // DependencyMissing only
	Reason     string
	URL        string
	Path       string
	ExitCode   int
	StderrTail string
	Err        error
}

// Error formats the failure as Kind{field: value, ...}: reason.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var fields []string
	if e.Which != "" {
		fields = append(fields, e.Which)
	}
	if e.URL != "" {
		fields = append(fields, "url: "+e.URL)
	}
	if e.Path != "" {
		fields = append(fields, "path: "+e.Path)
	}
	if e.ExitCode != 0 {
		fields = append(fields, fmt.Sprintf("exit_code: %d", e.ExitCode))
	}

	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(fields) > 0 {
		b.WriteString("{" + strings.Join(fields, ", ") + "}")
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if e.StderrTail != "" {
		b.WriteString("\nstderr: " + e.StderrTail)
	}
	return b.String()
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Config reports a configuration file that exists but cannot be parsed.
func Config(path string, err error) *Error {
	return &Error{Kind: KindConfig, Path: path, Reason: "invalid JSON", Err: err}
}

// DependencyMissing names the first unreachable dependency.
func DependencyMissing(which, path string, err error) *Error {
	return &Error{Kind: KindDependencyMissing, Which: which, Path: path, Err: err}
}

// FetchFailed reports a downloader failure.
func FetchFailed(url, reason string) *Error {
	return &Error{Kind: KindFetchFailed, URL: url, Reason: reason}
}

// TranscribeFailed reports a recognizer failure.
func TranscribeFailed(reason string) *Error {
	return &Error{Kind: KindTranscribeFailed, Reason: reason}
}

// SummarizeFailed reports a summarizer failure.
func SummarizeFailed(reason string) *Error {
	return &Error{Kind: KindSummarizeFailed, Reason: reason}
}

// WithExit attaches child process diagnostics.
func (e *Error) WithExit(code int, stderrTail string) *Error {
	e.ExitCode = code
	e.StderrTail = stderrTail
	return e
}

// WithCause sets the underlying cause.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// KindOf extracts the kind from err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Fatal reports whether a failure of this kind aborts the job.
func (k Kind) Fatal() bool {
	return k != KindSummarizeFailed
}
