package errors

import (
	"fmt"
	"maps"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain identifies Stakes.Space in ErrorInfo details.
const Domain = "github.com/louisbranch/stakes.space"

// kindMetadataKey carries the error Kind inside ErrorInfo metadata.
const kindMetadataKey = "kind"

// Error is a ledger rejection or failure. Message is for logs; the text shown
// to users is rendered from Code and Metadata by the i18n catalog.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so errors.Is(err, New(code, ""))
// tests for a code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// Kind returns the taxonomy bucket of the error code.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// With returns a copy of e with key set in its metadata.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Metadata = make(map[string]string, len(e.Metadata)+1)
	maps.Copy(out.Metadata, e.Metadata)
	out.Metadata[key] = value
	return &out
}

// New returns an error with code and a log message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf is New with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMetadata returns an error whose metadata feeds the message template.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap returns an error with code that unwraps to cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// errorInfo builds the ErrorInfo detail, adding the kind to the metadata.
func (e *Error) errorInfo() *errdetails.ErrorInfo {
	metadata := make(map[string]string, len(e.Metadata)+1)
	maps.Copy(metadata, e.Metadata)
	metadata[kindMetadataKey] = string(e.Kind())
	return &errdetails.ErrorInfo{
		Reason:   string(e.Code),
		Domain:   Domain,
		Metadata: metadata,
	}
}

// ToGRPCStatus returns a status whose message is the log message, carrying
// ErrorInfo and a LocalizedMessage with userMessage in locale.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	base := status.New(e.Code.GRPCCode(), e.Error())
	detailed, err := base.WithDetails(
		e.errorInfo(),
		&errdetails.LocalizedMessage{Locale: locale, Message: userMessage},
	)
	if err != nil {
		return base.Err()
	}
	return detailed.Err()
}
