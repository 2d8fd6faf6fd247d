package errors

import (
	"errors"

	"github.com/louisbranch/stakes.space/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is used when a request carries no locale.
const DefaultLocale = "en-US"

// unexpectedMessage hides internal failures from callers.
const unexpectedMessage = "an unexpected error occurred"

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// HandleError maps err onto the gRPC status returned to clients. Domain
// errors get a message rendered from the locale's catalog; statuses pass
// through untouched; anything else becomes Internal.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if _, isStatus := status.FromError(err); isStatus {
		return err
	}
	appErr, ok := asError(err)
	if !ok {
		return status.Error(codes.Internal, unexpectedMessage)
	}
	if locale == "" {
		locale = DefaultLocale
	}
	catalog := i18n.GetCatalog(locale)
	return appErr.ToGRPCStatus(catalog.Locale(), catalog.Format(string(appErr.Code), appErr.Metadata))
}

// FromGRPCStatus rebuilds a domain error from a status with an ErrorInfo
// detail in this domain. Any other error comes back unchanged.
func FromGRPCStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return err
	}
	info := domainInfo(st)
	if info == nil {
		return err
	}
	rebuilt := &Error{Code: Code(info.GetReason()), Message: st.Message(), Cause: err}
	for key, value := range info.GetMetadata() {
		if key == kindMetadataKey {
			continue
		}
		if rebuilt.Metadata == nil {
			rebuilt.Metadata = make(map[string]string, len(info.GetMetadata()))
		}
		rebuilt.Metadata[key] = value
	}
	return rebuilt
}

func domainInfo(st *status.Status) *errdetails.ErrorInfo {
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return info
		}
	}
	return nil
}

// GetCode returns the domain code carried by err, or CodeUnknown.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeUnknown
}

func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

func GetKind(err error) Kind {
	return GetCode(err).Kind()
}

// GetMetadata returns the metadata of a domain error, or nil.
func GetMetadata(err error) map[string]string {
	if e, ok := asError(err); ok {
		return e.Metadata
	}
	return nil
}
