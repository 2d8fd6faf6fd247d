package ledger

import (
	"context"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/platform/grpc/pagination"
	"github.com/louisbranch/stakes.space/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/louisbranch/stakes.space/internal/services/ledger/goalledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	goalPageSize = pagination.PageSizeConfig{Default: 50, Max: 200}
	goalOrderBy  = pagination.OrderByConfig{Default: "id", Allowed: []string{"id"}}

	eventPageSize = pagination.PageSizeConfig{Default: 100, Max: 500}
)

// GoalService implements ledger.v1.GoalService.
type GoalService struct {
	ledgerv1.UnimplementedGoalServiceServer
	ledger *goalledger.Service
}

// NewGoalService creates a GoalService over ledger.
func NewGoalService(ledger *goalledger.Service) *GoalService {
	return &GoalService{ledger: ledger}
}

// callerFromContext returns the caller set by the metadata interceptor.
func callerFromContext(ctx context.Context) string {
	return strings.TrimSpace(requestctx.CallerFromContext(ctx))
}

// handleDomainError converts a ledger error to a localized status.
func handleDomainError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
}

func requireGoalID(goalID uint64) error {
	if goalID == 0 {
		return status.Error(codes.InvalidArgument, "goal id is required")
	}
	return nil
}

func requireAccount(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", status.Error(codes.InvalidArgument, "account is required")
	}
	return account, nil
}
