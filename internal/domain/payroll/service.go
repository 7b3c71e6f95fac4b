package payroll

import (
	"context"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
)

type PayrollService interface {
	GetSession(ctx context.Context, identity user.Identity, period Period) (SessionResponse, error)
	BeginEdit(ctx context.Context, identity user.Identity, period Period) (SessionResponse, error)
	SetField(ctx context.Context, identity user.Identity, period Period, req SetFieldRequest) (SessionResponse, error)
	CancelEdit(ctx context.Context, identity user.Identity, period Period) (SessionResponse, error)
	Save(ctx context.Context, identity user.Identity, period Period) (SessionResponse, error)
}
