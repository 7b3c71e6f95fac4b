package leave

import (
	"context"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
)

type VacationService interface {
	GetDraft(ctx context.Context, identity user.Identity) (DraftResponse, error)
	AddItem(ctx context.Context, identity user.Identity) (DraftResponse, error)
	UpdateItem(ctx context.Context, identity user.Identity, index int, req UpdateItemRequest) (DraftResponse, error)
	RemoveItem(ctx context.Context, identity user.Identity, index int) (DraftResponse, error)
	Submit(ctx context.Context, identity user.Identity) (DraftResponse, error)
	Reset(ctx context.Context, identity user.Identity) error
}
