package application

import (
	"context"

	"github.com/stockkeeper/inventory/internal/inventory/domain"
)

// ItemRepository is the persistence port for inventory records. Implementations
// must make Restock atomic at the storage layer so concurrent deltas on the
// same id never lose updates.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Get(ctx context.Context, id int64) (domain.Item, error)
	Update(ctx context.Context, item domain.Item) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter Filter) ([]domain.Item, error)
	Restock(ctx context.Context, id int64, delta int) (domain.Item, error)
}

// Filter narrows a List call. All supplied criteria apply conjunctively.
// Zero-value string fields mean "not filtered"; quantity bounds are pointers
// so a zero bound is still expressible.
type Filter struct {
	Name        string
	Condition   domain.Condition
	StockLevel  domain.StockLevel
	MinQuantity *int
	MaxQuantity *int
}
