package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

// Fallback reads from Primary and, when that fails or comes back empty,
// from Secondary. Writes only go to Primary.
type Fallback struct {
	Primary   ledger.Remote
	Secondary ledger.Remote
}

func (f Fallback) FetchTable(ctx context.Context) (ledger.Table, error) {
	var primaryErr error
	if f.Primary != nil {
		t, err := f.Primary.FetchTable(ctx)
		if err == nil && !t.Empty() {
			return t, nil
		}
		primaryErr = err
	}
	if f.Secondary == nil {
		if primaryErr == nil {
			return ledger.Table{}, nil
		}
		return ledger.Table{}, primaryErr
	}
	t, err := f.Secondary.FetchTable(ctx)
	if err != nil {
		return ledger.Table{}, errors.Join(primaryErr, err)
	}
	return t, nil
}

func (f Fallback) WriteTable(ctx context.Context, t ledger.Table) error {
	if f.Primary == nil {
		return ErrReadOnly
	}
	return f.Primary.WriteTable(ctx, t)
}

// Bounded caps every call to Remote at Timeout. A zero Timeout leaves the
// caller's context alone.
type Bounded struct {
	Remote  ledger.Remote
	Timeout time.Duration
}

func (b Bounded) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.Timeout)
}

func (b Bounded) FetchTable(ctx context.Context) (ledger.Table, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.Remote.FetchTable(ctx)
}

func (b Bounded) WriteTable(ctx context.Context, t ledger.Table) error {
	ctx, cancel := b.bound(ctx)
	defer cancel()
	return b.Remote.WriteTable(ctx, t)
}
