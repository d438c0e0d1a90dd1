package streamless

import (
	"context"

	"github.com/streamless/streamless/codec"
)

// readIndex loads an identifier list, newest first. A missing key is an empty
// list.
func (e *Engine) readIndex(ctx context.Context, key string) ([]string, error) {
	ok, err := e.store.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return codec.SplitIDs(raw), nil
}

// pushUnique prepends id to the index unless it is already present. The
// duplicate scan is linear; at the ledger's expected scale a duplicate entry
// would only cause redundant reads downstream, never corruption, so the
// simple scan wins over a side table.
func (e *Engine) pushUnique(ctx context.Context, key, id string) error {
	ids, err := e.readIndex(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append([]string{id}, ids...)
	return e.store.Set(ctx, key, codec.JoinIDs(ids))
}
