package tbutil

import (
	"context"
	"fmt"

	tb "github.com/tigerbeetle/tigerbeetle-go"
	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// ClientPool manages a fixed set of TigerBeetle clients.
type ClientPool struct {
	clients   []tb.Client
	available chan tb.Client
}

// NewClientPool creates a pool with the requested number of sessions.
func NewClientPool(clusterID uint64, addresses []string, sessions int) (*ClientPool, error) {
	if sessions <= 0 {
		sessions = 1
	}
	clients := make([]tb.Client, 0, sessions)
	available := make(chan tb.Client, sessions)
	cluster := tbtypes.ToUint128(clusterID)
	for i := 0; i < sessions; i++ {
		client, err := tb.NewClient(cluster, addresses)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("create TB client: %w", err)
		}
		clients = append(clients, client)
		available <- client
	}
	return &ClientPool{clients: clients, available: available}, nil
}

// With runs fn with a pooled client, waiting for one until ctx is done.
func (p *ClientPool) With(ctx context.Context, fn func(tb.Client) error) error {
	var client tb.Client
	select {
	case <-ctx.Done():
		return ctx.Err()
	case client = <-p.available:
	}
	defer func() { p.available <- client }()
	return fn(client)
}

// Close shuts down all clients in the pool.
func (p *ClientPool) Close() error {
	for _, client := range p.clients {
		client.Close()
	}
	return nil
}

// callWithContext runs a blocking client call and abandons it when ctx ends.
func callWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		value, err := fn()
		ch <- result{value: value, err: err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		return res.value, res.err
	}
}

// CreateAccounts creates accounts, treating already existing ones as success.
func CreateAccounts(ctx context.Context, client tb.Client, accounts []tbtypes.Account) error {
	results, err := callWithContext(ctx, func() ([]tbtypes.AccountEventResult, error) {
		return client.CreateAccounts(accounts)
	})
	if err != nil {
		return fmt.Errorf("create accounts: %w", err)
	}
	for _, result := range results {
		if result.Result == tbtypes.AccountExists {
			continue
		}
		return fmt.Errorf("create account %d: %s", result.Index, result.Result)
	}
	return nil
}

// LookupAccounts executes a LookupAccounts call with context cancellation.
func LookupAccounts(ctx context.Context, client tb.Client, ids []tbtypes.Uint128) ([]tbtypes.Account, error) {
	return callWithContext(ctx, func() ([]tbtypes.Account, error) {
		return client.LookupAccounts(ids)
	})
}

// CreateTransfers posts transfers. Replayed transfers are not errors, so a
// batch may be retried after a timeout.
func CreateTransfers(ctx context.Context, client tb.Client, transfers []tbtypes.Transfer) error {
	results, err := callWithContext(ctx, func() ([]tbtypes.TransferEventResult, error) {
		return client.CreateTransfers(transfers)
	})
	if err != nil {
		return fmt.Errorf("create transfers: %w", err)
	}
	for _, result := range results {
		if result.Result == tbtypes.TransferExists {
			continue
		}
		return fmt.Errorf("create transfer %d: %s", result.Index, result.Result)
	}
	return nil
}
