package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	tb "github.com/tigerbeetle/tigerbeetle-go"
	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"

	"routenet/internal/tbutil"
)

// TigerBeetle posts every delivery as a transfer from the link's account to
// the sink's account, so totals are account balances.
type TigerBeetle struct {
	pool  *tbutil.ClientPool
	runID string

	mu    sync.Mutex
	known map[tbtypes.Uint128]struct{}
	sinks map[string]tbtypes.Uint128
}

// OpenTigerBeetle connects to a cluster.
func OpenTigerBeetle(clusterID uint64, addresses []string, run Run) (*TigerBeetle, error) {
	pool, err := tbutil.NewClientPool(clusterID, addresses, 1)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return &TigerBeetle{
		pool:  pool,
		runID: run.ID,
		known: map[tbtypes.Uint128]struct{}{},
		sinks: map[string]tbtypes.Uint128{},
	}, nil
}

func (j *TigerBeetle) Record(ctx context.Context, deliveries []Delivery) error {
	if err := validateBatch(deliveries); err != nil {
		return err
	}
	if len(deliveries) == 0 {
		return nil
	}
	accounts, pending := j.missingAccounts(deliveries)
	transfers := make([]tbtypes.Transfer, 0, len(deliveries))
	for _, d := range deliveries {
		transfers = append(transfers, tbtypes.Transfer{
			ID:              tbutil.DeliveryTransferID(d.ID),
			DebitAccountID:  tbutil.LinkAccountID(j.runID, d.Link),
			CreditAccountID: tbutil.SinkAccountID(j.runID, d.Sink),
			Amount:          tbtypes.ToUint128(uint64(d.Units)),
			UserData64:      uint64(d.Tick),
			Ledger:          tbutil.DeliveryLedger,
			Code:            tbutil.DeliveryCode,
		})
	}
	err := j.pool.With(ctx, func(client tb.Client) error {
		if len(accounts) > 0 {
			if err := tbutil.CreateAccounts(ctx, client, accounts); err != nil {
				return err
			}
		}
		return tbutil.CreateTransfers(ctx, client, transfers)
	})
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	j.markKnown(pending)
	return nil
}

// missingAccounts returns account records for links and sinks not yet
// created in this run.
func (j *TigerBeetle) missingAccounts(deliveries []Delivery) ([]tbtypes.Account, map[string]tbtypes.Uint128) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var accounts []tbtypes.Account
	pending := map[string]tbtypes.Uint128{}
	add := func(label string, id tbtypes.Uint128) {
		if _, ok := j.known[id]; ok {
			return
		}
		if _, ok := pending[label]; ok {
			return
		}
		pending[label] = id
		accounts = append(accounts, tbtypes.Account{
			ID:     id,
			Ledger: tbutil.DeliveryLedger,
			Code:   tbutil.DeliveryCode,
		})
	}
	for _, d := range deliveries {
		add("link:"+d.Link, tbutil.LinkAccountID(j.runID, d.Link))
		add("sink:"+d.Sink, tbutil.SinkAccountID(j.runID, d.Sink))
	}
	return accounts, pending
}

func (j *TigerBeetle) markKnown(pending map[string]tbtypes.Uint128) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for label, id := range pending {
		j.known[id] = struct{}{}
		if sink, ok := strings.CutPrefix(label, "sink:"); ok {
			j.sinks[sink] = id
		}
	}
}

func (j *TigerBeetle) Totals(ctx context.Context) (map[string]int, error) {
	j.mu.Lock()
	names := make([]string, 0, len(j.sinks))
	for name := range j.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make([]tbtypes.Uint128, 0, len(names))
	byID := make(map[tbtypes.Uint128]string, len(names))
	for _, name := range names {
		ids = append(ids, j.sinks[name])
		byID[j.sinks[name]] = name
	}
	j.mu.Unlock()

	totals := map[string]int{}
	if len(ids) == 0 {
		return totals, nil
	}
	err := j.pool.With(ctx, func(client tb.Client) error {
		accounts, err := tbutil.LookupAccounts(ctx, client, ids)
		if err != nil {
			return fmt.Errorf("lookup accounts: %w", err)
		}
		for _, account := range accounts {
			totals[byID[account.ID]] = int(tbutil.Uint128ToUint64(account.CreditsPosted))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return totals, nil
}

func (j *TigerBeetle) Close() error {
	return j.pool.Close()
}
