// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package migration

import (
	"context"
	"io"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/ux"
)

// Entry is one landed transaction.
type Entry struct {
	Edge     Edge
	Contract chain.Contract
	Method   string
	Sender   common.Address
	TxHash   common.Hash
	Block    uint64
	TxIndex  uint
}

// Match selects journal entries by contract and method.
type Match struct {
	Contract common.Address
	Method   string
}

func (m Match) matches(e Entry) bool {
	return e.Contract.Address == m.Contract && e.Method == m.Method
}

// Journal is the ordered record of every transaction a Driver landed.
type Journal struct {
	mu      sync.Mutex
	edge    Edge
	entries []Entry
}

func (j *Journal) enter(e Edge) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.edge = e
}

func (j *Journal) record(c chain.Contract, method string, sender common.Address, r *types.Receipt) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e := Entry{
		Edge:     j.edge,
		Contract: c,
		Method:   method,
		Sender:   sender,
	}
	if r != nil {
		e.TxHash = r.TxHash
		e.TxIndex = r.TransactionIndex
		if r.BlockNumber != nil {
			e.Block = r.BlockNumber.Uint64()
		}
	}
	j.entries = append(j.entries, e)
}

// Entries returns a copy of the journal.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Find returns the first entry matching m.
func (j *Journal) Find(m Match) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range j.entries {
		if m.matches(e) {
			return e, true
		}
	}
	return Entry{}, false
}

// Before reports whether the first transaction matching a landed strictly
// earlier on chain than the first transaction matching b. It is false when
// either is missing.
func (j *Journal) Before(a, b Match) bool {
	ea, ok := j.Find(a)
	if !ok {
		return false
	}
	eb, ok := j.Find(b)
	if !ok {
		return false
	}
	if ea.Block != eb.Block {
		return ea.Block < eb.Block
	}
	return ea.TxIndex < eb.TxIndex
}

// Render prints the journal as a table.
func (j *Journal) Render(w io.Writer) error {
	table := ux.DefaultTable(w, "Block", "Edge", "Contract", "Method", "Sender", "Tx")
	for _, e := range j.Entries() {
		if err := table.Append([]string{
			ux.ConvertToStringWithThousandSeparator(e.Block),
			e.Edge.String(),
			e.Contract.String(),
			e.Method,
			e.Sender.Hex(),
			e.TxHash.Hex(),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// recordingClient journals every transaction that lands through it.
type recordingClient struct {
	chain.Client
	journal *Journal
}

func (c recordingClient) Deploy(
	ctx context.Context,
	kind chain.Kind,
	from common.Address,
	args ...any,
) (chain.Contract, *types.Receipt, error) {
	deployed, r, err := c.Client.Deploy(ctx, kind, from, args...)
	if err == nil {
		c.journal.record(deployed, "constructor", from, r)
	}
	return deployed, r, err
}

func (c recordingClient) Transact(
	ctx context.Context,
	target chain.Contract,
	from common.Address,
	method string,
	args ...any,
) (*types.Receipt, error) {
	r, err := c.Client.Transact(ctx, target, from, method, args...)
	if err == nil {
		c.journal.record(target, method, from, r)
	}
	return r, err
}
