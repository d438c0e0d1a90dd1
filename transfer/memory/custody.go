// Package memory simulates the host's custody account for tests and local
// runs.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/streamless/streamless/transfer"
)

// ErrCustodyExhausted is returned when a transfer exceeds the simulated
// custody balance.
var ErrCustodyExhausted = errors.New("transfer/memory: custody exhausted")

// compile-time interface check
var _ transfer.Custodian = (*Custody)(nil)

// Custody tracks a single custody balance plus the outbound accounts it has
// paid, so tests can assert where value went.
type Custody struct {
	mu       sync.Mutex
	balance  uint64
	accounts map[string]uint64

	// FailNext forces the next Transfer to fail without moving funds,
	// for exercising the transfer-failure path.
	FailNext bool
}

// New creates a custody account with a zero balance.
func New() *Custody {
	return &Custody{
		accounts: make(map[string]uint64),
	}
}

// Receive credits engine custody, simulating an inbound deposit transfer that
// the host has already completed.
func (c *Custody) Receive(amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.balance += amount
}

func (c *Custody) Transfer(_ context.Context, to string, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailNext {
		c.FailNext = false
		return errors.New("transfer/memory: injected failure")
	}
	if c.balance < amount {
		return ErrCustodyExhausted
	}
	c.balance -= amount
	c.accounts[to] += amount
	return nil
}

func (c *Custody) CustodyBalance(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.balance, nil
}

// PaidTo returns the total amount transferred to an address.
func (c *Custody) PaidTo(addr string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.accounts[addr]
}
