package streamless

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamless/streamless/codec"
	"github.com/streamless/streamless/event"
	"github.com/streamless/streamless/keys"
)

// Deposit credits a subscriber's pre-funded balance by the amount already
// transferred into engine custody. The inbound transfer is the host's atomic
// effect and must have completed before this call — the ledger never credits
// speculatively.
func (e *Engine) Deposit(ctx context.Context, subscriber string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validIdentifier(subscriber) {
		return fmt.Errorf("%w: subscriber address is required", ErrInvalidArgument)
	}
	if amount == 0 {
		return fmt.Errorf("%w: deposit amount must be > 0", ErrInvalidArgument)
	}

	if err := e.creditBalance(ctx, subscriber, amount); err != nil {
		return err
	}

	e.events.Emit(ctx, e.nowMillis(), event.Deposit{
		Who:    subscriber,
		Amount: codec.FormatU64(amount),
	})

	e.logger.Info("deposit credited", "subscriber", subscriber, "amount", amount)
	return nil
}

// Withdraw returns part of a subscriber's pre-funded balance to them. The
// ledger debit commits before the outbound transfer is attempted; the host's
// atomic-effect semantics make debit-then-transfer all-or-nothing, so a
// transfer failure after the debit is fatal for the call rather than silently
// reverted.
func (e *Engine) Withdraw(ctx context.Context, subscriber string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validIdentifier(subscriber) {
		return fmt.Errorf("%w: subscriber address is required", ErrInvalidArgument)
	}
	if amount == 0 {
		return fmt.Errorf("%w: withdraw amount must be > 0", ErrInvalidArgument)
	}

	balance, err := e.balance(ctx, subscriber)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: balance %d < %d", ErrInsufficientFunds, balance, amount)
	}

	// Defensive check against external desynchronization: never promise
	// funds custody does not hold.
	custody, err := e.custody.CustodyBalance(ctx)
	if err != nil {
		return err
	}
	if custody < amount {
		return fmt.Errorf("%w: custody %d < %d", ErrEngineUnderfunded, custody, amount)
	}

	if err := e.debitBalance(ctx, subscriber, amount); err != nil {
		return err
	}
	if err := e.custody.Transfer(ctx, subscriber, amount); err != nil {
		return fmt.Errorf("%w: withdraw to %s: %v", ErrTransferFailed, subscriber, err)
	}

	e.events.Emit(ctx, e.nowMillis(), event.Withdraw{
		Who:    subscriber,
		Amount: codec.FormatU64(amount),
	})

	e.logger.Info("withdrawal paid", "subscriber", subscriber, "amount", amount)
	return nil
}

// BalanceOf returns a subscriber's pre-funded balance, zero for unknown
// subscribers.
func (e *Engine) BalanceOf(ctx context.Context, subscriber string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.balance(ctx, subscriber)
}

// TotalDeposits returns the sum of all deposit balances. Custody must always
// cover it (solvency invariant).
func (e *Engine) TotalDeposits(ctx context.Context) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.total(ctx)
}

// ==================== Ledger internals ====================
// Callers hold the engine lock.

func (e *Engine) balance(ctx context.Context, subscriber string) (uint64, error) {
	v, err := e.getU64(ctx, keys.DepositBalance(subscriber))
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	return v, err
}

func (e *Engine) total(ctx context.Context) (uint64, error) {
	v, err := e.getU64(ctx, keys.DepositTotal)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	return v, err
}

func (e *Engine) creditBalance(ctx context.Context, subscriber string, amount uint64) error {
	balance, err := e.balance(ctx, subscriber)
	if err != nil {
		return err
	}
	total, err := e.total(ctx)
	if err != nil {
		return err
	}
	if err := e.store.Set(ctx, keys.DepositBalance(subscriber), codec.FormatU64(balance+amount)); err != nil {
		return err
	}
	return e.store.Set(ctx, keys.DepositTotal, codec.FormatU64(total+amount))
}

// debitBalance assumes the caller already verified balance >= amount.
func (e *Engine) debitBalance(ctx context.Context, subscriber string, amount uint64) error {
	balance, err := e.balance(ctx, subscriber)
	if err != nil {
		return err
	}
	total, err := e.total(ctx)
	if err != nil {
		return err
	}
	if balance < amount || total < amount {
		return fmt.Errorf("%w: debit %d exceeds balance %d / total %d", ErrCorruptValue, amount, balance, total)
	}
	if err := e.store.Set(ctx, keys.DepositBalance(subscriber), codec.FormatU64(balance-amount)); err != nil {
		return err
	}
	return e.store.Set(ctx, keys.DepositTotal, codec.FormatU64(total-amount))
}
