package ensproxy

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// Withdraw transfers the entire treasury balance to the owner. The balance
// is only debited after the outbound transfer succeeds, a rejected transfer
// leaves it untouched. Reentrancy-latched: the transfer hands control to the
// owner address.
func (s *Proxy) Withdraw(ctx context.Context, caller common.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	s.stateMu.Lock()
	amount := new(big.Int).Set(s.treasury)
	owner := s.owner
	s.stateMu.Unlock()
	if amount.Sign() == 0 {
		return schema.ErrNothingToWithdraw
	}

	if err := s.transferor.Transfer(ctx, owner, amount); err != nil {
		log.Error("treasury transfer rejected", "err", err, "owner", owner.Hex(), "amount", amount.String())
		return schema.ErrTransferFailed
	}

	s.stateMu.Lock()
	s.treasury.Sub(s.treasury, amount)
	balance := new(big.Int).Set(s.treasury)
	s.stateMu.Unlock()
	if err := s.store.SaveTreasuryBalance(balance); err != nil {
		log.Error("save treasury snapshot", "err", err, "balance", balance.String())
	}
	log.Info("treasury withdrawn", "owner", owner.Hex(), "amount", amount.String())
	return nil
}

// UpdateFee replaces the service fee, bounded by schema.MaxServiceFee.
// Takes effect for future quotes only, in-flight quotes already carry the
// old fee.
func (s *Proxy) UpdateFee(caller common.Address, newFee *big.Int) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if newFee == nil || newFee.Sign() < 0 {
		return schema.ErrInvalidInput
	}
	if newFee.Cmp(schema.MaxServiceFee) > 0 {
		return schema.ErrFeeTooHigh
	}
	if err := s.wdb.UpdateFeeConfig(newFee.String()); err != nil {
		return err
	}
	s.stateMu.Lock()
	s.serviceFee = new(big.Int).Set(newFee)
	s.stateMu.Unlock()
	log.Info("service fee updated", "fee", newFee.String())
	return nil
}
