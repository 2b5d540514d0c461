package ensproxy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/ensproxy/schema"
)

// RegisterWithFee validates the attached payment against a fresh total quote
// and forwards the registration upstream with exactly base+premium attached.
// paid - (base+premium) is retained in the treasury: at least the service
// fee, plus any overpayment. Overpayment is kept, not refunded; callers
// should not overpay.
//
// The whole operation holds the reentrancy latch: a nested call from within
// the upstream value transfer fails with ErrReentrancyBlocked and cannot
// touch the outer call's accounting.
func (s *Proxy) RegisterWithFee(ctx context.Context, req schema.RegistrationRequest, caller common.Address, paid *big.Int) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()

	controller, err := s.currentController()
	if err != nil {
		return err
	}
	if paid == nil || paid.Sign() < 0 {
		return schema.ErrInvalidInput
	}

	// the quote must be current, time may have passed since the commitment
	// and the premium decays
	total, base, premium, err := s.QuoteTotal(ctx, req.Name, req.Duration)
	if err != nil {
		return err
	}
	if paid.Cmp(total) < 0 {
		return schema.ErrInsufficientPayment
	}

	upstreamValue := new(big.Int).Add(base, premium)
	if err := controller.Register(ctx, req, upstreamValue); err != nil {
		// no state change on upstream revert
		return fmt.Errorf("upstream register: %w", err)
	}

	retained := new(big.Int).Sub(paid, upstreamValue)
	s.stateMu.Lock()
	s.treasury.Add(s.treasury, retained)
	balance := new(big.Int).Set(s.treasury)
	fee := new(big.Int).Set(s.serviceFee)
	s.stateMu.Unlock()

	if err := s.store.SaveTreasuryBalance(balance); err != nil {
		log.Error("save treasury snapshot", "err", err, "balance", balance.String())
	}

	event := schema.RegisterEvent{
		Name:      req.Name,
		Caller:    caller.Hex(),
		Owner:     req.Owner.Hex(),
		TotalCost: total.String(),
		Timestamp: time.Now().Unix(),
	}
	if err := s.store.SaveRegisterAudit(event); err != nil {
		log.Error("save register audit", "err", err, "name", req.Name)
	}
	if err := s.wdb.InsertRegistrationRecord(newRegistrationRecord(req, caller, base, premium, fee, paid, total, event.Timestamp)); err != nil {
		log.Error("insert registration record", "err", err, "name", req.Name)
	}
	s.events.PushRegister(event)
	metricRegistration(balance, fee)
	log.Info("registration completed", "name", req.Name, "caller", event.Caller, "owner", event.Owner,
		"totalCost", total.String(), "retained", retained.String())
	return nil
}

func newRegistrationRecord(req schema.RegistrationRequest, caller common.Address,
	base, premium, fee, paid, total *big.Int, timestamp int64) schema.RegistrationRecord {
	records := make([]string, 0, len(req.Data))
	for _, d := range req.Data {
		records = append(records, hexutil.Encode(d))
	}
	dataJs, _ := json.Marshal(records)
	return schema.RegistrationRecord{
		Name:       req.Name,
		Caller:     caller.Hex(),
		Owner:      req.Owner.Hex(),
		Duration:   req.Duration.Int64(),
		Base:       base.String(),
		Premium:    premium.String(),
		ServiceFee: fee.String(),
		Paid:       paid.String(),
		TotalCost:  total.String(),
		Data:       dataJs,
		Timestamp:  timestamp,
	}
}
