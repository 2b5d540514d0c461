package ensproxy

import (
	"context"
	"fmt"
	"math/big"
)

// QuoteTotal fetches a fresh upstream rent quote for (name, duration) and
// adds the current service fee: total = base + premium + fee. Quotes are
// never cached, the premium component decays over time and must be
// recomputed on every attempt.
func (s *Proxy) QuoteTotal(ctx context.Context, name string, duration *big.Int) (total, base, premium *big.Int, err error) {
	controller, err := s.currentController()
	if err != nil {
		return nil, nil, nil, err
	}
	quote, err := controller.RentPrice(ctx, name, duration)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("upstream rentPrice: %w", err)
	}
	base, premium = quote.Base, quote.Premium
	total = new(big.Int).Add(base, premium)
	total.Add(total, s.GetFee())
	return total, base, premium, nil
}
