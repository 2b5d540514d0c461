package ensproxy

import (
	"context"
	"math/big"
	"testing"

	"github.com/everFinance/ensproxy/schema"
	"github.com/stretchr/testify/assert"
)

func TestQuoteTotal(t *testing.T) {
	p, fakes := newTestProxy(t)
	fakes.controller.base = big.NewInt(5000)
	fakes.controller.premium = big.NewInt(300)
	assert.NoError(t, p.UpdateFee(testOwner, big.NewInt(77)))

	total, base, premium, err := p.QuoteTotal(context.Background(), "alice", big.NewInt(31536000))
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), base.Int64())
	assert.Equal(t, int64(300), premium.Int64())
	assert.Equal(t, int64(5377), total.Int64())
}

func TestQuoteTotalFresh(t *testing.T) {
	p, fakes := newTestProxy(t)
	fakes.controller.premium = big.NewInt(1000)

	total1, _, _, err := p.QuoteTotal(context.Background(), "alice", big.NewInt(31536000))
	assert.NoError(t, err)

	// premium decayed between calls, the next quote must reflect it
	fakes.controller.premium = big.NewInt(400)
	total2, _, premium2, err := p.QuoteTotal(context.Background(), "alice", big.NewInt(31536000))
	assert.NoError(t, err)
	assert.Equal(t, int64(400), premium2.Int64())
	assert.Equal(t, total1.Int64()-600, total2.Int64())
}

func TestQuoteTotalNotConfigured(t *testing.T) {
	p, _ := newTestProxy(t)
	p.stateMu.Lock()
	p.controller = nil
	p.stateMu.Unlock()

	_, _, _, err := p.QuoteTotal(context.Background(), "alice", big.NewInt(31536000))
	assert.ErrorIs(t, err, schema.ErrNotConfigured)
}
