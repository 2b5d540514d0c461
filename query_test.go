package ensproxy

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestAvailableAndValid(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	ok, err := p.Available(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, ok)

	fakes.controller.unavailable["alice"] = true
	ok, err = p.Available(ctx, "alice")
	assert.NoError(t, err)
	assert.False(t, ok)

	// availability is never cached, the change is visible immediately
	delete(fakes.controller.unavailable, "alice")
	ok, err = p.Available(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, ok)

	fakes.controller.invalid["!!"] = true
	ok, err = p.Valid(ctx, "!!")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGetExpiry(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	id := new(big.Int).SetBytes(crypto.Keccak256([]byte("alice")))
	fakes.registrar.expiries[id.String()] = big.NewInt(1893456000)

	expiry, err := p.GetExpiry(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(1893456000), expiry.Int64())

	// short cache window: the stale value is served until it expires
	fakes.registrar.expiries[id.String()] = big.NewInt(1924992000)
	expiry, err = p.GetExpiry(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(1893456000), expiry.Int64())

	expiry, err = p.GetExpiry(ctx, "unregistered")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), expiry.Int64())
}

func TestCommitmentAges(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()
	fakes.controller.minAge = big.NewInt(60)
	fakes.controller.maxAge = big.NewInt(86400)

	ages, err := p.CommitmentAges(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(60), ages.Min.Int64())
	assert.Equal(t, int64(86400), ages.Max.Int64())

	// served from cache until the background refresh
	fakes.controller.minAge = big.NewInt(120)
	ages, err = p.CommitmentAges(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(60), ages.Min.Int64())

	// the refresh job repopulates the cache with current values
	_, err = p.fetchCommitmentAges(ctx)
	assert.NoError(t, err)
	ages, err = p.CommitmentAges(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(120), ages.Min.Int64())
}
