package ensproxy

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
	"github.com/stretchr/testify/assert"
)

func TestTransferOwnership(t *testing.T) {
	p, _ := newTestProxy(t)
	newOwner := common.HexToAddress("0x4000000000000000000000000000000000000004")

	err := p.TransferOwnership(testCaller, newOwner)
	assert.ErrorIs(t, err, schema.ErrUnauthorized)

	err = p.TransferOwnership(testOwner, common.Address{})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	assert.NoError(t, p.TransferOwnership(testOwner, newOwner))
	assert.Equal(t, newOwner, p.Owner())

	// the old owner lost the role atomically
	err = p.UpdateFee(testOwner, big.NewInt(1))
	assert.ErrorIs(t, err, schema.ErrUnauthorized)
	assert.NoError(t, p.UpdateFee(newOwner, big.NewInt(1)))
}

func TestTransferOwnershipSurvivesRestart(t *testing.T) {
	boltDir := t.TempDir()
	sqliteDir := t.TempDir()
	newOwner := common.HexToAddress("0x4000000000000000000000000000000000000004")

	up := Upstream{
		Registry:      &fakeRegistry{owners: map[common.Hash]common.Address{}, resolvers: map[common.Hash]common.Address{}},
		BaseRegistrar: &fakeRegistrar{expiries: map[string]*big.Int{}},
		Controller:    newFakeController(),
		Transferor:    &fakeTransferor{},
	}

	p := New(boltDir, "", sqliteDir, true, false, "", "", "", "", "", testOwner, up, "", false)
	assert.NoError(t, p.TransferOwnership(testOwner, newOwner))
	p.Close()

	// the stored owner overrides the deploy flag on restart
	p2 := New(boltDir, "", sqliteDir, true, false, "", "", "", "", "", testOwner, up, "", false)
	t.Cleanup(p2.Close)
	assert.Equal(t, newOwner, p2.Owner())
}

func TestUpdateController(t *testing.T) {
	p, _ := newTestProxy(t)
	p.stateMu.Lock()
	p.controller = nil
	p.stateMu.Unlock()

	_, err := p.Available(context.Background(), "alice")
	assert.ErrorIs(t, err, schema.ErrNotConfigured)

	addr := common.HexToAddress("0x5000000000000000000000000000000000000005")
	err = p.UpdateController(testCaller, addr)
	assert.ErrorIs(t, err, schema.ErrUnauthorized)
	err = p.UpdateController(testOwner, common.Address{})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	assert.NoError(t, p.UpdateController(testOwner, addr))
	ok, err := p.Available(context.Background(), "alice")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSetContentHashByNode(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()
	node := common.HexToHash("0x6000000000000000000000000000000000000000000000000000000000000006")
	hash := []byte{0xe3, 0x01, 0x01, 0x70}

	err := p.SetContentHashByNode(ctx, testCaller, node, hash)
	assert.ErrorIs(t, err, schema.ErrUnauthorized)

	// no resolver bound to the node yet
	err = p.SetContentHashByNode(ctx, testOwner, node, hash)
	assert.ErrorIs(t, err, schema.ErrResolverNotSet)
	assert.Len(t, fakes.resolver.calls, 0)

	fakes.registry.resolvers[node] = common.HexToAddress("0x7000000000000000000000000000000000000007")
	assert.NoError(t, p.SetContentHashByNode(ctx, testOwner, node, hash))
	assert.Len(t, fakes.resolver.calls, 1)
	assert.Equal(t, node, fakes.resolver.calls[0].node)
	assert.Equal(t, hash, fakes.resolver.calls[0].hash)
}

func TestSetContentHashUpstreamRevert(t *testing.T) {
	p, fakes := newTestProxy(t)
	node := common.HexToHash("0x6000000000000000000000000000000000000000000000000000000000000006")
	fakes.registry.resolvers[node] = common.HexToAddress("0x7000000000000000000000000000000000000007")
	fakes.resolver.err = assert.AnError

	err := p.SetContentHashByNode(context.Background(), testOwner, node, []byte{0x01})
	assert.ErrorIs(t, err, assert.AnError)
}
