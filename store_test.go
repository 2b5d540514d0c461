package ensproxy

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/everFinance/ensproxy/schema"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAudits(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.SaveCommitAudit(schema.CommitEvent{
		Name:       "alice",
		Submitter:  testCaller.Hex(),
		Commitment: "0xabc",
		Timestamp:  1000,
	}))
	assert.NoError(t, store.SaveRegisterAudit(schema.RegisterEvent{
		Name:      "alice",
		Caller:    testCaller.Hex(),
		Owner:     testCaller.Hex(),
		TotalCost: "5377",
		Timestamp: 2000,
	}))

	keys, err := store.KVDb.GetAllKey(schema.CommitAuditBucket)
	assert.NoError(t, err)
	assert.Len(t, keys, 1)

	keys, err = store.KVDb.GetAllKey(schema.RegisterAuditBucket)
	assert.NoError(t, err)
	assert.Len(t, keys, 1)
	data, err := store.KVDb.Get(schema.RegisterAuditBucket, keys[0])
	assert.NoError(t, err)
	event := schema.RegisterEvent{}
	assert.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "5377", event.TotalCost)
}

func TestStoreTreasurySnapshot(t *testing.T) {
	store := newTestStore(t)

	// fresh store reads back zero
	balance, err := store.LoadTreasuryBalance()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), balance.Int64())

	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.NoError(t, store.SaveTreasuryBalance(want))
	balance, err = store.LoadTreasuryBalance()
	assert.NoError(t, err)
	assert.Equal(t, want.String(), balance.String())
}

func TestStoreOwner(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadOwner()
	assert.ErrorIs(t, err, schema.ErrNotExist)

	assert.NoError(t, store.SaveOwner(testOwner))
	owner, err := store.LoadOwner()
	assert.NoError(t, err)
	assert.Equal(t, testOwner, owner)
}
