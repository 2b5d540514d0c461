package ensproxy

import (
	"testing"

	"github.com/everFinance/ensproxy/schema"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func newTestWdb(t *testing.T) *Wdb {
	t.Helper()
	wdb := NewSqliteDb(t.TempDir())
	assert.NoError(t, wdb.Migrate())
	t.Cleanup(wdb.Close)
	return wdb
}

func TestWdbCommitRecords(t *testing.T) {
	wdb := newTestWdb(t)
	for _, name := range []string{"alice", "bob", "carol"} {
		assert.NoError(t, wdb.InsertCommitRecord(schema.CommitRecord{
			Name:       name,
			Submitter:  testCaller.Hex(),
			Commitment: "0xabc",
		}))
	}
	assert.NoError(t, wdb.InsertCommitRecord(schema.CommitRecord{
		Name:      "dave",
		Submitter: testOwner.Hex(),
	}))

	records, err := wdb.GetCommitsBySubmitter(testCaller.Hex(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	// newest first
	assert.Equal(t, "carol", records[0].Name)

	records, err = wdb.GetCommitsBySubmitter(testCaller.Hex(), 2, 1)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "bob", records[0].Name)
}

func TestWdbRegistrationRecords(t *testing.T) {
	wdb := newTestWdb(t)
	assert.NoError(t, wdb.InsertRegistrationRecord(schema.RegistrationRecord{
		Name:      "alice",
		Caller:    testCaller.Hex(),
		Owner:     testCaller.Hex(),
		Duration:  31536000,
		Base:      "5000",
		Premium:   "300",
		Paid:      "5377",
		TotalCost: "5377",
		Data:      datatypes.JSON([]byte(`["0x0102"]`)),
		Timestamp: 1000,
	}))

	record, err := wdb.GetRegistrationByName("alice")
	assert.NoError(t, err)
	assert.Equal(t, "5377", record.TotalCost)

	records, err := wdb.GetRegistrationsByCaller(testCaller.Hex(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = wdb.GetRegistrationByName("missing")
	assert.Error(t, err)
}

func TestWdbFeeConfig(t *testing.T) {
	wdb := newTestWdb(t)

	// fresh db defaults to a zero fee
	fee, err := wdb.GetFeeConfig()
	assert.NoError(t, err)
	assert.Equal(t, "0", fee.ServiceFee)

	assert.NoError(t, wdb.UpdateFeeConfig("777"))
	fee, err = wdb.GetFeeConfig()
	assert.NoError(t, err)
	assert.Equal(t, "777", fee.ServiceFee)

	// upsert keeps the singleton row
	assert.NoError(t, wdb.UpdateFeeConfig("888"))
	fee, err = wdb.GetFeeConfig()
	assert.NoError(t, err)
	assert.Equal(t, "888", fee.ServiceFee)
}
