package ensproxy

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/rawdb"
	"github.com/everFinance/ensproxy/schema"
	"github.com/google/uuid"
)

// Store is the append-only audit log plus the durable singletons (treasury
// snapshot, owner) over a pluggable KV backend.
type Store struct {
	KVDb rawdb.KeyValueDB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	boltDb, err := rawdb.NewBoltDB(boltDirPath)
	if err != nil {
		return nil, err
	}
	return &Store{
		KVDb: boltDb,
	}, nil
}

func NewS3Store(accKey, secretKey, region, bktPrefix, endpoint string) (*Store, error) {
	s3Db, err := rawdb.NewS3DB(accKey, secretKey, region, bktPrefix, endpoint)
	if err != nil {
		return nil, err
	}
	return &Store{
		KVDb: s3Db,
	}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

func (s *Store) SaveCommitAudit(event schema.CommitEvent) error {
	data, err := json.Marshal(&event)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d-%s", event.Timestamp, uuid.NewString())
	return s.KVDb.Put(schema.CommitAuditBucket, key, data)
}

func (s *Store) SaveRegisterAudit(event schema.RegisterEvent) error {
	data, err := json.Marshal(&event)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d-%s", event.Timestamp, uuid.NewString())
	return s.KVDb.Put(schema.RegisterAuditBucket, key, data)
}

func (s *Store) SaveTreasuryBalance(balance *big.Int) error {
	return s.KVDb.Put(schema.TreasuryBucket, schema.TreasuryBalanceKey, []byte(balance.String()))
}

// LoadTreasuryBalance returns the persisted balance, zero on a fresh store.
func (s *Store) LoadTreasuryBalance() (*big.Int, error) {
	data, err := s.KVDb.Get(schema.TreasuryBucket, schema.TreasuryBalanceKey)
	if err == schema.ErrNotExist {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	balance, ok := new(big.Int).SetString(string(data), 10)
	if !ok {
		return nil, fmt.Errorf("corrupt treasury snapshot: %s", string(data))
	}
	return balance, nil
}

func (s *Store) SaveOwner(owner common.Address) error {
	return s.KVDb.Put(schema.ConstantsBucket, schema.OwnerKey, owner.Bytes())
}

func (s *Store) LoadOwner() (common.Address, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.OwnerKey)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(data), nil
}
