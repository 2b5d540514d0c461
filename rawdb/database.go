package rawdb

import (
	"github.com/everFinance/ensproxy/common"
)

var log = common.NewLog("rawdb")

// KeyValueDB backs the proxy audit store: commitment submissions,
// registration receipts and the treasury snapshot.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}
