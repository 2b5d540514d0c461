package ensproxy

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/cache"
	ecommon "github.com/everFinance/ensproxy/common"
	"github.com/everFinance/ensproxy/schema"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
)

var log = ecommon.NewLog("ensproxy")

// Proxy mediates between end users and the upstream registrar controller:
// it re-quotes rent prices with a service fee on top, relays commit-reveal
// commitments, forwards registrations with the exact upstream value split and
// keeps the retained fees in a withdrawable treasury.
type Proxy struct {
	store  *Store
	wdb    *Wdb
	engine *gin.Engine

	// stateMu guards owner, serviceFee, treasury, the controller binding and
	// the reentrancy latch. It is never held across an upstream call.
	stateMu sync.Mutex
	// entered is the reentrancy latch for the two value-moving operations
	// (RegisterWithFee, Withdraw).
	entered bool

	owner      common.Address
	serviceFee *big.Int // wei, <= schema.MaxServiceFee
	treasury   *big.Int // wei retained from registrations

	registry      NameRegistry
	baseRegistrar BaseRegistrar
	controller    RegistrarController // nil until configured
	transferor    ValueTransferor
	newController ControllerFactory
	newResolver   ResolverFactory

	localCache *cache.Cache
	scheduler  *gocron.Scheduler
	events     *EventSink
}

func New(
	boltDirPath, mySqlDsn string, sqliteDir string, useSqlite bool,
	useS3 bool, s3AccKey, s3SecretKey, s3BucketPrefix, s3Region, s3Endpoint string,
	owner common.Address, up Upstream,
	kafkaUri string, enableKafka bool,
) *Proxy {
	var err error
	KVDb := &Store{}
	if useS3 {
		KVDb, err = NewS3Store(s3AccKey, s3SecretKey, s3Region, s3BucketPrefix, s3Endpoint)
	} else {
		KVDb, err = NewBoltStore(boltDirPath)
	}
	if err != nil {
		panic(err)
	}

	wdb := &Wdb{}
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	if owner == (common.Address{}) {
		panic(schema.ErrInvalidInput)
	}
	// a past ownership transfer overrides the deploy flag
	if stored, err := KVDb.LoadOwner(); err == nil {
		owner = stored
	}

	feeCfg, err := wdb.GetFeeConfig()
	if err != nil {
		panic(err)
	}
	serviceFee, ok := new(big.Int).SetString(feeCfg.ServiceFee, 10)
	if !ok || serviceFee.Cmp(schema.MaxServiceFee) > 0 {
		panic("invalid persisted service fee: " + feeCfg.ServiceFee)
	}

	treasury, err := KVDb.LoadTreasuryBalance()
	if err != nil {
		panic(err)
	}

	localCache, err := cache.NewLocalCache(time.Minute)
	if err != nil {
		panic(err)
	}

	events, err := NewEventSink(kafkaUri, enableKafka)
	if err != nil {
		panic(err)
	}

	p := &Proxy{
		store:         KVDb,
		wdb:           wdb,
		engine:        gin.Default(),
		owner:         owner,
		serviceFee:    serviceFee,
		treasury:      treasury,
		registry:      up.Registry,
		baseRegistrar: up.BaseRegistrar,
		controller:    up.Controller,
		transferor:    up.Transferor,
		newController: up.NewController,
		newResolver:   up.NewResolver,
		localCache:    localCache,
		scheduler:     gocron.NewScheduler(time.UTC),
		events:        events,
	}
	return p
}

func (s *Proxy) Run(port string) {
	go s.runAPI(port)
	go s.runJobs()
	ecommon.NewMetricServer()
}

func (s *Proxy) Close() {
	s.scheduler.Stop()
	s.events.Close()
	s.wdb.Close()
	if err := s.store.Close(); err != nil {
		log.Error("close audit store", "err", err)
	}
}

// Owner returns the current administrator identity.
func (s *Proxy) Owner() common.Address {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.owner
}

// GetFee returns the current service fee in wei.
func (s *Proxy) GetFee() *big.Int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return new(big.Int).Set(s.serviceFee)
}

// TreasuryBalance returns the retained fee balance in wei.
func (s *Proxy) TreasuryBalance() *big.Int {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return new(big.Int).Set(s.treasury)
}

// currentController snapshots the controller binding; controller-dependent
// operations fail closed while it is unset.
func (s *Proxy) currentController() (RegistrarController, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.controller == nil {
		return nil, schema.ErrNotConfigured
	}
	return s.controller, nil
}

// enter takes the reentrancy latch. A nested call into a latched operation
// fails immediately instead of deadlocking or double-spending.
func (s *Proxy) enter() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.entered {
		return schema.ErrReentrancyBlocked
	}
	s.entered = true
	return nil
}

func (s *Proxy) exit() {
	s.stateMu.Lock()
	s.entered = false
	s.stateMu.Unlock()
}
