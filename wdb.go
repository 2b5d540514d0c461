package ensproxy

import (
	"os"
	"path"

	"github.com/everFinance/ensproxy/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "proxy.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.CommitRecord{}, &schema.RegistrationRecord{}, &schema.FeeConfig{})
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

func (w *Wdb) InsertCommitRecord(record schema.CommitRecord) error {
	return w.Db.Create(&record).Error
}

func (w *Wdb) InsertRegistrationRecord(record schema.RegistrationRecord) error {
	return w.Db.Create(&record).Error
}

func (w *Wdb) GetCommitsBySubmitter(submitter string, num, from int) ([]schema.CommitRecord, error) {
	records := make([]schema.CommitRecord, 0, num)
	err := w.Db.Model(&schema.CommitRecord{}).
		Where("submitter = ?", submitter).
		Order("id desc").Offset(from).Limit(num).
		Find(&records).Error
	return records, err
}

func (w *Wdb) GetRegistrationsByCaller(caller string, num, from int) ([]schema.RegistrationRecord, error) {
	records := make([]schema.RegistrationRecord, 0, num)
	err := w.Db.Model(&schema.RegistrationRecord{}).
		Where("caller = ?", caller).
		Order("id desc").Offset(from).Limit(num).
		Find(&records).Error
	return records, err
}

func (w *Wdb) GetRegistrationByName(name string) (res schema.RegistrationRecord, err error) {
	err = w.Db.Model(&schema.RegistrationRecord{}).Where("name = ?", name).Order("id desc").First(&res).Error
	return
}

// GetFeeConfig returns the persisted service fee, defaulting to zero on a
// fresh database.
func (w *Wdb) GetFeeConfig() (fee schema.FeeConfig, err error) {
	err = w.Db.First(&fee).Error
	if err == gorm.ErrRecordNotFound {
		fee = schema.FeeConfig{
			ID:         1,
			ServiceFee: "0",
		}
		return fee, nil
	}
	return
}

func (w *Wdb) UpdateFeeConfig(serviceFee string) error {
	feeCfg := &schema.FeeConfig{
		ID:         1,
		ServiceFee: serviceFee,
	}
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(feeCfg).Error
}
