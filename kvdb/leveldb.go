package kvdb

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB is a Store backed by an on-disk LevelDB instance.
type LevelDB struct {
	path string
	db   *leveldb.DB
	log  logrus.FieldLogger
}

// OpenLevelDB opens (or creates) a LevelDB store at path, sized according to
// the preset's cache and file-handle budgets.
func OpenLevelDB(path string, preset Preset) (*LevelDB, error) {
	options := &opt.Options{
		OpenFilesCacheCapacity: preset.Handles,
		BlockCacheCapacity:     preset.CacheMB / 2 * opt.MiB,
		WriteBuffer:            preset.CacheMB / 4 * opt.MiB,
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}
	log := logrus.WithField("db", path)
	log.WithFields(logrus.Fields{
		"preset":  preset.Name,
		"cacheMB": preset.CacheMB,
		"handles": preset.Handles,
	}).Debug("opened chain database")
	return &LevelDB{path: path, db: db, log: log}, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, nil)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *LevelDB) Close() error {
	l.log.Debug("closing chain database")
	return l.db.Close()
}
