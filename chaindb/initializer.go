package chaindb

import (
	"github.com/sirupsen/logrus"

	"github.com/axiomchain/go-axiom/genesis"
)

// IsInitialized reports whether the database already has a canonical head.
// Only the specific "no canonical head" condition maps to false; any other
// read failure propagates.
func IsInitialized(db *ChainDB) (bool, error) {
	_, err := db.GetCanonicalHead()
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		// empty chain database
		return false, nil
	}
	return false, err
}

// Initialize persists the genesis header selected by the network profile
// when, and only when, the database has no canonical head yet. A second call
// on an initialized database is a no-op; an existing head is never
// overwritten. Persisting is delegated entirely to the chain database.
func Initialize(profile genesis.Profile, db *ChainDB) error {
	initialized, err := IsInitialized(db)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	header := profile.Genesis()
	if err := db.PersistHeader(header); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"network": profile.Name,
		"id":      profile.NetworkID,
		"genesis": header.Hash().Hex(),
	}).Info("initialized chain database with genesis header")
	return nil
}
