package sessions

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/capitalsync-io/capsync/internal/common"
	"github.com/capitalsync-io/capsync/internal/models"
)

// CacheVersion is bumped whenever the record layout changes. A cached
// record with a different version is treated as absent, forcing a
// fresh login rather than a decode guess.
const CacheVersion = 1

// CachedRecord is the durable form of one identity's session.
type CachedRecord struct {
	Version   int             `yaml:"version"`
	Timestamp time.Time       `yaml:"timestamp"`
	Session   *models.Session `yaml:"session"`
}

// Store persists one session record per account identity under a
// stable per-user directory. Concurrent writers are not supported;
// last writer wins.
type Store struct {
	lock sync.Mutex
	dir  string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the per-user session cache directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "capsync", "sessions"), nil
}

func (s *Store) pathFor(identity string) string {
	return filepath.Join(s.dir, common.CacheKeyForIdentity(identity)+".yaml")
}

// Load returns the cached session for an identity, or absent. A
// missing, truncated, or version-mismatched file degrades to absent so
// that a corrupt cache costs a fresh login, never a failure.
func (s *Store) Load(identity string) (*models.Session, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	path := s.pathFor(identity)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).WithFields(logrus.Fields{
				"path": path,
			}).Warnln("Failed to read session cache")
		}
		return nil, false
	}

	var record CachedRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path": path,
		}).Warnln("Failed to parse session cache, treating as absent")
		return nil, false
	}

	if record.Version != CacheVersion || record.Session == nil {
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"version": record.Version,
		}).Debugln("Session cache version mismatch, treating as absent")
		return nil, false
	}

	logrus.WithFields(logrus.Fields{
		"cachedAt": record.Timestamp,
		"cookies":  len(record.Session.Cookies),
	}).Debugln("Loaded session from cache")

	return record.Session, true
}

// Save writes the session record for an identity, replacing any
// previous record.
func (s *Store) Save(identity string, session *models.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := time.Now().UTC()
	session.CachedAt = now

	record := CachedRecord{
		Version:   CacheVersion,
		Timestamp: now,
		Session:   session,
	}

	data, err := yaml.Marshal(&record)
	if err != nil {
		return err
	}

	path := s.pathFor(identity)

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"cookies": len(session.Cookies),
	}).Debugln("Caching session")

	// Only allow read/write access to the owner
	return os.WriteFile(path, data, 0600)
}

// Remove deletes the cached record for an identity. Removing an
// absent record is not an error.
func (s *Store) Remove(identity string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := os.Remove(s.pathFor(identity))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
