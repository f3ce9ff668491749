package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/hvillar/gastos/internal/domain"
)

// Bucket names
var (
	bucketAccounts = []byte("accounts")
	bucketExpenses = []byte("expenses")
	bucketRules    = []byte("rules")
)

// ExpenseStore implements domain.Store using BoltDB.
type ExpenseStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewExpenseStore opens the on-disk cache under baseCacheDir, keyed by
// server so switching servers never mixes data. An empty baseCacheDir
// gives a memory-only store with no persistence.
func NewExpenseStore(baseCacheDir, serverURL string) (*ExpenseStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &ExpenseStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "gastos.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAccounts, bucketExpenses, bucketRules} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ExpenseStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *ExpenseStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ExpenseStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ExpenseStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *ExpenseStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	// Clear from memory cache
	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete from BoltDB
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *ExpenseStore) deletePrefix(bucket []byte, prefix string) {
	// Clear from memory cache
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete from BoltDB using prefix scan
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Accounts ===

func (s *ExpenseStore) GetAccounts() ([]domain.Account, bool) {
	var accounts []domain.Account
	ok := s.get(bucketAccounts, "list", &accounts)
	return accounts, ok
}

func (s *ExpenseStore) SaveAccounts(accounts []domain.Account) error {
	return s.set(bucketAccounts, "list", accounts)
}

// === Expenses (keyed by month: month:{2025-07}) ===

func (s *ExpenseStore) GetExpenses(month string) ([]domain.Expense, bool) {
	var expenses []domain.Expense
	ok := s.get(bucketExpenses, "month:"+month, &expenses)
	return expenses, ok
}

func (s *ExpenseStore) SaveExpenses(month string, expenses []domain.Expense, serverTS int64) error {
	// Save data
	if err := s.set(bucketExpenses, "month:"+month, expenses); err != nil {
		return err
	}
	// Save timestamp separately for freshness checks
	return s.set(bucketExpenses, "month:"+month+":ts", serverTS)
}

// === Rules ===

func (s *ExpenseStore) GetRules() ([]domain.Rule, bool) {
	var rules []domain.Rule
	ok := s.get(bucketRules, "list", &rules)
	return rules, ok
}

func (s *ExpenseStore) SaveRules(rules []domain.Rule) error {
	return s.set(bucketRules, "list", rules)
}

// === Validation ===

// IsValid reports whether the stored month is at least as fresh as
// minTS (unix seconds)
func (s *ExpenseStore) IsValid(month string, minTS int64) bool {
	var storedTS int64
	if !s.get(bucketExpenses, "month:"+month+":ts", &storedTS) {
		return false
	}
	return storedTS >= minTS
}

// === Invalidation ===

// InvalidateMonth wipes one month's expenses and freshness marker
func (s *ExpenseStore) InvalidateMonth(month string) {
	s.deletePrefix(bucketExpenses, "month:"+month)
}

func (s *ExpenseStore) InvalidateRules() {
	s.delete(bucketRules, "list")
}

func (s *ExpenseStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete all data from all buckets
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAccounts, bucketExpenses, bucketRules} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
