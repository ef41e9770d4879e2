package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/logscan/internal/domain"
)

// SignatureStore persists the error and warning sub-types seen across runs
type SignatureStore struct {
	mu         sync.RWMutex
	path       string
	clock      clock.Clock
	signatures map[string]*StoredSignature
}

// StoredSignature is one persisted sub-type
type StoredSignature struct {
	Category   domain.Category `json:"category"`
	SubType    string          `json:"sub_type"`
	FirstSeen  time.Time       `json:"first_seen"`
	LastSeen   time.Time       `json:"last_seen"`
	TotalCount int             `json:"total_count"`
	Runs       int             `json:"runs"`
}

// signaturesFile is the structure stored on disk
type signaturesFile struct {
	Version    int                         `json:"version"`
	Signatures map[string]*StoredSignature `json:"signatures"`
}

// SignatureMatch is a ranked sub-type annotated with what the store knew
// about it before this run
type SignatureMatch struct {
	Category   domain.Category `json:"category"`
	SubType    string          `json:"sub_type"`
	Count      int             `json:"count"`
	IsNew      bool            `json:"is_new"`
	FirstSeen  *time.Time      `json:"first_seen,omitempty"`
	TotalCount int             `json:"total_count,omitempty"`
}

// DefaultSignaturePath returns ~/.logscan/signatures.json
func DefaultSignaturePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".logscan", "signatures.json")
}

// NewSignatureStore opens the store at path (DefaultSignaturePath when empty).
// A missing file is an empty store; a corrupt file is an error.
func NewSignatureStore(path string, clk clock.Clock) (*SignatureStore, error) {
	if path == "" {
		path = DefaultSignaturePath()
	}
	if clk == nil {
		clk = clock.New()
	}

	store := &SignatureStore{
		path:       path,
		clock:      clk,
		signatures: make(map[string]*StoredSignature),
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func signatureKey(category domain.Category, subType string) string {
	return string(category) + ":" + subType
}

// Path returns the backing file
func (s *SignatureStore) Path() string {
	return s.path
}

// Load reads signatures from disk
func (s *SignatureStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read signature store: %w", err)
	}

	var file signaturesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse signature store %s: %w", s.path, err)
	}

	s.signatures = file.Signatures
	if s.signatures == nil {
		s.signatures = make(map[string]*StoredSignature)
	}
	return nil
}

// Save writes signatures to disk
func (s *SignatureStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(signaturesFile{
		Version:    1,
		Signatures: s.signatures,
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Record records count occurrences of a sub-type from one run.
// Returns true if the sub-type was not known before.
func (s *SignatureStore) Record(category domain.Category, subType string, count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(category, subType, count)
}

func (s *SignatureStore) recordLocked(category domain.Category, subType string, count int) bool {
	now := s.clock.Now()
	key := signatureKey(category, subType)
	if existing, ok := s.signatures[key]; ok {
		existing.LastSeen = now
		existing.TotalCount += count
		existing.Runs++
		return false
	}

	s.signatures[key] = &StoredSignature{
		Category:   category,
		SubType:    subType,
		FirstSeen:  now,
		LastSeen:   now,
		TotalCount: count,
		Runs:       1,
	}
	return true
}

// IsKnown returns true if the sub-type has been recorded before
func (s *SignatureStore) IsKnown(category domain.Category, subType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.signatures[signatureKey(category, subType)]
	return ok
}

// Get returns stored info about a sub-type, or nil
func (s *SignatureStore) Get(category domain.Category, subType string) *StoredSignature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signatures[signatureKey(category, subType)]
}

// All returns every stored signature ordered by category, then sub-type
func (s *SignatureStore) All() []*StoredSignature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*StoredSignature, 0, len(s.signatures))
	for _, sig := range s.signatures {
		result = append(result, sig)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].SubType < result[j].SubType
	})
	return result
}

// Count returns the number of stored signatures
func (s *SignatureStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signatures)
}

// Clear removes all stored signatures
func (s *SignatureStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures = make(map[string]*StoredSignature)
}

// Annotate marks every ranked sub-type of the snapshot as new or known
// without changing the store
func (s *SignatureStore) Annotate(snap domain.Snapshot) []SignatureMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []SignatureMatch
	for _, group := range rankedGroups(snap) {
		for _, c := range group.counts {
			m := SignatureMatch{
				Category: group.category,
				SubType:  c.SubType,
				Count:    c.Count,
				IsNew:    true,
			}
			if stored, ok := s.signatures[signatureKey(group.category, c.SubType)]; ok {
				first := stored.FirstSeen
				m.IsNew = false
				m.FirstSeen = &first
				m.TotalCount = stored.TotalCount
			}
			result = append(result, m)
		}
	}
	return result
}

// RecordSnapshot annotates the snapshot against the state before this run,
// then records it. Call Save to persist.
func (s *SignatureStore) RecordSnapshot(snap domain.Snapshot) []SignatureMatch {
	result := s.Annotate(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range result {
		s.recordLocked(result[i].Category, result[i].SubType, result[i].Count)
		stored := s.signatures[signatureKey(result[i].Category, result[i].SubType)]
		first := stored.FirstSeen
		result[i].FirstSeen = &first
		result[i].TotalCount = stored.TotalCount
	}
	return result
}

type rankedGroup struct {
	category domain.Category
	counts   []domain.Count
}

func rankedGroups(snap domain.Snapshot) []rankedGroup {
	return []rankedGroup{
		{category: domain.CategoryError, counts: snap.Errors},
		{category: domain.CategoryWarning, counts: snap.Warnings},
	}
}

// signatureIndex looks up a match by category and sub-type
type signatureIndex map[string]SignatureMatch

func indexSignatures(matches []SignatureMatch) signatureIndex {
	if len(matches) == 0 {
		return nil
	}
	idx := make(signatureIndex, len(matches))
	for _, m := range matches {
		idx[signatureKey(m.Category, m.SubType)] = m
	}
	return idx
}

func (idx signatureIndex) status(category domain.Category, subType string) string {
	if idx == nil {
		return ""
	}
	m, ok := idx[signatureKey(category, subType)]
	if !ok {
		return ""
	}
	if m.IsNew {
		return "NEW"
	}
	return "KNOWN"
}
