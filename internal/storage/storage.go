package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Package storage keeps a local journal of backend calls. It is never read
// before a request is issued.

// ErrNotFound is returned by Get for unknown or expired records.
var ErrNotFound = errors.New("history record not found")

// Record kinds.
const (
	KindRecommendation = "recommendation"
	KindDietPlan       = "diet_plan"
)

// Record is one completed backend call.
type Record struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Request    json.RawMessage `json:"request"`
	Response   json.RawMessage `json:"response"`
	StatusCode int             `json:"status_code"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store persists history records.
type Store interface {
	Close() error
	Put(rec Record) error
	Get(id string) (Record, error)
	// List returns unexpired records, newest first. limit <= 0 means all.
	List(limit int) ([]Record, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error               { return nil }
func (noopStore) Put(Record) error           { return nil }
func (noopStore) Get(string) (Record, error) { return Record{}, ErrNotFound }
func (noopStore) List(int) ([]Record, error) { return nil, nil }
