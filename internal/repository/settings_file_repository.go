package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/noah-isme/fee-tracker-console/pkg/storage"
)

const settingsDocument = "settings.json"

// FileSettingsRepository keeps every setting in a single JSON document on disk.
type FileSettingsRepository struct {
	mu    sync.Mutex
	store *storage.LocalStorage
}

// NewFileSettingsRepository constructs a file backed settings store.
func NewFileSettingsRepository(store *storage.LocalStorage) *FileSettingsRepository {
	return &FileSettingsRepository{store: store}
}

// Get returns the stored value and whether it was present.
func (r *FileSettingsRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set rewrites the document with the new value.
func (r *FileSettingsRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = value
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if _, err := r.store.Save(settingsDocument, payload); err != nil {
		return err
	}
	return nil
}

func (r *FileSettingsRepository) read() (map[string]string, error) {
	values := map[string]string{}
	raw, err := r.store.Read(settingsDocument)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return values, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return values, nil
}

// MemorySettingsRepository is an in-process settings store.
type MemorySettingsRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettingsRepository constructs an empty in-memory store.
func NewMemorySettingsRepository() *MemorySettingsRepository {
	return &MemorySettingsRepository{values: map[string]string{}}
}

// Get returns the stored value and whether it was present.
func (r *MemorySettingsRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	return value, ok, nil
}

// Set stores the value.
func (r *MemorySettingsRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}
