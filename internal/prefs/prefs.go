// Package prefs stores process-wide display preferences, kept apart from
// ledger state.
package prefs

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/mmynk/splitledger/internal/storage"
)

// Preferences holds the color-mode flag. It is persisted as "true" or "false".
type Preferences struct {
	mu       sync.Mutex
	store    storage.Store
	darkMode bool
}

// Load reads the stored preferences. A missing value means light mode.
func Load(ctx context.Context, store storage.Store) (*Preferences, error) {
	p := &Preferences{store: store}

	data, ok, err := store.Load(ctx, storage.CollectionDarkMode)
	if err != nil {
		return nil, fmt.Errorf("failed to load dark mode preference: %w", err)
	}
	if ok {
		// Anything other than "true" is light mode.
		p.darkMode, _ = strconv.ParseBool(string(data))
	}

	return p, nil
}

// DarkMode reports whether dark mode is on.
func (p *Preferences) DarkMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.darkMode
}

// SetDarkMode stores the flag.
func (p *Preferences) SetDarkMode(ctx context.Context, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set(ctx, on)
}

// Toggle flips the flag and returns the new value.
func (p *Preferences) Toggle(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.set(ctx, !p.darkMode); err != nil {
		return p.darkMode, err
	}
	return p.darkMode, nil
}

func (p *Preferences) set(ctx context.Context, on bool) error {
	err := p.store.Save(ctx, storage.Document{
		Collection: storage.CollectionDarkMode,
		Data:       []byte(strconv.FormatBool(on)),
	})
	if err != nil {
		return fmt.Errorf("failed to save dark mode preference: %w", err)
	}
	p.darkMode = on
	return nil
}
