package store

import "github.com/LeoncioDev/github-analyzer/internal/model"

// NopStore is used when the preference should not be persisted. It never
// has a stored theme and discards saves.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) LoadTheme() (model.Theme, bool, error) { return "", false, nil }
func (s *NopStore) SaveTheme(model.Theme) error           { return nil }
func (s *NopStore) Close() error                          { return nil }
