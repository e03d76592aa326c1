// Package filestore persists invoices as a single JSON array on local disk.
//
// Every mutation rewrites the whole file through a temp-file rename under a
// store-wide mutex, so a crash mid-write never leaves a torn file and
// concurrent requests cannot lose each other's updates.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
)

type Store struct {
	path string

	mu       sync.Mutex
	invoices []*invoice.Invoice
}

// New opens the store at path, creating an empty data file if none exists.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.persistLocked(); err != nil {
			return nil, err
		}

		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	if err := json.Unmarshal(data, &s.invoices); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}

	return s, nil
}

// Path returns the location of the backing data file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ListInvoices(_ context.Context) ([]*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*invoice.Invoice, len(s.invoices))
	for i, inv := range s.invoices {
		c := *inv
		out[i] = &c
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	return out, nil
}

func (s *Store) GetInvoice(_ context.Context, id string) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, invoice.ErrNotFound
	}

	c := *s.invoices[idx]

	return &c, nil
}

func (s *Store) InsertInvoice(_ context.Context, inv *invoice.Invoice) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(inv.ID) >= 0 {
		return false, nil
	}

	c := *inv
	s.invoices = append(s.invoices, &c)

	if err := s.persistLocked(); err != nil {
		s.invoices = s.invoices[:len(s.invoices)-1]
		return false, err
	}

	return true, nil
}

func (s *Store) UpdateInvoice(_ context.Context, id string, patch invoice.Patch) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, invoice.ErrNotFound
	}

	merged := *s.invoices[idx]
	patch.Apply(&merged)

	prev := s.invoices[idx]
	s.invoices[idx] = &merged

	if err := s.persistLocked(); err != nil {
		s.invoices[idx] = prev
		return nil, err
	}

	c := merged

	return &c, nil
}

func (s *Store) DeleteInvoice(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	prev := s.invoices
	s.invoices = append(s.invoices[:idx:idx], s.invoices[idx+1:]...)

	if err := s.persistLocked(); err != nil {
		s.invoices = prev
		return err
	}

	return nil
}

func (s *Store) CountInvoices(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.invoices)), nil
}

func (s *Store) indexLocked(id string) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}

	return -1
}

// persistLocked writes the full record set to a temp file in the same
// directory and renames it over the data file. Callers must hold mu.
func (s *Store) persistLocked() error {
	records := s.invoices
	if records == nil {
		records = []*invoice.Invoice{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding invoices: %w", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".invoices-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing data file: %w", err)
	}

	return nil
}
