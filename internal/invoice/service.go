package invoice

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	ListInvoices(ctx context.Context) ([]*Invoice, error)
	GetInvoice(ctx context.Context, id string) (*Invoice, error)

	// InsertInvoice persists inv unless a record with its id already
	// exists, in which case it reports created=false without touching
	// storage.
	InsertInvoice(ctx context.Context, inv *Invoice) (created bool, err error)

	// UpdateInvoice merges the patch into the stored record and returns
	// the merged result, or ErrNotFound.
	UpdateInvoice(ctx context.Context, id string, patch Patch) (*Invoice, error)

	// DeleteInvoice removes the record if present. Deleting an unknown id
	// is not an error.
	DeleteInvoice(ctx context.Context, id string) error

	CountInvoices(ctx context.Context) (int64, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns all invoices, newest upload first.
func (s *Service) List(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// Create inserts the invoice if no record with its id exists yet. The
// returned bool reports whether a new record was written; a duplicate id is
// a no-op so client retries stay idempotent. UploadedAt is stamped here and
// the capped text fields are truncated before hitting storage.
func (s *Service) Create(ctx context.Context, inv Invoice) (*Invoice, bool, error) {
	if inv.ID == "" {
		return nil, false, ErrMissingID
	}

	inv.InvoiceNumber = truncate(inv.InvoiceNumber, MaxInvoiceNumberLen)
	inv.ClientName = truncate(inv.ClientName, MaxClientNameLen)

	if inv.Category == "" {
		inv.Category = DefaultCategory
	}

	inv.UploadedAt = s.now().UTC()

	created, err := s.repo.InsertInvoice(ctx, &inv)
	if err != nil {
		return nil, false, err
	}

	return &inv, created, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Invoice, error) {
	return s.repo.UpdateInvoice(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.CountInvoices(ctx)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	return string(r[:max])
}
