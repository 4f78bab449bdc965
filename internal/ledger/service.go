package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"owura/internal/core"
)

// Sink is the persistence boundary: one serialized document, last
// writer wins.
type Sink interface {
	Load(ctx context.Context) (doc []byte, found bool, err error)
	Save(ctx context.Context, doc []byte) error
}

// Service owns the book and serializes every mutation. Each action
// builds the next book, flushes it to the sink, and only then commits
// it, so a failed save leaves no visible effect.
type Service struct {
	mu   sync.Mutex
	book Book
	sink Sink

	seedDemo bool
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithSeedDemo controls whether an empty sink is seeded with the demo
// dataset on Load.
func WithSeedDemo(seed bool) Option {
	return func(s *Service) { s.seedDemo = seed }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides record id generation, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(sink Sink, opts ...Option) *Service {
	s := &Service{
		sink:     sink,
		seedDemo: true,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted document into memory. An empty sink falls
// back to the demo dataset (when enabled) and writes it through.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, found, err := s.sink.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if !found {
		book := Book{}
		if s.seedDemo {
			book = demoBook(s.now(), s.newID)
		}
		if err := s.flush(ctx, book); err != nil {
			return err
		}
		s.book = book
		slog.InfoContext(ctx, "Ledger initialized",
			"debtors", len(book.Debtors), "profits", len(book.Profits), "payments", len(book.Payments),
			"seeded", s.seedDemo)
		return nil
	}

	book, err := decodeBook(doc)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	book.normalize(s.newID, s.now())
	s.book = book
	slog.InfoContext(ctx, "Ledger loaded",
		"debtors", len(book.Debtors), "profits", len(book.Profits), "payments", len(book.Payments))
	return nil
}

// Book returns a copy of the current state.
func (s *Service) Book() Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Clone()
}

// DebtorInput carries the editable fields of a debtor.
type DebtorInput struct {
	Name    string
	Contact string
	Amount  core.Money
	DueDate core.Date
	Notes   string
}

// ProfitInput carries the editable fields of a profit entry.
type ProfitInput struct {
	Date        core.Date
	Description string
	Category    string
	Amount      core.Money
	Method      core.Method
}

func (s *Service) AddDebtor(ctx context.Context, in DebtorInput) (core.Debtor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := core.Debtor{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Contact:   strings.TrimSpace(in.Contact),
		Amount:    in.Amount,
		Paid:      core.Money{},
		DueDate:   in.DueDate,
		Notes:     in.Notes,
		CreatedAt: s.now(),
	}
	if err := d.Validate(); err != nil {
		return core.Debtor{}, err
	}

	next := s.book.Clone()
	next.Debtors = append(next.Debtors, d)
	if err := s.flush(ctx, next); err != nil {
		return core.Debtor{}, err
	}
	s.book = next
	slog.InfoContext(ctx, "Debtor added", "id", d.ID, "name", d.Name, "amount_cents", d.Amount.Cents)
	return d, nil
}

// EditDebtor overwrites the editable fields of an existing debtor.
// Paid is untouched; only payments move it.
func (s *Service) EditDebtor(ctx context.Context, id string, in DebtorInput) (core.Debtor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.book.Clone()
	idx := findDebtor(next.Debtors, id)
	if idx < 0 {
		return core.Debtor{}, fmt.Errorf("edit debtor %s: %w", id, core.ErrNotFound)
	}

	d := next.Debtors[idx]
	d.Name = strings.TrimSpace(in.Name)
	d.Contact = strings.TrimSpace(in.Contact)
	d.Amount = in.Amount
	d.DueDate = in.DueDate
	d.Notes = in.Notes
	if err := d.Validate(); err != nil {
		return core.Debtor{}, err
	}
	next.Debtors[idx] = d

	if err := s.flush(ctx, next); err != nil {
		return core.Debtor{}, err
	}
	s.book = next
	slog.InfoContext(ctx, "Debtor updated", "id", d.ID, "name", d.Name)
	return d, nil
}

// DeleteDebtor removes the debtor and cascades to every payment
// referencing it.
func (s *Service) DeleteDebtor(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.book.Clone()
	idx := findDebtor(next.Debtors, id)
	if idx < 0 {
		return fmt.Errorf("delete debtor %s: %w", id, core.ErrNotFound)
	}
	next.Debtors = append(next.Debtors[:idx], next.Debtors[idx+1:]...)

	kept := next.Payments[:0]
	removed := 0
	for _, p := range next.Payments {
		if p.DebtorID == id {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	next.Payments = kept

	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.book = next
	slog.InfoContext(ctx, "Debtor deleted", "id", id, "payments_removed", removed)
	return nil
}

// RecordPayment appends a payment and increments the owning debtor's
// paid amount in the same commit.
func (s *Service) RecordPayment(ctx context.Context, debtorID string, amount core.Money, date core.Date, method core.Method, notes string) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.book.Clone()
	idx := findDebtor(next.Debtors, debtorID)
	if idx < 0 {
		return core.Payment{}, fmt.Errorf("record payment for %s: %w", debtorID, core.ErrNotFound)
	}

	p := core.Payment{
		ID:        s.newID(),
		DebtorID:  debtorID,
		Amount:    amount,
		Date:      date,
		Method:    method,
		Notes:     notes,
		CreatedAt: s.now(),
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	next.Payments = append(next.Payments, p)
	next.Debtors[idx].Paid = next.Debtors[idx].Paid.Add(amount)

	if err := s.flush(ctx, next); err != nil {
		return core.Payment{}, err
	}
	s.book = next
	slog.InfoContext(ctx, "Payment recorded",
		"id", p.ID, "debtor_id", debtorID, "amount_cents", amount.Cents, "method", string(method))
	return p, nil
}

func (s *Service) AddProfit(ctx context.Context, in ProfitInput) (core.ProfitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.ProfitEntry{
		ID:          s.newID(),
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Method:      in.Method,
		CreatedAt:   s.now(),
	}
	if err := p.Validate(); err != nil {
		return core.ProfitEntry{}, err
	}

	next := s.book.Clone()
	next.Profits = append(next.Profits, p)
	if err := s.flush(ctx, next); err != nil {
		return core.ProfitEntry{}, err
	}
	s.book = next
	slog.InfoContext(ctx, "Profit added", "id", p.ID, "description", p.Description, "amount_cents", p.Amount.Cents)
	return p, nil
}

func (s *Service) EditProfit(ctx context.Context, id string, in ProfitInput) (core.ProfitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.book.Clone()
	idx := findProfit(next.Profits, id)
	if idx < 0 {
		return core.ProfitEntry{}, fmt.Errorf("edit profit %s: %w", id, core.ErrNotFound)
	}

	p := next.Profits[idx]
	p.Date = in.Date
	p.Description = strings.TrimSpace(in.Description)
	p.Category = strings.TrimSpace(in.Category)
	p.Amount = in.Amount
	p.Method = in.Method
	if err := p.Validate(); err != nil {
		return core.ProfitEntry{}, err
	}
	next.Profits[idx] = p

	if err := s.flush(ctx, next); err != nil {
		return core.ProfitEntry{}, err
	}
	s.book = next
	slog.InfoContext(ctx, "Profit updated", "id", p.ID, "description", p.Description)
	return p, nil
}

func (s *Service) DeleteProfit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.book.Clone()
	idx := findProfit(next.Profits, id)
	if idx < 0 {
		return fmt.Errorf("delete profit %s: %w", id, core.ErrNotFound)
	}
	next.Profits = append(next.Profits[:idx], next.Profits[idx+1:]...)

	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.book = next
	slog.InfoContext(ctx, "Profit deleted", "id", id)
	return nil
}

// FilterDebtors returns debtors matching a case-insensitive name or
// contact search and, when status is non-empty, the given derived
// status at time today.
func (s *Service) FilterDebtors(search string, status core.Status, today time.Time) []core.Debtor {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))
	var out []core.Debtor
	for _, d := range s.book.Debtors {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(d.Contact), search) {
			continue
		}
		if status != "" && core.DebtorStatus(d, today) != status {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterProfits returns profit entries matching a case-insensitive
// description search and, when category is non-empty, the exact
// category.
func (s *Service) FilterProfits(search, category string) []core.ProfitEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))
	var out []core.ProfitEntry
	for _, p := range s.book.Profits {
		if search != "" && !strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExportSnapshot serializes the current state plus an export timestamp.
func (s *Service) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.snapshot()
	snap.ExportDate = s.now().UTC().Format(time.RFC3339)
	return encodeSnapshot(snap)
}

// ImportSnapshot replaces the containers present in the document and
// leaves absent ones untouched. The document is decoded fully before
// any state changes; a malformed document mutates nothing.
func (s *Service) ImportSnapshot(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var in importDoc
	if err := json.Unmarshal(doc, &in); err != nil {
		return fmt.Errorf("%w: %v", core.ErrParse, err)
	}

	next := s.book.Clone()
	if in.Debtors != nil {
		next.Debtors = append([]core.Debtor(nil), (*in.Debtors)...)
	}
	if in.Profits != nil {
		next.Profits = append([]core.ProfitEntry(nil), (*in.Profits)...)
	}
	if in.Payments != nil {
		next.Payments = append([]core.Payment(nil), (*in.Payments)...)
	}
	next.normalize(s.newID, s.now())

	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.book = next
	slog.InfoContext(ctx, "Snapshot imported",
		"debtors", len(next.Debtors), "profits", len(next.Profits), "payments", len(next.Payments),
		"debtors_replaced", in.Debtors != nil,
		"profits_replaced", in.Profits != nil,
		"payments_replaced", in.Payments != nil)
	return nil
}

// flush must be called with the lock held.
func (s *Service) flush(ctx context.Context, book Book) error {
	doc, err := encodeSnapshot(book.snapshot())
	if err != nil {
		return err
	}
	if err := s.sink.Save(ctx, doc); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func findDebtor(debtors []core.Debtor, id string) int {
	for i, d := range debtors {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func findProfit(profits []core.ProfitEntry, id string) int {
	for i, p := range profits {
		if p.ID == id {
			return i
		}
	}
	return -1
}
