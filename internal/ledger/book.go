// Package ledger owns the application state: the three record
// containers and every action that mutates them. Mutations go through
// Service, which flushes the serialized book to the persistence sink
// before the change becomes visible.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"owura/internal/core"
)

// Book is the full in-memory state of the ledger.
type Book struct {
	Debtors  []core.Debtor
	Profits  []core.ProfitEntry
	Payments []core.Payment
}

// Snapshot is the persisted and exported document shape.
type Snapshot struct {
	Debtors    []core.Debtor      `json:"debtors"`
	Profits    []core.ProfitEntry `json:"profits"`
	Payments   []core.Payment     `json:"payments"`
	ExportDate string             `json:"exportDate,omitempty"`
}

// importDoc distinguishes absent keys from present-but-empty arrays:
// only containers present in the document replace state.
type importDoc struct {
	Debtors  *[]core.Debtor      `json:"debtors"`
	Profits  *[]core.ProfitEntry `json:"profits"`
	Payments *[]core.Payment     `json:"payments"`
}

// Clone returns a deep-enough copy of the book: fresh slices, shared
// immutable records.
func (b Book) Clone() Book {
	return Book{
		Debtors:  append([]core.Debtor(nil), b.Debtors...),
		Profits:  append([]core.ProfitEntry(nil), b.Profits...),
		Payments: append([]core.Payment(nil), b.Payments...),
	}
}

func (b Book) snapshot() Snapshot {
	return Snapshot{
		Debtors:  emptyNotNil(b.Debtors),
		Profits:  emptyNotNil(b.Profits),
		Payments: emptyNotNil(b.Payments),
	}
}

// emptyNotNil keeps empty containers as [] in the document instead of null.
func emptyNotNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	doc, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return doc, nil
}

func decodeBook(doc []byte) (Book, error) {
	var snap Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return Book{}, fmt.Errorf("%w: %v", core.ErrParse, err)
	}
	book := Book{Debtors: snap.Debtors, Profits: snap.Profits, Payments: snap.Payments}
	return book, nil
}

// normalize defaults fields that older or hand-edited documents may
// omit: records without an id get a fresh one, records without a
// creation timestamp get the given fallback.
func (b *Book) normalize(newID func() string, fallback time.Time) {
	for i := range b.Debtors {
		if strings.TrimSpace(b.Debtors[i].ID) == "" {
			b.Debtors[i].ID = newID()
		}
		if b.Debtors[i].CreatedAt.IsZero() {
			b.Debtors[i].CreatedAt = fallback
		}
	}
	for i := range b.Profits {
		if strings.TrimSpace(b.Profits[i].ID) == "" {
			b.Profits[i].ID = newID()
		}
		if b.Profits[i].CreatedAt.IsZero() {
			b.Profits[i].CreatedAt = fallback
		}
	}
	for i := range b.Payments {
		if strings.TrimSpace(b.Payments[i].ID) == "" {
			b.Payments[i].ID = newID()
		}
		if b.Payments[i].CreatedAt.IsZero() {
			b.Payments[i].CreatedAt = fallback
		}
	}
}
