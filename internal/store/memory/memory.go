package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"artha/internal/core"
)

// SeedFile is read from the data directory by NewFromFiles.
const SeedFile = "seed_expenses.txt"

type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	version uint64
}

func New(seed []core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

// NewFromFiles seeds the store from <base>/seed_expenses.txt. Each line is
// "date,amount,category[,notes]"; blanks, comments and malformed lines are skipped.
func NewFromFiles(base string) *Store {
	var seed []core.Expense
	for _, line := range readLines(filepath.Join(base, SeedFile)) {
		e, err := parseSeedLine(line)
		if err != nil {
			continue
		}
		seed = append(seed, e)
	}
	return New(seed)
}

func (s *Store) RowsForDate(_ context.Context, date core.Date) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.items {
		if e.Date.Equal(date.Time) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	s.version++
	return nil
}

func (s *Store) DeleteForDate(_ context.Context, date core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(date)
	s.version++
	return nil
}

// ReplaceDay swaps every row of date for expenses under a single lock.
func (s *Store) ReplaceDay(_ context.Context, date core.Date, expenses []core.Expense) error {
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(date)
	s.items = append(s.items, expenses...)
	s.version++
	return nil
}

func (s *Store) CategoryTotals(_ context.Context, start, end core.Date) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		out   []core.CategoryTotal
		index = map[string]int{}
	)
	for _, e := range s.items {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		key := strings.ToLower(e.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, core.CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out, nil
}

// DataVersion changes on every write.
func (s *Store) DataVersion(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatUint(s.version, 10), nil
}

func (s *Store) MonthlyTotals(_ context.Context) ([]core.MonthTotalRaw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byMonth := map[time.Month]decimal.Decimal{}
	for _, e := range s.items {
		m := e.Date.Month()
		byMonth[m] = byMonth[m].Add(e.Amount)
	}
	out := make([]core.MonthTotalRaw, 0, len(byMonth))
	for m, total := range byMonth {
		out = append(out, core.MonthTotalRaw{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *Store) deleteLocked(date core.Date) {
	kept := s.items[:0]
	for _, e := range s.items {
		if !e.Date.Equal(date.Time) {
			kept = append(kept, e)
		}
	}
	s.items = kept
}

func parseSeedLine(line string) (core.Expense, error) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) < 3 {
		return core.Expense{}, fmt.Errorf("want at least 3 fields, got %d", len(parts))
	}
	date, err := core.ParseDate(parts[0])
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := core.ParseAmount(parts[1])
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{Date: date, Amount: amount, Category: strings.TrimSpace(parts[2])}
	if len(parts) == 4 {
		e.Notes = strings.TrimSpace(parts[3])
	}
	return e, e.Validate()
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
