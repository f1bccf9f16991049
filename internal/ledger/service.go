// Package ledger implements the query and mutation operations over an
// open ledger store: account resolution, balance computation, and
// balanced double-entry transaction construction.
package ledger

import (
	"sort"

	"github.com/bookwright-dev/bookwright/internal/model"
	"github.com/bookwright-dev/bookwright/internal/session"
)

// Service serves ledger operations against the session manager's
// currently open store.
type Service struct {
	sessions *session.Manager
}

// NewService creates a Service bound to a session manager.
func NewService(sessions *session.Manager) *Service {
	return &Service{sessions: sessions}
}

// Sessions exposes the underlying session manager for lifecycle
// operations (open, close, save).
func (s *Service) Sessions() *session.Manager { return s.sessions }

// ListAccounts returns every account in the open store, sorted by full
// path. Stable across calls while the tree is unchanged.
func (s *Service) ListAccounts() ([]*model.Account, error) {
	b, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	accounts := b.Root().Descendants()
	sorted := make([]*model.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FullName() < sorted[j].FullName()
	})
	return sorted, nil
}

// FindAccount resolves a single account by name (three-tier matching).
func (s *Service) FindAccount(name string) (*model.Account, error) {
	b, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	acc := Resolve(b.Root(), name)
	if acc == nil {
		return nil, &NotFoundError{Name: name}
	}
	return acc, nil
}

// SearchAccounts returns all substring matches for query, sorted by full
// path.
func (s *Service) SearchAccounts(query string) ([]*model.Account, error) {
	b, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}
	return Search(b.Root(), query), nil
}

// BalanceReport is the balance-only fast path for one account.
type BalanceReport struct {
	Account  *model.Account
	Balances Balances
}

// Balance resolves name and computes its balance figures.
func (s *Service) Balance(name string) (*BalanceReport, error) {
	acc, err := s.FindAccount(name)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{Account: acc, Balances: ComputeBalances(acc)}, nil
}

// ActivityReport lists the most recent splits of one account.
type ActivityReport struct {
	Account *model.Account
	Splits  []*model.Split // oldest first, at most the requested limit
}

// RecentActivity resolves name and returns its last limit splits.
func (s *Service) RecentActivity(name string, limit int) (*ActivityReport, error) {
	acc, err := s.FindAccount(name)
	if err != nil {
		return nil, err
	}
	splits := acc.Splits()
	if limit > 0 && len(splits) > limit {
		splits = splits[len(splits)-limit:]
	}
	return &ActivityReport{Account: acc, Splits: splits}, nil
}

// InfoReport is the full-info path for one account.
type InfoReport struct {
	Account    *model.Account
	Balances   Balances
	SplitCount int
	Children   []string // immediate children's short names
}

// AccountInfo resolves name and gathers its full record.
func (s *Service) AccountInfo(name string) (*InfoReport, error) {
	acc, err := s.FindAccount(name)
	if err != nil {
		return nil, err
	}
	info := &InfoReport{
		Account:    acc,
		Balances:   ComputeBalances(acc),
		SplitCount: len(acc.Splits()),
	}
	for _, child := range acc.Children() {
		info.Children = append(info.Children, child.Name)
	}
	return info, nil
}

// Commit persists pending changes to the backing store immediately.
func (s *Service) Commit() error {
	return s.sessions.Save()
}
