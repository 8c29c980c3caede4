package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/orders"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/users"
	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
	"github.com/Kayszu18/yandex-market-bot/internal/storage"
)

var _ storage.Storage = (*Storage)(nil)

type UserStore struct {
	users map[int64]*users.User
	mu    sync.Mutex
}

type OrderStore struct {
	orders map[int64]*orders.Order
	nextID int64
	mu     sync.Mutex
}

type WithdrawalStore struct {
	withdrawals map[int64]*withdrawals.Withdrawal
	nextID      int64
	mu          sync.Mutex
}

type Storage struct {
	UserStore       UserStore
	OrderStore      OrderStore
	WithdrawalStore WithdrawalStore
}

func NewStorage() *Storage {
	return &Storage{
		UserStore: UserStore{
			users: make(map[int64]*users.User),
		},
		OrderStore: OrderStore{
			orders: make(map[int64]*orders.Order),
			nextID: 1,
		},
		WithdrawalStore: WithdrawalStore{
			withdrawals: make(map[int64]*withdrawals.Withdrawal),
			nextID:      1,
		},
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

func (s *Storage) CreateUser(_ context.Context, usr *users.User) error {
	s.UserStore.mu.Lock()
	defer s.UserStore.mu.Unlock()

	if _, ok := s.UserStore.users[usr.ID]; ok {
		return storage.ErrUserAlreadyExists
	}

	cp := *usr
	s.UserStore.users[usr.ID] = &cp

	return nil
}

func (s *Storage) GetUser(_ context.Context, userID int64) (*users.User, error) {
	s.UserStore.mu.Lock()
	defer s.UserStore.mu.Unlock()

	usr, ok := s.UserStore.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	cp := *usr

	return &cp, nil
}

func (s *Storage) UserExists(_ context.Context, userID int64) (bool, error) {
	s.UserStore.mu.Lock()
	defer s.UserStore.mu.Unlock()

	_, ok := s.UserStore.users[userID]

	return ok, nil
}

func (s *Storage) UpdateUser(_ context.Context, usr *users.User) error {
	s.UserStore.mu.Lock()
	defer s.UserStore.mu.Unlock()

	if _, ok := s.UserStore.users[usr.ID]; !ok {
		return storage.ErrUserNotFound
	}

	cp := *usr
	s.UserStore.users[usr.ID] = &cp

	return nil
}

func (s *Storage) GetUsers(_ context.Context) ([]*users.User, error) {
	s.UserStore.mu.Lock()
	defer s.UserStore.mu.Unlock()

	usrs := make([]*users.User, 0, len(s.UserStore.users))
	for _, usr := range s.UserStore.users {
		cp := *usr
		usrs = append(usrs, &cp)
	}

	sort.Slice(usrs, func(i, j int) bool {
		return usrs[i].CreatedAt.Before(usrs[j].CreatedAt)
	})

	return usrs, nil
}

func (s *Storage) CreateOrder(_ context.Context, order *orders.Order) error {
	s.OrderStore.mu.Lock()
	defer s.OrderStore.mu.Unlock()

	order.SetID(s.OrderStore.nextID)
	s.OrderStore.nextID++

	cp := *order
	s.OrderStore.orders[order.ID()] = &cp

	return nil
}

func (s *Storage) GetOrder(_ context.Context, orderID int64) (*orders.Order, error) {
	s.OrderStore.mu.Lock()
	defer s.OrderStore.mu.Unlock()

	order, ok := s.OrderStore.orders[orderID]
	if !ok {
		return nil, storage.ErrOrderNotFound
	}

	cp := *order

	return &cp, nil
}

func (s *Storage) GetOrdersByUser(_ context.Context, userID int64) ([]*orders.Order, error) {
	s.OrderStore.mu.Lock()
	defer s.OrderStore.mu.Unlock()

	var ords []*orders.Order

	for _, order := range s.OrderStore.orders {
		if order.UserID() == userID {
			cp := *order
			ords = append(ords, &cp)
		}
	}

	sortOrders(ords)

	return ords, nil
}

func (s *Storage) GetOrdersByStatus(_ context.Context, statuses ...orders.OrderStatus) ([]*orders.Order, error) {
	s.OrderStore.mu.Lock()
	defer s.OrderStore.mu.Unlock()

	var ords []*orders.Order

	for _, order := range s.OrderStore.orders {
		for _, status := range statuses {
			if order.Status() == status {
				cp := *order
				ords = append(ords, &cp)

				break
			}
		}
	}

	sortOrders(ords)

	return ords, nil
}

func (s *Storage) UpdateOrder(_ context.Context, order *orders.Order) error {
	s.OrderStore.mu.Lock()
	defer s.OrderStore.mu.Unlock()

	stored, ok := s.OrderStore.orders[order.ID()]
	if !ok {
		return storage.ErrOrderNotFound
	}

	if stored.Revision() != order.Revision() {
		return storage.ErrConflict
	}

	order.SetRevision(order.Revision() + 1)

	cp := *order
	s.OrderStore.orders[order.ID()] = &cp

	return nil
}

func (s *Storage) CreateWithdrawal(_ context.Context, withdrawal *withdrawals.Withdrawal) error {
	s.WithdrawalStore.mu.Lock()
	defer s.WithdrawalStore.mu.Unlock()

	withdrawal.SetID(s.WithdrawalStore.nextID)
	s.WithdrawalStore.nextID++

	cp := *withdrawal
	s.WithdrawalStore.withdrawals[withdrawal.ID()] = &cp

	return nil
}

func (s *Storage) GetWithdrawal(_ context.Context, withdrawalID int64) (*withdrawals.Withdrawal, error) {
	s.WithdrawalStore.mu.Lock()
	defer s.WithdrawalStore.mu.Unlock()

	withdrawal, ok := s.WithdrawalStore.withdrawals[withdrawalID]
	if !ok {
		return nil, storage.ErrWithdrawalNotFound
	}

	cp := *withdrawal

	return &cp, nil
}

func (s *Storage) GetWithdrawalsByUser(_ context.Context, userID int64) ([]*withdrawals.Withdrawal, error) {
	s.WithdrawalStore.mu.Lock()
	defer s.WithdrawalStore.mu.Unlock()

	var wds []*withdrawals.Withdrawal

	for _, withdrawal := range s.WithdrawalStore.withdrawals {
		if withdrawal.UserID() == userID {
			cp := *withdrawal
			wds = append(wds, &cp)
		}
	}

	sortWithdrawals(wds)

	return wds, nil
}

func (s *Storage) GetWithdrawalsByStatus(_ context.Context, statuses ...withdrawals.WithdrawalStatus) ([]*withdrawals.Withdrawal, error) {
	s.WithdrawalStore.mu.Lock()
	defer s.WithdrawalStore.mu.Unlock()

	var wds []*withdrawals.Withdrawal

	for _, withdrawal := range s.WithdrawalStore.withdrawals {
		for _, status := range statuses {
			if withdrawal.Status() == status {
				cp := *withdrawal
				wds = append(wds, &cp)

				break
			}
		}
	}

	sortWithdrawals(wds)

	return wds, nil
}

func (s *Storage) UpdateWithdrawal(_ context.Context, withdrawal *withdrawals.Withdrawal) error {
	s.WithdrawalStore.mu.Lock()
	defer s.WithdrawalStore.mu.Unlock()

	stored, ok := s.WithdrawalStore.withdrawals[withdrawal.ID()]
	if !ok {
		return storage.ErrWithdrawalNotFound
	}

	if stored.Revision() != withdrawal.Revision() {
		return storage.ErrConflict
	}

	withdrawal.SetRevision(withdrawal.Revision() + 1)

	cp := *withdrawal
	s.WithdrawalStore.withdrawals[withdrawal.ID()] = &cp

	return nil
}

func sortOrders(ords []*orders.Order) {
	sort.Slice(ords, func(i, j int) bool {
		return ords[i].CreatedAt().Before(ords[j].CreatedAt())
	})
}

func sortWithdrawals(wds []*withdrawals.Withdrawal) {
	sort.Slice(wds, func(i, j int) bool {
		return wds[i].CreatedAt().Before(wds[j].CreatedAt())
	})
}
