package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	nextID  int64
	findErr error
	delay   time.Duration
	lookups int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.users[u.ID] = cloneUser(&u)
	return cloneUser(&u)
}

func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	r.lookups++
	delay, findErr := r.delay, r.findErr
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if findErr != nil {
		return nil, findErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	c.ID = r.nextID
	r.nextID++
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Phone, u.StudyYear, u.Branch, u.Section, u.Residency = p.Phone, p.StudyYear, p.Branch, p.Section, p.Residency
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recordingSink) Record(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.AuthEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	resets     []string
}

func (l *stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return l.allowed, l.retryAfter, l.err
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.resets = append(l.resets, key)
	return nil
}

type stubProductRepo struct {
	products  map[int64]*domain.Product
	nextID    int64
	orders    int64
	cartItems int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*domain.Product), nextID: 1}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	p.ID = r.nextID
	r.nextID++
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *stubProductRepo) CodeTaken(_ context.Context, code string, exceptID int64) (bool, error) {
	for id, p := range r.products {
		if id != exceptID && p.Code != nil && *p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) List(_ context.Context, _ domain.ProductFilter) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	c := *p
	r.products[p.ID] = &c
	return nil
}

func (r *stubProductRepo) References(context.Context, int64) (int64, int64, error) {
	return r.orders, r.cartItems, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

type stubCartRepo struct {
	items  map[int64]*domain.CartItem
	nextID int64
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[int64]*domain.CartItem), nextID: 1}
}

func (r *stubCartRepo) Add(_ context.Context, item *domain.CartItem) error {
	item.ID = r.nextID
	r.nextID++
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *stubCartRepo) ListByUser(_ context.Context, userID int64) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, domain.CartLine{CartID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	return out, nil
}

func (r *stubCartRepo) UpdateQuantity(_ context.Context, cartID int64, ownerID *int64, qty int) error {
	it, ok := r.items[cartID]
	if !ok || (ownerID != nil && it.UserID != *ownerID) {
		return domain.ErrCartItemNotFound
	}
	it.Quantity = qty
	return nil
}

func (r *stubCartRepo) Remove(_ context.Context, cartID int64, ownerID *int64) error {
	it, ok := r.items[cartID]
	if !ok || (ownerID != nil && it.UserID != *ownerID) {
		return domain.ErrCartItemNotFound
	}
	delete(r.items, cartID)
	return nil
}

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	o.ID = r.nextID
	r.nextID++
	c := *o
	r.orders[o.ID] = &c
	return nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		c := *o
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, orderID int64, ownerID *int64, status domain.OrderStatus) error {
	o, ok := r.orders[orderID]
	if !ok || (ownerID != nil && o.UserID != *ownerID) {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, orderID int64) error {
	if _, ok := r.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, orderID)
	return nil
}

var (
	errBoom   = errors.New("boom")
	fixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)
