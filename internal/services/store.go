package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// Store errors
var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrInvalidLogin   = errors.New("incorrect login or password")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoCustomer     = errors.New("no customer details for checkout")
	ErrNoOrder        = errors.New("no order placed on this visit")
)

// ValidationError carries the form messages that rejected a submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Visit is one browser session on the storefront.
type Visit struct {
	ID        string
	Cart      models.Cart
	Account   *models.Account
	Guest     *models.Contact
	LastOrder string
}

// LoggedIn reports whether a customer signed in on this visit.
func (v Visit) LoggedIn() bool {
	return v.Account != nil
}

// Store holds the storefront's catalog, visits and registered accounts.
type Store struct {
	mu        sync.Mutex
	catalog   *models.Catalog
	orders    OrderService
	visits    map[string]*Visit
	accounts  map[string]*models.Account
	emails    map[string]string
	enquiries []models.Enquiry
	log       *zap.Logger
}

func NewStore(catalog *models.Catalog, orders OrderService, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		catalog:  catalog,
		orders:   orders,
		visits:   map[string]*Visit{},
		accounts: map[string]*models.Account{},
		emails:   map[string]string{},
		log:      log,
	}
}

func (s *Store) Catalog() *models.Catalog {
	return s.catalog
}

// Ensure returns id when it names a live visit and a new visit ID otherwise.
func (s *Store) Ensure(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visits[id]; ok {
		return id
	}
	id = uuid.NewString()
	s.visits[id] = &Visit{ID: id}
	return id
}

// Snapshot returns a copy of the visit that callers may read freely.
func (s *Store) Snapshot(id string) Visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visits[id]
	if !ok {
		return Visit{ID: id}
	}
	out := *v
	out.Cart = v.Cart.Clone()
	return out
}

// visit must be called with s.mu held.
func (s *Store) visit(id string) *Visit {
	v, ok := s.visits[id]
	if !ok {
		v = &Visit{ID: id}
		s.visits[id] = v
	}
	return v
}

func (s *Store) AddToCart(id string, productID, qty int) error {
	p, ok := s.catalog.Get(productID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.visit(id).Cart.Add(p, qty); err != nil {
		return err
	}
	s.log.Debug("added to cart", zap.String("visit", id), zap.Int("product", productID), zap.Int("quantity", qty))
	return nil
}

// UpdateCart sets quantities by product ID. Products no longer in the cart
// are ignored.
func (s *Store) UpdateCart(id string, quantities map[int]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := &s.visit(id).Cart
	for productID, qty := range quantities {
		err := cart.SetQuantity(productID, qty)
		if err != nil && !errors.Is(err, models.ErrLineNotFound) {
			return err
		}
	}
	return nil
}

func (s *Store) RemoveFromCart(id string, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visit(id).Cart.Remove(productID)
}

// Register creates an account and signs the visit into it.
func (s *Store) Register(id string, reg models.Registration) (*models.Account, error) {
	problems := reg.Problems()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[strings.ToLower(reg.Contact.Email)]; taken {
		problems = append(problems, models.MsgEmailTaken)
	}
	if _, taken := s.accounts[strings.ToLower(reg.LoginName)]; taken {
		problems = append(problems, models.MsgLoginNameTaken)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := &models.Account{
		ID:           uuid.NewString(),
		LoginName:    reg.LoginName,
		PasswordHash: hash,
		Contact:      reg.Contact,
		Company:      reg.Company,
		Newsletter:   reg.Newsletter,
		CreatedAt:    time.Now(),
	}
	s.accounts[strings.ToLower(acct.LoginName)] = acct
	s.emails[strings.ToLower(acct.Contact.Email)] = acct.LoginName
	s.visit(id).Account = acct
	s.log.Info("account registered", zap.String("login", acct.LoginName))
	return acct, nil
}

func (s *Store) Login(id, loginName, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(loginName))]
	if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return ErrInvalidLogin
	}
	v := s.visit(id)
	v.Account = acct
	v.Guest = nil
	return nil
}

func (s *Store) Logout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.visit(id)
	v.Account = nil
	v.Guest = nil
}

// SetGuest records the guest checkout details for the visit.
func (s *Store) SetGuest(id string, c models.Contact) error {
	if problems := c.Problems(); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visit(id).Guest = &c
	return nil
}

// PlaceOrder turns the visit's cart into a confirmed order and empties the
// cart.
func (s *Store) PlaceOrder(id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.visit(id)
	if v.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	var customer models.Contact
	switch {
	case v.Account != nil:
		customer = v.Account.Contact
	case v.Guest != nil:
		customer = *v.Guest
	default:
		return nil, ErrNoCustomer
	}

	order, err := s.orders.CreateOrder(customer, v.Cart.OrderLines(), "USD")
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateOrderStatus(order.Reference, string(models.OrderStatusConfirmed)); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusConfirmed

	v.Cart.Clear()
	v.LastOrder = order.Reference
	s.log.Info("order placed",
		zap.String("reference", order.Reference),
		zap.Int64("number", order.Number),
		zap.String("amount", order.GetFormattedAmount()))
	return order, nil
}

// LastOrder reads back the order most recently placed on the visit.
func (s *Store) LastOrder(id string) (*models.Order, error) {
	reference := s.Snapshot(id).LastOrder
	if reference == "" {
		return nil, ErrNoOrder
	}
	return s.orders.GetOrderByReference(reference)
}

// SubmitEnquiry validates and keeps a contact form message.
func (s *Store) SubmitEnquiry(e models.Enquiry) error {
	if problems := e.Problems(); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries = append(s.enquiries, e)
	s.log.Info("enquiry received", zap.String("email", e.Email))
	return nil
}

// Enquiries returns the messages received so far.
func (s *Store) Enquiries() []models.Enquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Enquiry(nil), s.enquiries...)
}
