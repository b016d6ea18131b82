package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/cart"
	"github.com/olxer/electroshop-api/internal/domain/catalog"
	"github.com/olxer/electroshop-api/internal/domain/order"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/review"
	"github.com/olxer/electroshop-api/internal/domain/user"
)

// --- Mock implementations ---

type mockUserRepo struct {
	byID    map[int64]*user.User
	byLogin map[string]*user.User
	nextID  int64
	taken   bool
	roles   []user.Role
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[int64]*user.User),
		byLogin: make(map[string]*user.User),
		nextID:  1,
	}
}

func (m *mockUserRepo) Create(_ context.Context, u *user.User) error {
	if m.taken {
		return user.ErrEmailTaken
	}
	u.ID = m.nextID
	m.nextID++
	u.Created = time.Now()
	u.Updated = u.Created
	m.byID[u.ID] = u
	m.byLogin[u.Email] = u
	m.byLogin[u.Username] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*user.User, error) {
	u, ok := m.byLogin[login]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) CreateRole(_ context.Context, role *user.Role) error {
	m.roles = append(m.roles, *role)
	return nil
}

type mockProductRepo struct {
	byID   map[int64]*product.Product
	bySlug map[string]*product.Product
	nextID int64
}

func newMockProductRepo(products ...*product.Product) *mockProductRepo {
	m := &mockProductRepo{
		byID:   make(map[int64]*product.Product),
		bySlug: make(map[string]*product.Product),
		nextID: 100,
	}
	for _, p := range products {
		m.byID[p.ID] = p
		m.bySlug[p.Slug] = p
	}
	return m
}

func (m *mockProductRepo) Create(_ context.Context, p *product.Product) error {
	p.ID = m.nextID
	m.nextID++
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p
	return nil
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p.Views++
	return p, nil
}

func (m *mockProductRepo) GetBySlug(_ context.Context, slug string) (*product.Product, error) {
	p, ok := m.bySlug[slug]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.byID {
		if p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) ListByBrandSlug(_ context.Context, _ string) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockCatalogRepo struct {
	categories map[int64]*catalog.Category
	brands     map[string]*catalog.Brand
	banners    map[int64]*catalog.Banner
	nextID     int64
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		categories: make(map[int64]*catalog.Category),
		brands:     make(map[string]*catalog.Brand),
		banners:    make(map[int64]*catalog.Banner),
		nextID:     1,
	}
}

func (m *mockCatalogRepo) CreateCategory(_ context.Context, c *catalog.Category) error {
	c.ID = m.nextID
	m.nextID++
	m.categories[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) ListCategories(_ context.Context) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetCategory(_ context.Context, id int64) (*catalog.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCatalogRepo) CreateBrand(_ context.Context, b *catalog.Brand) error {
	b.ID = m.nextID
	m.nextID++
	m.brands[b.Slug] = b
	return nil
}

func (m *mockCatalogRepo) ListBrands(_ context.Context) ([]catalog.Brand, error) {
	out := make([]catalog.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetBrandBySlug(_ context.Context, slug string) (*catalog.Brand, error) {
	b, ok := m.brands[slug]
	if !ok {
		return nil, catalog.ErrBrandNotFound
	}
	return b, nil
}

func (m *mockCatalogRepo) CreateBanner(_ context.Context, b *catalog.Banner) error {
	b.ID = m.nextID
	m.nextID++
	m.banners[b.ID] = b
	return nil
}

func (m *mockCatalogRepo) ListBanners(_ context.Context) ([]catalog.Banner, error) {
	out := make([]catalog.Banner, 0, len(m.banners))
	for _, b := range m.banners {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetBanner(_ context.Context, id int64) (*catalog.Banner, error) {
	b, ok := m.banners[id]
	if !ok {
		return nil, catalog.ErrBannerNotFound
	}
	return b, nil
}

type mockCartRepo struct {
	items    map[int64]*cart.Item
	products *mockProductRepo
	nextID   int64
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{
		items:    make(map[int64]*cart.Item),
		products: products,
		nextID:   1,
	}
}

func (m *mockCartRepo) Add(_ context.Context, userID, productID int64, qty int) (*cart.Item, error) {
	p, ok := m.products.byID[productID]
	if !ok {
		return nil, product.ErrNotFound
	}
	for _, it := range m.items {
		if it.UserID == userID && it.Product.ID == productID {
			it.Quantity += qty
			return it, nil
		}
	}
	it := &cart.Item{ID: m.nextID, UserID: userID, Product: p, Quantity: qty}
	m.nextID++
	m.items[it.ID] = it
	return it, nil
}

func (m *mockCartRepo) List(_ context.Context, userID int64) ([]cart.Item, error) {
	var out []cart.Item
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, userID, itemID int64, qty int) (*cart.Item, error) {
	it, ok := m.items[itemID]
	if !ok || it.UserID != userID {
		return nil, cart.ErrItemNotFound
	}
	it.Quantity = qty
	return it, nil
}

func (m *mockCartRepo) Remove(_ context.Context, userID, itemID int64) error {
	it, ok := m.items[itemID]
	if !ok || it.UserID != userID {
		return cart.ErrItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID int64) error {
	for id, it := range m.items {
		if it.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type mockReviewRepo struct {
	byID   map[int64]*review.Review
	nextID int64
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{byID: make(map[int64]*review.Review), nextID: 1}
}

func (m *mockReviewRepo) Create(_ context.Context, r *review.Review) error {
	r.ID = m.nextID
	m.nextID++
	r.Created = time.Now()
	m.byID[r.ID] = r
	return nil
}

func (m *mockReviewRepo) Update(_ context.Context, userID, reviewID int64, rating int, text string) (*review.Review, error) {
	r, ok := m.byID[reviewID]
	if !ok || r.UserID != userID {
		return nil, review.ErrNotFound
	}
	r.Rating = rating
	r.Text = text
	return r, nil
}

func (m *mockReviewRepo) Delete(_ context.Context, userID, reviewID int64) error {
	r, ok := m.byID[reviewID]
	if !ok || r.UserID != userID {
		return review.ErrNotFound
	}
	delete(m.byID, reviewID)
	return nil
}

func (m *mockReviewRepo) ListByProduct(_ context.Context, productID int64) ([]review.Review, error) {
	var out []review.Review
	for _, r := range m.byID {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ListByUser(_ context.Context, userID int64) ([]review.Review, error) {
	var out []review.Review
	for _, r := range m.byID {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) Like(_ context.Context, reviewID int64) (int, error) {
	r, ok := m.byID[reviewID]
	if !ok {
		return 0, review.ErrNotFound
	}
	r.Likes++
	return r.Likes, nil
}

// mockOrderStore backs the order service with in-memory maps. Transactions
// are not staged here: handler tests only exercise the status-code mapping,
// rollback semantics are covered by the service tests.
type mockOrderStore struct {
	users    *mockUserRepo
	products *mockProductRepo
	orders   map[int64]*order.Order
	nextID   int64
}

func newMockOrderStore(users *mockUserRepo, products *mockProductRepo) *mockOrderStore {
	return &mockOrderStore{
		users:    users,
		products: products,
		orders:   make(map[int64]*order.Order),
		nextID:   1,
	}
}

func (m *mockOrderStore) InTx(_ context.Context, fn func(tx order.Tx) error) error {
	return fn(m)
}

func (m *mockOrderStore) UserByID(ctx context.Context, id int64) (*user.User, error) {
	return m.users.GetByID(ctx, id)
}

func (m *mockOrderStore) DecrementStock(_ context.Context, productID int64, qty int) (*product.Product, error) {
	p, ok := m.products.byID[productID]
	if !ok {
		return nil, &order.ProductNotFoundError{ProductID: productID}
	}
	if p.Quantity < qty {
		return nil, &order.InsufficientStockError{ProductName: p.Name}
	}
	p.Quantity -= qty
	p.IsInStock = p.Quantity > 0
	return p, nil
}

func (m *mockOrderStore) SaveOrder(_ context.Context, o *order.Order) error {
	o.ID = m.nextID
	m.nextID++
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderStore) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, id int64, st order.Status) error {
	o, ok := m.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = st
	return nil
}

func (m *mockOrderStore) ListByStatus(_ context.Context, st order.Status) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.Status == st {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) ListAll(_ context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID int64) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// --- Helpers ---

type testEnv struct {
	mux      *http.ServeMux
	tokens   *auth.Tokens
	users    *mockUserRepo
	products *mockProductRepo
	catalog  *mockCatalogRepo
	reviews  *mockReviewRepo
	store    *mockOrderStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMockUserRepo()
	products := newMockProductRepo()
	cat := newMockCatalogRepo()
	reviews := newMockReviewRepo()
	store := newMockOrderStore(users, products)
	tokens := auth.NewTokens([]byte("test-secret"), time.Hour)

	h := NewHandler(users, products, cat, newMockCartRepo(products), reviews,
		order.NewService(store), tokens)
	mux := http.NewServeMux()
	h.Routes(mux)

	return &testEnv{
		mux:      mux,
		tokens:   tokens,
		users:    users,
		products: products,
		catalog:  cat,
		reviews:  reviews,
		store:    store,
	}
}

// addUser registers a user directly in the mock repo and returns a valid
// token for it.
func (e *testEnv) addUser(t *testing.T, username string, roleID int64) (*user.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)
	u := &user.User{Username: username, Email: username + "@shop.test", PasswordHash: hash, RoleID: roleID}
	require.NoError(t, e.users.Create(context.Background(), u))

	token, err := e.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, RoleID: u.RoleID})
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) addProduct(name string, price int64, qty int) *product.Product {
	p := &product.Product{
		Name: name, Slug: name, Price: decimal.NewFromInt(price),
		Quantity: qty, IsInStock: qty > 0, CategoryID: 1,
	}
	_ = e.products.Create(context.Background(), p)
	return p
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", registerRequest{
		Username: "alice", Email: "alice@shop.test", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, user.RoleCustomer, resp.User.RoleID)
	assert.NotContains(t, rec.Body.String(), "password", "hash must never serialize")

	id, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id.UserID)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", registerRequest{
		Username: "bob", Email: "bob@shop.test", Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/register", "", registerRequest{Email: "bob@shop.test", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.users.taken = true

	rec := env.do(t, http.MethodPost, "/auth/register", "", registerRequest{
		Username: "alice", Email: "alice@shop.test", Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "taken")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", user.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/auth/login", "", loginRequest{Login: "alice", Password: "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	// By email as well.
	rec = env.do(t, http.MethodPost, "/auth/login", "", loginRequest{Login: "alice@shop.test", Password: "password1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", user.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/auth/login", "", loginRequest{Login: "alice", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", "", loginRequest{Login: "ghost", Password: "password1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleGate(t *testing.T) {
	env := newTestEnv(t)
	_, customerToken := env.addUser(t, "alice", user.RoleCustomer)
	_, contentToken := env.addUser(t, "carol", user.RoleContent)
	env.catalog.categories[1] = &catalog.Category{ID: 1, Name: "Laptops", Slug: "laptops"}

	body := createProductRequest{Name: "ThinkPad X1", Price: decimal.NewFromInt(1500), CategoryID: 1, Quantity: 3}

	rec := env.do(t, http.MethodPost, "/products", customerToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/products", contentToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created product.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "thinkpad-x1", created.Slug)
	assert.True(t, created.IsInStock)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct("mouse", 29, 10)

	rec := env.do(t, http.MethodGet, "/products/100", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got product.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1, got.Views, "read increments the view counter")

	rec = env.do(t, http.MethodGet, "/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsByMissingCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products/category/42", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)
	p := env.addProduct("keyboard", 100, 5)

	rec := env.do(t, http.MethodPost, "/cart/add", token, addToCartRequest{ProductID: p.ID, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same product again merges quantities.
	rec = env.do(t, http.MethodPost, "/cart/add", token, addToCartRequest{ProductID: p.ID, Quantity: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary cart.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, "300", summary.TotalSum.String())

	rec = env.do(t, http.MethodDelete, "/cart/clear", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/cart", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.TotalItem)
}

func TestAddUnknownProductToCart(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/cart/add", token, addToCartRequest{ProductID: 999, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.addUser(t, "alice", user.RoleCustomer)
	_, bobToken := env.addUser(t, "bob", user.RoleCustomer)
	p := env.addProduct("monitor", 300, 2)

	rec := env.do(t, http.MethodPost, "/review", aliceToken, reviewRequest{ProductID: p.ID, Rating: 5, Text: "great"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var rev review.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rev))

	// Another user cannot edit or delete it.
	rec = env.do(t, http.MethodPut, "/review/1", bobToken, reviewRequest{Rating: 1, Text: "bad"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/review/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/review/1", aliceToken, reviewRequest{Rating: 4, Text: "good"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLikeReview(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)
	p := env.addProduct("ssd", 80, 2)

	rec := env.do(t, http.MethodPost, "/review", token, reviewRequest{ProductID: p.ID, Rating: 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Likes are public, no token needed.
	rec = env.do(t, http.MethodPost, "/review/1/like", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"likes":1}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/review/1/like", "", nil)
	assert.JSONEq(t, `{"likes":2}`, rec.Body.String())
}

func TestPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)
	p := env.addProduct("laptop", 1000, 5)

	rec := env.do(t, http.MethodPost, "/order", token, placeOrderRequest{
		TotalAmount: decimal.NewFromInt(3000),
		Items:       []order.ItemRequest{{ProductID: p.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, order.StatusNew, o.Status)
	assert.Equal(t, "3000", o.TotalAmount.String())
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, env.products.byID[p.ID].Quantity)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestPlaceOrderErrors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)
	p := env.addProduct("laptop", 1000, 1)

	rec := env.do(t, http.MethodPost, "/order", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/order", token, placeOrderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/order", token, placeOrderRequest{
		Items: []order.ItemRequest{{ProductID: p.ID, Quantity: 5}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "laptop")

	rec = env.do(t, http.MethodPost, "/order", token, placeOrderRequest{
		Items: []order.ItemRequest{{ProductID: 999, Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	_, customerToken := env.addUser(t, "alice", user.RoleCustomer)
	_, adminToken := env.addUser(t, "root", user.RoleAdmin)
	p := env.addProduct("laptop", 1000, 5)

	rec := env.do(t, http.MethodPost, "/order", customerToken, placeOrderRequest{
		TotalAmount: decimal.NewFromInt(1000),
		Items:       []order.ItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPut, "/order/1/status", customerToken, updateOrderStatusRequest{Status: "confirmed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/order/1/status", adminToken, updateOrderStatusRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/order/99/status", adminToken, updateOrderStatusRequest{Status: "confirmed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/order/1/status", adminToken, updateOrderStatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirmed"`)
}

func TestListOrdersRoleScoped(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.addUser(t, "alice", user.RoleCustomer)
	_, bobToken := env.addUser(t, "bob", user.RoleCustomer)
	_, adminToken := env.addUser(t, "root", user.RoleAdmin)
	p := env.addProduct("laptop", 1000, 10)

	for _, token := range []string{aliceToken, bobToken} {
		rec := env.do(t, http.MethodPost, "/order", token, placeOrderRequest{
			TotalAmount: decimal.NewFromInt(1000),
			Items:       []order.ItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/order", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].User.ID)

	rec = env.do(t, http.MethodGet, "/order", adminToken, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}

func TestListOrdersByStatus(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", user.RoleCustomer)

	rec := env.do(t, http.MethodGet, "/order/status/archived", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/order/status/new", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
