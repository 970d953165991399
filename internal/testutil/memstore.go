// Package testutil: dobles en memoria de los puertos de persistencia, solo para tests.
// Respetan el contrato de los repositorios PostgreSQL: (nil, nil) si no existe,
// orden natural por id ascendente y unicidad de nombres (domain.ErrDuplicate).
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BookRepository     = (*BookRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ usecase.CatalogTxRunner       = (*TxRunner)(nil)
)

// Store estado compartido por los repos en memoria.
type Store struct {
	mu         sync.Mutex
	categories map[int64]*entity.Category
	books      map[int64]*entity.Book
	users      map[int64]*entity.User
	nextCat    int64
	nextBook   int64
	nextUser   int64
	failures   map[string]error

	// Lecturas de ListByParent realizadas (para verificar que no hay caché).
	ListByParentCalls int
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]*entity.Category),
		books:      make(map[int64]*entity.Book),
		users:      make(map[int64]*entity.User),
		failures:   make(map[string]error),
	}
}

// Categories devuelve el repo de categorías sobre este store.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Books devuelve el repo de libros sobre este store.
func (s *Store) Books() *BookRepo { return &BookRepo{s: s} }

// Users devuelve el repo de usuarios sobre este store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner devuelve un runner que restaura el estado si fn falla.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// FailOn hace que la operación op ("category.delete", "book.delete_by_category", ...) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// PutCategory inserta la categoría tal cual, sin validar (permite sembrar árboles corruptos).
func (s *Store) PutCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = copyCategory(&c)
	if c.ID > s.nextCat {
		s.nextCat = c.ID
	}
}

// CategoryCount número de categorías almacenadas.
func (s *Store) CategoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

// BookCount número de libros almacenados.
func (s *Store) BookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

// ── Categories ───────────────────────────────────────────────────────────────

// CategoryRepo implementa repository.CategoryRepository en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.create"); err != nil {
		return err
	}
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.nextCat++
	c.ID = r.s.nextCat
	r.s.categories[c.ID] = copyCategory(c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.get"); err != nil {
		return nil, err
	}
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return copyCategory(c), nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return copyCategory(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(*entity.Category) bool { return true }), nil
}

func (r *CategoryRepo) ListByParent(_ context.Context, parentID int64) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ListByParentCalls++
	if err := r.s.fail("category.list_by_parent"); err != nil {
		return nil, err
	}
	return r.sorted(func(c *entity.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.update"); err != nil {
		return err
	}
	for _, existing := range r.s.categories {
		if existing.ID != c.ID && existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.categories[c.ID]; !ok {
		return nil
	}
	r.s.categories[c.ID] = copyCategory(c)
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.delete"); err != nil {
		return 0, err
	}
	if _, ok := r.s.categories[id]; !ok {
		return 0, nil
	}
	delete(r.s.categories, id)
	return 1, nil
}

func (r *CategoryRepo) ClearParent(_ context.Context, parentID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("category.clear_parent"); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			c.ParentID = nil
			n++
		}
	}
	return n, nil
}

func (r *CategoryRepo) sorted(keep func(*entity.Category) bool) []*entity.Category {
	var out []*entity.Category
	for _, c := range r.s.categories {
		if keep(c) {
			out = append(out, copyCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyCategory(c *entity.Category) *entity.Category {
	cp := *c
	if c.ParentID != nil {
		p := *c.ParentID
		cp.ParentID = &p
	}
	return &cp
}

// ── Books ────────────────────────────────────────────────────────────────────

// BookRepo implementa repository.BookRepository en memoria.
type BookRepo struct{ s *Store }

func (r *BookRepo) Create(_ context.Context, b *entity.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("book.create"); err != nil {
		return err
	}
	for _, existing := range r.s.books {
		if existing.Name == b.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.nextBook++
	b.ID = r.s.nextBook
	cp := *b
	r.s.books[b.ID] = &cp
	return nil
}

func (r *BookRepo) GetByID(_ context.Context, id int64) (*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BookRepo) GetByName(_ context.Context, name string) (*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.books {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BookRepo) List(_ context.Context, limit, offset int) ([]*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.sorted(func(*entity.Book) bool { return true }), limit, offset), nil
}

func (r *BookRepo) ListByCategories(_ context.Context, categoryIDs []int64, limit, offset int) ([]*entity.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	in := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		in[id] = struct{}{}
	}
	return window(r.sorted(func(b *entity.Book) bool {
		_, ok := in[b.CategoryID]
		return ok
	}), limit, offset), nil
}

func (r *BookRepo) Update(_ context.Context, b *entity.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.books {
		if existing.ID != b.ID && existing.Name == b.Name {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.books[b.ID]; !ok {
		return nil
	}
	cp := *b
	r.s.books[b.ID] = &cp
	return nil
}

func (r *BookRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok {
		return 0, nil
	}
	delete(r.s.books, id)
	return 1, nil
}

func (r *BookRepo) DeleteByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("book.delete_by_category"); err != nil {
		return 0, err
	}
	var n int64
	for id, b := range r.s.books {
		if b.CategoryID == categoryID {
			delete(r.s.books, id)
			n++
		}
	}
	return n, nil
}

func (r *BookRepo) sorted(keep func(*entity.Book) bool) []*entity.Book {
	var out []*entity.Book
	for _, b := range r.s.books {
		if keep(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func window(list []*entity.Book, limit, offset int) []*entity.Book {
	if offset >= len(list) {
		return []*entity.Book{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.nextUser++
	u.ID = r.s.nextUser
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		cp := *u
		r.s.users[u.ID] = &cp
	}
	return nil
}

// ── Tx ───────────────────────────────────────────────────────────────────────

// TxRunner simula una transacción: si fn falla, restaura categorías y libros.
type TxRunner struct{ s *Store }

func (t *TxRunner) RunCatalog(ctx context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	bookRepo repository.BookRepository,
) error) error {
	t.s.mu.Lock()
	cats := make(map[int64]*entity.Category, len(t.s.categories))
	for id, c := range t.s.categories {
		cats[id] = copyCategory(c)
	}
	books := make(map[int64]*entity.Book, len(t.s.books))
	for id, b := range t.s.books {
		cp := *b
		books[id] = &cp
	}
	t.s.mu.Unlock()

	if err := fn(t.s.Categories(), t.s.Books()); err != nil {
		t.s.mu.Lock()
		t.s.categories = cats
		t.s.books = books
		t.s.mu.Unlock()
		return err
	}
	return nil
}
