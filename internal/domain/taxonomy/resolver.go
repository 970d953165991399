// Package taxonomy: motor de resolución del árbol de categorías (servicio de dominio).
//
// Todos los recorridos son iterativos (pila o cola explícita) y llevan un
// conjunto de visitados por id: si un nodo aparece dos veces el árbol está
// corrupto (ciclo) y el recorrido aborta con domain.ErrTreeCorrupted.
// No hay caché: cada llamada relee el store.
package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// PathSeparator separa los nombres dentro de una ruta de categorías.
const PathSeparator = " / "

// CategoryReader es el subconjunto de repository.CategoryRepository que necesita el resolver.
type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	ListByParent(ctx context.Context, parentID int64) ([]*entity.Category, error)
}

// Resolver calcula rutas y subárboles sobre un CategoryReader.
type Resolver struct {
	reader   CategoryReader
	maxNodes int
}

// NewResolver construye el resolver. maxNodes limita los nodos visitados por recorrido (0 = sin límite).
func NewResolver(reader CategoryReader, maxNodes int) *Resolver {
	return &Resolver{reader: reader, maxNodes: maxNodes}
}

// CategoryPaths devuelve una ruta por cada camino maximal descendente desde la categoría
// hasta una hoja, empezando por el nombre de la propia categoría. Una hoja devuelve [nombre].
// El orden respeta el orden de hijos del store en cada nivel.
func (r *Resolver) CategoryPaths(ctx context.Context, categoryID int64) ([]string, error) {
	start, err := r.get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	type frame struct {
		cat    *entity.Category
		prefix string
	}
	stack := []frame{{cat: start}}
	seen := r.newVisitSet()
	var paths []string

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := seen.visit(f.cat.ID); err != nil {
			return nil, err
		}

		path := f.prefix + f.cat.Name
		children, err := r.reader.ListByParent(ctx, f.cat.ID)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: hijos de %d: %w", f.cat.ID, err)
		}
		if len(children) == 0 {
			paths = append(paths, path)
			continue
		}
		// Apilar en orden inverso para desapilar en el orden del store.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{cat: children[i], prefix: path + PathSeparator})
		}
	}
	return paths, nil
}

// RootPath devuelve la ruta raíz → categoría ("Ficción / Fantasía / Épica"). Costo O(profundidad).
func (r *Resolver) RootPath(ctx context.Context, categoryID int64) (string, error) {
	chain, err := r.Ancestry(ctx, categoryID)
	if err != nil {
		return "", err
	}
	names := make([]string, len(chain))
	for i, c := range chain {
		names[len(chain)-1-i] = c.Name
	}
	return strings.Join(names, PathSeparator), nil
}

// Ancestry devuelve la categoría seguida de sus ancestros, terminando en la raíz.
func (r *Resolver) Ancestry(ctx context.Context, categoryID int64) ([]*entity.Category, error) {
	cur, err := r.get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	seen := r.newVisitSet()
	var chain []*entity.Category
	for {
		if err := seen.visit(cur.ID); err != nil {
			return nil, err
		}
		chain = append(chain, cur)
		if cur.ParentID == nil {
			return chain, nil
		}
		parent, err := r.reader.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: padre de %d: %w", cur.ID, err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: padre %d de la categoría %d no existe", domain.ErrTreeCorrupted, *cur.ParentID, cur.ID)
		}
		cur = parent
	}
}

// SubtreeIDs devuelve el id de la categoría más los de todos sus descendientes (recorrido BFS).
// El primer elemento es siempre categoryID.
func (r *Resolver) SubtreeIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	if _, err := r.get(ctx, categoryID); err != nil {
		return nil, err
	}
	seen := r.newVisitSet()
	queue := []int64{categoryID}
	var ids []int64
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if err := seen.visit(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)

		children, err := r.reader.ListByParent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: hijos de %d: %w", id, err)
		}
		for _, c := range children {
			queue = append(queue, c.ID)
		}
	}
	return ids, nil
}

// WouldCreateCycle informa si asignar newParentID como padre de categoryID crearía un ciclo,
// es decir, si categoryID es newParentID o uno de sus ancestros.
func (r *Resolver) WouldCreateCycle(ctx context.Context, categoryID, newParentID int64) (bool, error) {
	chain, err := r.Ancestry(ctx, newParentID)
	if err != nil {
		return false, err
	}
	for _, c := range chain {
		if c.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) get(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := r.reader.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: obtener categoría %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %d", domain.ErrNotFound, id)
	}
	return c, nil
}

type visitSet struct {
	ids map[int64]struct{}
	max int
}

func (r *Resolver) newVisitSet() *visitSet {
	return &visitSet{ids: make(map[int64]struct{}), max: r.maxNodes}
}

func (s *visitSet) visit(id int64) error {
	if _, ok := s.ids[id]; ok {
		return fmt.Errorf("%w: categoría %d visitada dos veces", domain.ErrTreeCorrupted, id)
	}
	if s.max > 0 && len(s.ids) >= s.max {
		return fmt.Errorf("%w (%d)", domain.ErrTreeTooLarge, s.max)
	}
	s.ids[id] = struct{}{}
	return nil
}
