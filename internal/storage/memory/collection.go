package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// collection — упорядоченная коллекция записей по ID, общая для всех in-memory репозиториев.
// Порядок добавления сохраняется: на нём строятся «последние покупки» и выдача списков.
type collection[T any] struct {
	mu       sync.RWMutex
	items    map[string]T
	order    []string
	notFound error
}

func newCollection[T any](notFound error) *collection[T] {
	return &collection[T]{
		items:    make(map[string]T),
		notFound: notFound,
	}
}

func (c *collection[T]) create(id string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return domain.ErrDuplicateID
	}
	c.items[id] = item
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, c.notFound
	}
	return item, nil
}

func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]T, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.items[id])
	}
	return result
}

func (c *collection[T]) save(id string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return c.notFound
	}
	// Замена на месте: позиция в порядке добавления не меняется.
	c.items[id] = item
	return nil
}

func (c *collection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return c.notFound
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
