package recordstore

import "github.com/jhoicas/templo-inventario/internal/domain"

// table copia en memoria de una colección dentro de una unidad de trabajo.
// Guarda valores, no punteros: quien lee recibe copias y solo Update cambia el estado.
type table[T Record] struct {
	rows     []T
	revision int64
	dirty    bool
}

func (t *table[T]) index(id string) int {
	for i := range t.rows {
		if t.rows[i].GetID() == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) get(id string) *T {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	c := t.rows[i]
	return &c
}

func (t *table[T]) insert(v T) error {
	if v.GetID() == "" {
		return domain.ErrInvalidInput
	}
	if t.index(v.GetID()) >= 0 {
		return domain.ErrDuplicate
	}
	t.rows = append(t.rows, v)
	t.dirty = true
	return nil
}

func (t *table[T]) update(v T) error {
	i := t.index(v.GetID())
	if i < 0 {
		return domain.ErrNotFound
	}
	t.rows[i] = v
	t.dirty = true
	return nil
}

func (t *table[T]) all() []*T {
	out := make([]*T, 0, len(t.rows))
	for i := range t.rows {
		c := t.rows[i]
		out = append(out, &c)
	}
	return out
}
