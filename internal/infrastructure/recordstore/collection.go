package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// envelope formato persistido de una colección.
type envelope struct {
	Schema   int             `json:"schema"`
	Revision int64           `json:"revision"`
	SavedAt  time.Time       `json:"savedAt"`
	Records  json.RawMessage `json:"records"`
}

// Collection lee y reemplaza una colección completa, superponiendo sus semillas.
type Collection[T Record] struct {
	name      string
	seeds     []T
	seedIndex map[string][]byte // id -> JSON de la semilla
	log       zerolog.Logger
	now       func() time.Time
}

// NewCollection construye una colección con nombre fijo y semillas estáticas.
func NewCollection[T Record](name string, seeds []T, log zerolog.Logger) *Collection[T] {
	idx := make(map[string][]byte, len(seeds))
	for _, s := range seeds {
		raw, err := json.Marshal(s)
		if err != nil {
			// Una semilla que no serializa es un error de programación.
			panic(fmt.Sprintf("recordstore: semilla %s/%s no serializable: %v", name, s.GetID(), err))
		}
		idx[s.GetID()] = raw
	}
	return &Collection[T]{
		name:      name,
		seeds:     seeds,
		seedIndex: idx,
		log:       log.With().Str("collection", name).Logger(),
		now:       time.Now,
	}
}

// Name nombre fijo de la colección.
func (c *Collection[T]) Name() string { return c.name }

// Seeds devuelve una copia de las semillas.
func (c *Collection[T]) Seeds() []T {
	out := make([]T, len(c.seeds))
	copy(out, c.seeds)
	return out
}

// Load lee la colección completa y la combina con las semillas.
// Un blob corrupto se registra y se trata como "sin datos" (quedan solo las semillas).
// Un error del backend se devuelve: el caller decide si degradar o abortar.
func (c *Collection[T]) Load(ctx context.Context, store BlobStore) ([]T, int64, error) {
	raw, err := store.Get(ctx, c.name)
	if err != nil {
		return nil, 0, fmt.Errorf("leer colección %s: %w", c.name, err)
	}
	persisted, rev, err := c.decode(raw)
	if err != nil {
		c.log.Warn().Err(err).Msg("colección corrupta, se usan solo las semillas")
		return c.merge(nil), 0, nil
	}
	return c.merge(persisted), rev, nil
}

// Replace reescribe la colección completa con revisión prevRevision+1.
// Solo se persisten los registros que difieren de su semilla o que no tienen semilla.
func (c *Collection[T]) Replace(ctx context.Context, store BlobStore, records []T, prevRevision int64) (int64, error) {
	persist := make([]T, 0, len(records))
	for _, r := range records {
		seed, ok := c.seedIndex[r.GetID()]
		if ok {
			raw, err := json.Marshal(r)
			if err != nil {
				return prevRevision, fmt.Errorf("serializar %s/%s: %w", c.name, r.GetID(), err)
			}
			if bytes.Equal(raw, seed) {
				continue
			}
		}
		persist = append(persist, r)
	}
	recs, err := json.Marshal(persist)
	if err != nil {
		return prevRevision, fmt.Errorf("serializar colección %s: %w", c.name, err)
	}
	rev := prevRevision + 1
	blob, err := json.Marshal(envelope{
		Schema:   SchemaVersion,
		Revision: rev,
		SavedAt:  c.now().UTC(),
		Records:  recs,
	})
	if err != nil {
		return prevRevision, fmt.Errorf("serializar sobre %s: %w", c.name, err)
	}
	if err := store.Put(ctx, c.name, blob); err != nil {
		return prevRevision, fmt.Errorf("escribir colección %s: %w", c.name, err)
	}
	return rev, nil
}

func (c *Collection[T]) decode(raw []byte) ([]T, int64, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, 0, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, fmt.Errorf("decodificar sobre: %w", err)
	}
	if env.Schema > SchemaVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedSchema, env.Schema)
	}
	var records []T
	if len(env.Records) > 0 {
		if err := json.Unmarshal(env.Records, &records); err != nil {
			return nil, 0, fmt.Errorf("decodificar registros: %w", err)
		}
	}
	return records, env.Revision, nil
}

// merge: semillas primero (en su orden, sombreadas por el registro persistido con el mismo ID)
// y luego los registros sin semilla en el orden almacenado.
func (c *Collection[T]) merge(persisted []T) []T {
	byID := make(map[string]T, len(persisted))
	for _, p := range persisted {
		byID[p.GetID()] = p
	}
	out := make([]T, 0, len(c.seeds)+len(persisted))
	for _, s := range c.seeds {
		if p, ok := byID[s.GetID()]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, s)
	}
	for _, p := range persisted {
		if _, isSeed := c.seedIndex[p.GetID()]; isSeed {
			continue
		}
		out = append(out, p)
	}
	return out
}
