package element

import "sync"

// Pair es una relación fuente -> destino producida por un mapa de eager-loading.
type Pair struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// EagerLoadingMap es el resultado de resolver un handle de eager-loading para
// un lote de elementos fuente.
type EagerLoadingMap struct {
	ElementType string `json:"elementType"`
	Pairs       []Pair `json:"map"`
}

// TargetIDs devuelve los ids destino únicos en orden de aparición.
func (m EagerLoadingMap) TargetIDs() []int64 {
	seen := make(map[int64]struct{}, len(m.Pairs))
	out := make([]int64, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		if _, ok := seen[p.Target]; ok {
			continue
		}
		seen[p.Target] = struct{}{}
		out = append(out, p.Target)
	}
	return out
}

// TargetsFor devuelve los ids destino de una fuente, en orden.
func (m EagerLoadingMap) TargetsFor(source int64) []int64 {
	var out []int64
	for _, p := range m.Pairs {
		if p.Source == source {
			out = append(out, p.Target)
		}
	}
	return out
}

// EagerLoadStore es el cache genérico handle -> elementos precargados.
// Se embebe en los records que implementan EagerLoadable.
type EagerLoadStore struct {
	mu    sync.RWMutex
	items map[string][]Ref
}

func (s *EagerLoadStore) HasEagerLoaded(handle string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[handle]
	return ok
}

func (s *EagerLoadStore) EagerLoaded(handle string) ([]Ref, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[handle]
	return v, ok
}

func (s *EagerLoadStore) SetEagerLoaded(handle string, elements []Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string][]Ref)
	}
	s.items[handle] = elements
}
