package workspace

// Workspace junta as peças da camada de estado sobre um mesmo Store
type Workspace struct {
	Store     *Store
	Sync      *Synchronizer
	Gate      *Gate
	Mutations *Mutations
}

func New(backend Backend) *Workspace {
	store := NewStore()
	synchronizer := NewSynchronizer(backend, store)

	return &Workspace{
		Store:     store,
		Sync:      synchronizer,
		Gate:      NewGate(backend, store, synchronizer),
		Mutations: NewMutations(backend, store, synchronizer),
	}
}
