package memory

// Store bundles both in-memory stores so it satisfies domain.Store.
type Store struct {
	*ChatStore
	*ResumeStore
}

func NewStore() *Store {
	return &Store{
		ChatStore:   NewChatStore(),
		ResumeStore: NewResumeStore(),
	}
}

func (s *Store) Close() error { return nil }
