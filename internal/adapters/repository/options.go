// Package repository defines the event store interface and errors.
package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithStartID sets the first id the store will assign. Useful for tests
// and for seeding alongside pre-existing data.
func WithStartID(id int64) Option {
	return func(s *TreapStore) {
		if id > 0 {
			s.nextID.Store(id - 1)
		}
	}
}
