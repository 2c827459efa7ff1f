package querycache

import (
	"context"
	"time"
)

// nullStore never connects and never stores. It stands in for a dead
// backend: every read is a miss, every write a no-op.
type nullStore struct{}

func newNullStore() Store { return &nullStore{} }

func (s *nullStore) Driver() Driver { return DriverNull }

func (s *nullStore) Connect(context.Context) bool { return false }

func (s *nullStore) Connected(context.Context) bool { return false }

func (s *nullStore) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (s *nullStore) Set(context.Context, string, []byte, time.Duration) bool { return false }

func (s *nullStore) Delete(context.Context, string) bool { return false }

func (s *nullStore) Flush(context.Context) bool { return false }

func (s *nullStore) Stats(context.Context) Stats { return Stats{} }

func (s *nullStore) Health(context.Context) Health {
	return Health{Err: ErrNotConnected.Error()}
}
