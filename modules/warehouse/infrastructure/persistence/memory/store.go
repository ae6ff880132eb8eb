// Package memory provides a map-backed storage backend. All repositories
// share one Store and one mutex, which is what gives multi-entity
// operations the same atomicity the SQL backend gets from transactions.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
)

type Store struct {
	mu       sync.Mutex
	parts    map[uuid.UUID]part.Part
	requests map[uuid.UUID]partrequest.PartRequest
}

func NewStore() *Store {
	return &Store{
		parts:    make(map[uuid.UUID]part.Part),
		requests: make(map[uuid.UUID]partrequest.PartRequest),
	}
}
