// File: utils/random.go
package utils

import (
	"math/rand"
	"sync/atomic"
	"time"
)

var seedCounter int64

// NewRandom returns an independently seeded generator. Each room owns one, so
// no locking is needed as long as only the room's actor touches it.
func NewRandom() *rand.Rand {
	seed := time.Now().UnixNano() + atomic.AddInt64(&seedCounter, 1)
	return rand.New(rand.NewSource(seed))
}
