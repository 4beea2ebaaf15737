package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// cryptoSource draws from crypto/rand. Safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns the Source used for live play.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	checkBound(n)
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}

// seededSource is a PCG stream guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce the same draws, so a battle can be replayed.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(n int) int {
	checkBound(n)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// checkBound panics when n cannot bound a draw.
func checkBound(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("dice: Intn called with n <= 0 (n=%d)", n))
	}
}
