package runtime

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/rand/v2"
)

// RandomSource produces uniformly distributed integers in [0, n) for any
// positive n, however large.
type RandomSource interface {
	Uniform(n *big.Int) (*big.Int, error)
}

var (
	ErrEmptyRange      = errors.New("runtime: random range must be positive")
	ErrScriptExhausted = errors.New("runtime: scripted random source exhausted")
)

// ReaderSource draws from a byte stream by rejection sampling: it reads the
// fewest bytes that can hold n-1, masks the high byte down to the bit length
// of n-1 and retries while the candidate is >= n. Every accepted value is
// equally likely, and each attempt succeeds with probability above 1/2.
type ReaderSource struct {
	r io.Reader
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// NewCryptoSource reads from the operating system's CSPRNG.
func NewCryptoSource() *ReaderSource {
	return NewReaderSource(crand.Reader)
}

// NewSeededSource returns a reproducible source: equal seeds yield equal
// draw sequences.
func NewSeededSource(seed uint64) *ReaderSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return NewReaderSource(rand.NewChaCha8(key))
}

func (s *ReaderSource) Uniform(n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrEmptyRange
	}
	limit := new(big.Int).Sub(n, big.NewInt(1))
	bits := limit.BitLen()
	if bits == 0 {
		return new(big.Int), nil
	}
	buf := make([]byte, (bits+7)/8)
	topBits := bits - 8*(len(buf)-1)
	mask := byte(0xff >> (8 - topBits))
	candidate := new(big.Int)
	for {
		if _, err := io.ReadFull(s.r, buf); err != nil {
			return nil, fmt.Errorf("runtime: read random bytes: %w", err)
		}
		buf[0] &= mask
		candidate.SetBytes(buf)
		if candidate.Cmp(n) < 0 {
			return candidate, nil
		}
	}
}

// ScriptedSource replays a fixed sequence of draws. Tests use it to pick
// lines deterministically.
type ScriptedSource struct {
	draws []*big.Int
	next  int
}

func NewScriptedSource(draws ...int64) *ScriptedSource {
	s := &ScriptedSource{draws: make([]*big.Int, len(draws))}
	for i, d := range draws {
		s.draws[i] = big.NewInt(d)
	}
	return s
}

func (s *ScriptedSource) Uniform(n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrEmptyRange
	}
	if s.next >= len(s.draws) {
		return nil, ErrScriptExhausted
	}
	draw := s.draws[s.next]
	if draw.Sign() < 0 || draw.Cmp(n) >= 0 {
		return nil, fmt.Errorf("runtime: scripted draw %s is outside [0, %s)", draw, n)
	}
	s.next++
	return new(big.Int).Set(draw), nil
}

// Remaining reports how many scripted draws have not been used.
func (s *ScriptedSource) Remaining() int {
	return len(s.draws) - s.next
}
