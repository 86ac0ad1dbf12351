package card

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	// IssuerPrefix is the fixed scheme prefix of every issued card number.
	IssuerPrefix = "400000"
	// NumberLength is the total number of digits of an issued card number.
	NumberLength = 16
	// PINLength is the number of digits of an issued PIN.
	PINLength = 4
	// DefaultMaxAttempts bounds the checksum retry loop of Generator.Number.
	DefaultMaxAttempts = 10_000
)

// ErrGenerationExhausted is returned when no checksum-valid number was drawn
// within the configured number of attempts.
var ErrGenerationExhausted = errors.New("card number generation exhausted")

// Source yields uniformly distributed integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator issues card numbers and PINs. It does not check numbers against
// stored accounts; callers retry on collision.
type Generator struct {
	mu          sync.Mutex
	src         Source
	maxAttempts int
}

// NewGenerator builds a generator drawing digits from src. A nil src uses the
// process-wide random source and a non-positive maxAttempts uses DefaultMaxAttempts.
func NewGenerator(src Source, maxAttempts int) *Generator {
	if src == nil {
		src = globalSource{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{src: src, maxAttempts: maxAttempts}
}

// Number draws IssuerPrefix followed by random digits until the result passes
// the Luhn check.
func (g *Generator) Number() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		b.Reset()
		b.Grow(NumberLength)
		b.WriteString(IssuerPrefix)
		for i := len(IssuerPrefix); i < NumberLength; i++ {
			b.WriteByte(byte('0' + g.src.IntN(10)))
		}
		if number := b.String(); LuhnValid(number) {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, g.maxAttempts)
}

// PIN returns a zero-padded decimal PIN in "0000".."9999".
func (g *Generator) PIN() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%0*d", PINLength, g.src.IntN(10_000))
}

// LuhnValid reports whether number is a non-empty digit string satisfying the
// mod-10 checksum. It detects typos only and is not a security control.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	for i := 0; i < len(number); i++ {
		c := number[len(number)-1-i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// Mask hides the account digits of a card number for logging.
func Mask(number string) string {
	if len(number) < 10 {
		return strings.Repeat("*", len(number))
	}
	return number[:6] + strings.Repeat("*", len(number)-10) + number[len(number)-4:]
}
