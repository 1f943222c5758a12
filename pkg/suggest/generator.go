package suggest

import (
	"crypto/rand"
	"io"
	"math/big"
)

const (
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Digits  = "0123456789"
	Special = "!@#$%^&*"
	All     = Upper + Lower + Digits + Special

	// Length of every suggested password.
	Length = 12
)

var required = []string{Upper, Lower, Digits, Special}

// Generator builds random passwords that pass every composition rule of the
// strength classifier.
type Generator struct {
	random io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{random: rand.Reader}
}

// NewWithReader uses r as the source of randomness. r must never run dry.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{random: r}
}

var defaultGenerator = New()

// Generate returns a suggestion from the default generator.
func Generate() string {
	return defaultGenerator.Generate()
}

// Generate picks one character of each required class, fills the rest from
// all classes and shuffles the result, so the required characters are not in
// predictable positions.
func (g *Generator) Generate() string {
	buf := make([]byte, 0, Length)
	for _, class := range required {
		buf = append(buf, class[g.intn(len(class))])
	}
	for len(buf) < Length {
		buf = append(buf, All[g.intn(len(All))])
	}

	// Fisher-Yates
	for i := len(buf) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// intn returns a uniform number in [0, n). A broken entropy source is not
// recoverable for a password generator, so it panics.
func (g *Generator) intn(n int) int {
	v, err := rand.Int(g.random, big.NewInt(int64(n)))
	if err != nil {
		panic("suggest: reading random source: " + err.Error())
	}
	return int(v.Int64())
}
