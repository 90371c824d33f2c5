package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func GenerateRandomAlphabet(n uint) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[RandIntn(len(alphabet))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandRange returns a uniform random value in [a, b). It panics if a >= b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}

// RandFloat returns a uniform random value in [0, 1).
func RandFloat() float64 {
	const precision = 1 << 53
	return float64(RandIntn(precision)) / precision
}

// RandSample picks k distinct elements of the given slice without
// replacement. If k exceeds the slice length, all elements are returned, and
// a negative k returns nothing. The original slice is not modified.
func RandSample[T any](items []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if k > len(items) {
		k = len(items)
	}

	pool := make([]T, len(items))
	copy(pool, items)
	for i := 0; i < k; i++ {
		j := RandRange(i, len(pool))
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k]
}
