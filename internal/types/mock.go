package types

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	loremWords = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
		"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "labore",
	}
	firstNames = []string{"alice", "bruno", "chen", "dana", "emeka", "fatima", "gus", "hana"}
	lastNames  = []string{"moreno", "okafor", "lindqvist", "tanaka", "silva", "novak"}
	domains    = []string{"example.com", "example.org", "example.net"}

	// mockEpoch anchors generated dates so output never depends on the clock
	mockEpoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
)

// seeded returns a generator whose sequence depends only on key. Every call
// starts a fresh sequence, which keeps mock values stable across reads.
func seeded(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>1|1))
}

func mockConst(v any) MockFunc {
	return func() any { return v }
}

func mockWords(n int) MockFunc {
	key := fmt.Sprintf("words:%d", n)
	return func() any {
		r := seeded(key)
		words := make([]string, n)
		for i := range words {
			words[i] = loremWords[r.IntN(len(loremWords))]
		}
		return strings.Join(words, " ")
	}
}

func mockInt(lo, hi int) MockFunc {
	key := fmt.Sprintf("int:%d:%d", lo, hi)
	return func() any {
		return lo + seeded(key).IntN(hi-lo+1)
	}
}

func mockFloat(lo, hi float64) MockFunc {
	key := fmt.Sprintf("float:%g:%g", lo, hi)
	return func() any {
		v := lo + seeded(key).Float64()*(hi-lo)
		return math.Round(v*100) / 100
	}
}

func mockBool() MockFunc {
	return func() any {
		return seeded("bool").IntN(2) == 1
	}
}

func mockEmail() MockFunc {
	return func() any {
		r := seeded("email")
		return fmt.Sprintf("%s.%s@%s",
			firstNames[r.IntN(len(firstNames))],
			lastNames[r.IntN(len(lastNames))],
			domains[r.IntN(len(domains))])
	}
}

func mockURL() MockFunc {
	return func() any {
		r := seeded("url")
		return fmt.Sprintf("https://%s/%s", domains[r.IntN(len(domains))], loremWords[r.IntN(len(loremWords))])
	}
}

func mockUUID(key string) MockFunc {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("plume:"+key)).String()
	return mockConst(id)
}

func mockDate() MockFunc {
	return func() any {
		r := seeded("date")
		offset := time.Duration(r.IntN(365*24)) * time.Hour
		return mockEpoch.Add(offset).Format(time.RFC3339)
	}
}

func mockPhone() MockFunc {
	return func() any {
		r := seeded("phone")
		var b strings.Builder
		b.WriteString("+1")
		for i := 0; i < 10; i++ {
			b.WriteByte(byte('0' + r.IntN(10)))
		}
		return b.String()
	}
}

func mockObject() MockFunc {
	return func() any { return map[string]any{} }
}

// ConstMock returns a generator that always yields v. Used for catalog
// entries declared in configuration.
func ConstMock(v any) MockFunc {
	return mockConst(v)
}
