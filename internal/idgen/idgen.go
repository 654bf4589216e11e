// Package idgen produces random strings and time-ordered device identifiers.
//
// The randomness here is not cryptographic: values are used as token nonces
// and as a human-facing installation id, never as secret material.
package idgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DeviceSuffixLength is the length of the random part of a device id.
const DeviceSuffixLength = 22

// Generator builds random strings and device ids from an injectable clock
// and random source. The zero value is not usable; call New.
type Generator struct {
	mu  sync.Mutex
	now func() time.Time
	rnd *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithSource makes the generator draw from src, which makes output
// reproducible in tests.
func WithSource(src rand.Source) Option {
	return func(g *Generator) { g.rnd = rand.New(src) }
}

// New returns a Generator using the wall clock and an unseeded PCG source
// unless overridden by opts.
func New(opts ...Option) *Generator {
	g := &Generator{
		now: time.Now,
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// RandomString concatenates base-36 renderings of successive random draws
// until at least length characters are collected, then truncates.
// A non-positive length yields "".
func (g *Generator) RandomString(length int) string {
	if length <= 0 {
		return ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(length + 13)
	for b.Len() < length {
		b.WriteString(strconv.FormatUint(g.rnd.Uint64(), 36))
	}
	return b.String()[:length]
}

// DeviceUniqueID returns prefix + base36(unix millis) + RandomString(22).
func (g *Generator) DeviceUniqueID(prefix string) string {
	ts := strconv.FormatInt(g.now().UnixMilli(), 36)
	return prefix + ts + g.RandomString(DeviceSuffixLength)
}

var defaultGenerator = New()

// RandomString draws from the package-level generator.
func RandomString(length int) string {
	return defaultGenerator.RandomString(length)
}

// DeviceUniqueID draws from the package-level generator.
func DeviceUniqueID(prefix string) string {
	return defaultGenerator.DeviceUniqueID(prefix)
}
