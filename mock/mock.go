// Package mock generates the synthetic identifiers the sandbox hands out:
// phone numbers, verification codes, proxy credentials and exit IPs.
package mock

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/xraph/sandbox/proxy"
)

// ProxyDomain is the gateway domain proxy hosts live under.
const ProxyDomain = "proxy.voidmob.com"

// Generator produces mock values.
type Generator interface {
	PhoneNumber(country string) string
	VerificationCode() string
	ProxyCredentials(country string) proxy.Credentials
	IP() string
}

// Random is a Generator backed by math/rand and random UUIDs.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Generator = (*Random)(nil)

// NewRandom returns a Generator seeded from the runtime source.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a reproducible Generator.
func NewSeeded(seed1, seed2 uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// between returns a uniform integer in [lo, hi].
func (r *Random) between(lo, hi int) int {
	return lo + r.rng.IntN(hi-lo+1)
}

// PhoneNumber returns an E.164 number shaped like the country's mobile
// numbering plan.
func (r *Random) PhoneNumber(country string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch strings.ToUpper(country) {
	case "US", "CA":
		return fmt.Sprintf("+1%d%d%d", r.between(200, 999), r.between(200, 999), r.between(1000, 9999))
	case "GB":
		return fmt.Sprintf("+447%d%d", r.between(100, 999), r.between(100000, 999999))
	case "DE":
		return fmt.Sprintf("+491%d%d", r.between(50, 79), r.between(1000000, 9999999))
	case "FR":
		return fmt.Sprintf("+336%d", r.between(10000000, 99999999))
	case "NL":
		return fmt.Sprintf("+316%d", r.between(10000000, 99999999))
	case "BR":
		return fmt.Sprintf("+5511%d%d", r.between(90000, 99999), r.between(1000, 9999))
	case "JP":
		return fmt.Sprintf("+8190%d%d", r.between(1000, 9999), r.between(1000, 9999))
	case "AU":
		return fmt.Sprintf("+614%d%d", r.between(10, 99), r.between(100000, 999999))
	case "IN":
		return fmt.Sprintf("+91%d%d", r.between(70000, 99999), r.between(10000, 99999))
	default:
		return fmt.Sprintf("+%d%d", r.between(1, 99), r.between(100000000, 999999999))
	}
}

// VerificationCode returns a six-digit numeric code.
func (r *Random) VerificationCode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%06d", r.between(100000, 999999))
}

// ProxyCredentials returns gateway credentials for country.
func (r *Random) ProxyCredentials(country string) proxy.Credentials {
	r.mu.Lock()
	port := 10000 + r.rng.IntN(5000)
	r.mu.Unlock()

	user := strings.ReplaceAll(uuid.NewString(), "-", "")
	pass := strings.ReplaceAll(uuid.NewString(), "-", "")
	return proxy.Credentials{
		Host:     strings.ToLower(country) + "." + ProxyDomain,
		Port:     port,
		Username: "vm_" + user[:6],
		Password: pass[:12],
	}
}

// IP returns a random IPv4 address with every octet in 1..254.
func (r *Random) IP() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%d.%d.%d.%d",
		r.between(1, 254), r.between(1, 254), r.between(1, 254), r.between(1, 254))
}
