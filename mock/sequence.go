package mock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xraph/sandbox/proxy"
)

// Sequence is a deterministic Generator that counts upward. Every call
// returns a value distinct from the previous one.
type Sequence struct {
	mu sync.Mutex
	n  int
}

var _ Generator = (*Sequence)(nil)

func (s *Sequence) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// PhoneNumber implements Generator.
func (s *Sequence) PhoneNumber(string) string {
	return fmt.Sprintf("+1555%07d", s.next())
}

// VerificationCode implements Generator.
func (s *Sequence) VerificationCode() string {
	return fmt.Sprintf("%06d", 100000+s.next()%900000)
}

// ProxyCredentials implements Generator.
func (s *Sequence) ProxyCredentials(country string) proxy.Credentials {
	n := s.next()
	return proxy.Credentials{
		Host:     strings.ToLower(country) + "." + ProxyDomain,
		Port:     10000 + n%5000,
		Username: fmt.Sprintf("vm_%06d", n),
		Password: fmt.Sprintf("pw%010d", n),
	}
}

// IP implements Generator.
func (s *Sequence) IP() string {
	n := s.next()
	return fmt.Sprintf("10.%d.%d.%d", (n/64516)%254+1, (n/254)%254+1, n%254+1)
}
