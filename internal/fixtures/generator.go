package fixtures

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Generator produces random registrations. Login names and emails handed
// out by one Generator are unique. Safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	faker  *gofakeit.Faker
	logins map[string]struct{}
	emails map[string]struct{}
}

// NewGenerator seeds the underlying faker; a zero seed is random. Every
// field, login names and emails included, follows from a non-zero seed, so
// replaying a seed against a store that kept its accounts reuses them.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker:  gofakeit.New(seed),
		logins: map[string]struct{}{},
		emails: map[string]struct{}{},
	}
}

// Registration returns a complete, valid registration for a new account
// in California, United States.
func (g *Generator) Registration() Registration {
	g.mu.Lock()
	defer g.mu.Unlock()

	first := g.faker.FirstName()
	last := g.faker.LastName()
	return Registration{
		FirstName:       first,
		LastName:        last,
		Email:           g.uniqueEmail(first, last),
		Telephone:       g.faker.Numerify("##########"),
		Fax:             g.faker.Numerify("##########"),
		Company:         g.faker.Company(),
		Address1:        g.faker.Street(),
		Address2:        fmt.Sprintf("Apt. %d", g.faker.Number(1, 999)),
		City:            g.faker.City(),
		Region:          "California",
		Zipcode:         g.faker.Numerify("9####"),
		Country:         "United States",
		LoginName:       g.uniqueLogin(),
		Password:        DefaultPassword,
		ConfirmPassword: DefaultPassword,
		Newsletter:      true,
		AgreePrivacy:    true,
	}
}

// Guest returns random guest checkout data shipping to New York.
func (g *Generator) Guest(product string) GuestCheckout {
	g.mu.Lock()
	defer g.mu.Unlock()

	first := g.faker.FirstName()
	last := g.faker.LastName()
	return GuestCheckout{
		Email:     g.uniqueEmail(first, last),
		FirstName: first,
		LastName:  last,
		Address:   g.faker.Street(),
		City:      "New York",
		Zipcode:   g.faker.Numerify("1####"),
		Phone:     g.faker.Numerify("555-####"),
		Country:   "United States",
		State:     "New York",
		Product:   product,
	}
}

// uniqueLogin must be called with g.mu held.
func (g *Generator) uniqueLogin() string {
	for {
		login := fmt.Sprintf("user_%012x", g.faker.Uint64()&0xffffffffffff)
		if _, taken := g.logins[login]; !taken {
			g.logins[login] = struct{}{}
			return login
		}
	}
}

// uniqueEmail must be called with g.mu held.
func (g *Generator) uniqueEmail(first, last string) string {
	local := strings.ToLower(alnum(first) + "." + alnum(last))
	for {
		email := fmt.Sprintf("%s.%08x@example.com", local, g.faker.Uint32())
		if _, taken := g.emails[email]; !taken {
			g.emails[email] = struct{}{}
			return email
		}
	}
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, s)
}
