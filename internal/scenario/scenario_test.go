package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/storefronttest"
)

func newEnv(t *testing.T, srv *storefronttest.Server, withCredentials bool) Env {
	t.Helper()
	target := config.TargetConfig{BaseURL: srv.URL}
	if withCredentials {
		user := fixtures.RegisteredUserData()
		target.LoginName = user.LoginName
		target.Password = user.Password
	}
	return Env{
		Tab:     srv.NewTab(),
		Target:  target,
		Timeout: 5 * time.Second,
		Log:     zaptest.NewLogger(t),
		Data:    fixtures.NewGenerator(42),
	}
}

func TestScenarios_PassAgainstStandInStorefront(t *testing.T) {
	srv := storefronttest.New(t)
	srv.RegisterUser(t, fixtures.RegisteredUserData())

	for _, s := range All() {
		t.Run(s.Name, func(t *testing.T) {
			env := newEnv(t, srv, true)
			assert.NoError(t, s.Run(context.Background(), env))
		})
	}
}

func TestScenarios_SkipWithoutCredentials(t *testing.T) {
	srv := storefronttest.New(t)

	for _, name := range []string{"login", "registered-checkout"} {
		t.Run(name, func(t *testing.T) {
			s, ok := Lookup(name)
			require.True(t, ok)
			err := s.Run(context.Background(), newEnv(t, srv, false))
			assert.ErrorIs(t, err, ErrSkipped)
		})
	}
}

func TestScenario_LoginWithWrongPasswordFails(t *testing.T) {
	srv := storefronttest.New(t)
	srv.RegisterUser(t, fixtures.RegisteredUserData())
	env := newEnv(t, srv, true)
	env.Target.Password = "not-the-password"
	env.Timeout = 200 * time.Millisecond

	err := login(context.Background(), env)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSkipped)
	assert.Contains(t, err.Error(), "check my account")
}

func TestScenario_CancelledContextStopsBeforeFirstStep(t *testing.T) {
	srv := storefronttest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := homeLoads(ctx, newEnv(t, srv, false))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlow_StopsAtFirstFailure(t *testing.T) {
	srv := storefronttest.New(t)
	f := newEnv(t, srv, false).flow(context.Background(), "flow")
	boom := errors.New("boom")

	var ran []string
	f.step("one", func() error { ran = append(ran, "one"); return nil })
	f.step("two", func() error { ran = append(ran, "two"); return boom })
	f.step("three", func() error { ran = append(ran, "three"); return nil })

	assert.Equal(t, []string{"one", "two"}, ran)
	require.ErrorIs(t, f.err, boom)
	assert.EqualError(t, f.err, "two: boom")
}

func TestCheck(t *testing.T) {
	assert.NoError(t, check(true, "unused"))
	assert.EqualError(t, check(false, "got %d, want %d", 1, 2), "got 1, want 2")
}

func TestSearchAndAddProduct_FallsBackToAlternatives(t *testing.T) {
	srv := storefronttest.New(t)
	site := newEnv(t, srv, false).Site()
	require.NoError(t, site.Home.Open())

	term, err := SearchAndAddProduct(site, "hands", "cream")
	require.NoError(t, err)
	assert.Equal(t, "cream", term)

	require.NoError(t, site.Cart.Open())
	assert.True(t, site.Cart.IsProductInCart("cream"))
}

func TestSearchAndAddProduct_NothingFound(t *testing.T) {
	srv := storefronttest.New(t)
	site := newEnv(t, srv, false).Site()
	require.NoError(t, site.Home.Open())

	term, err := SearchAndAddProduct(site, "hands", "unicorn")
	assert.Empty(t, term)
	require.ErrorIs(t, err, ErrNoProduct)
	assert.Contains(t, err.Error(), "hands, unicorn")
}

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 21)

	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s.Name], "duplicate scenario %s", s.Name)
		seen[s.Name] = true
		assert.NotEmpty(t, s.Tags, "%s has no tags", s.Name)
		assert.NotEmpty(t, s.Description, "%s has no description", s.Name)
		assert.NotNil(t, s.Run, "%s has no body", s.Name)
	}

	all[0].Name = "changed"
	assert.Equal(t, "home-loads", All()[0].Name)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("guest-checkout")
	require.True(t, ok)
	assert.True(t, s.HasTag(TagE2E))
	assert.False(t, s.HasTag(TagSmoke))

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	names := func(ss []Scenario) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.Name)
		}
		return out
	}

	t.Run("everything", func(t *testing.T) {
		got, err := Select(nil, nil)
		require.NoError(t, err)
		assert.Len(t, got, len(All()))
	})

	t.Run("by tag", func(t *testing.T) {
		got, err := Select(nil, []string{TagE2E})
		require.NoError(t, err)
		assert.Equal(t, []string{"search-add-to-cart", "guest-checkout", "registered-checkout", "multiple-products-cart"}, names(got))
	})

	t.Run("by name keeps registration order", func(t *testing.T) {
		got, err := Select([]string{"guest-checkout", "home-loads"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"home-loads", "guest-checkout"}, names(got))
	})

	t.Run("name and tag intersect", func(t *testing.T) {
		got, err := Select([]string{"guest-checkout", "home-loads"}, []string{TagSmoke})
		require.NoError(t, err)
		assert.Equal(t, []string{"home-loads"}, names(got))
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Select([]string{"home-loads", "nope", "nada"}, nil)
		assert.EqualError(t, err, "unknown scenarios: nope, nada")
	})
}
