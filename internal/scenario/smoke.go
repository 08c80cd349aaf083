package scenario

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

// menuLinks is Home plus the seven top-level categories.
const menuLinks = 8

func homeLoads(ctx context.Context, env Env) error {
	f := env.flow(ctx, "home-loads")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("check title", func() error { return s.Base.AssertTitle(pages.HomeTitle) })
	f.step("check header", s.Header.AssertHeaderVisible)
	return f.err
}

func mainNavigation(ctx context.Context, env Env) error {
	f := env.flow(ctx, "main-navigation")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("count menu links", func() error { return s.Header.AssertNavLinkCount(menuLinks) })
	f.step("read menu links", func() error {
		names, err := s.Header.NavLinkNames()
		if err != nil {
			return err
		}
		f.log.Info("menu links", zap.String("links", strings.Join(names, " | ")))
		first := lo.FirstOrEmpty(names)
		return check(strings.EqualFold(first, "Home"), "first menu link is %q, want Home", first)
	})
	return f.err
}

func registerSuccess(ctx context.Context, env Env) error {
	f := env.flow(ctx, "register-success")
	s := f.site
	reg := env.data().Registration()
	f.step("open registration", s.Register.Open)
	f.step("register "+reg.LoginName, func() error { return s.Register.RegisterUser(reg) })
	f.step("check account created", s.Register.AssertRegistrationSuccessful)
	return f.err
}

func registerMissingMandatory(ctx context.Context, env Env) error {
	f := env.flow(ctx, "register-missing-mandatory")
	s := f.site
	reg := env.data().Registration().OnlyOptional()
	f.step("open registration", s.Register.Open)
	f.step("submit optional fields only", func() error { return s.Register.RegisterUser(reg) })
	f.step("check error shown", func() error { return s.Register.AssertErrorDisplayed() })
	f.step("log error", func() error {
		text, err := s.Register.ErrorText()
		f.log.Info("registration rejected", zap.String("error", fixtures.NormalizeWhitespace(text)))
		return err
	})
	f.step("check not registered", s.Register.AssertNotRegistered)
	return f.err
}

func registerWithoutPrivacy(ctx context.Context, env Env) error {
	f := env.flow(ctx, "register-without-privacy")
	s := f.site
	reg := env.data().Registration()
	reg.AgreePrivacy = false
	f.step("open registration", s.Register.Open)
	f.step("submit without agreeing", func() error { return s.Register.RegisterUser(reg) })
	f.step("check privacy policy error", s.Register.AssertPrivacyPolicyErrorDisplayed)
	f.step("check not registered", s.Register.AssertNotRegistered)
	return f.err
}

func registerMismatchedPasswords(ctx context.Context, env Env) error {
	f := env.flow(ctx, "register-mismatched-passwords")
	s := f.site
	reg := env.data().Registration()
	reg.ConfirmPassword = fixtures.MismatchedPassword
	f.step("open registration", s.Register.Open)
	f.step("submit mismatched passwords", func() error { return s.Register.RegisterUser(reg) })
	f.step("check error shown", func() error { return s.Register.AssertErrorDisplayed() })
	f.step("check not registered", s.Register.AssertNotRegistered)
	return f.err
}

func login(ctx context.Context, env Env) error {
	if !env.Target.HasCredentials() {
		return Skip("VALID_LOGIN_NAME and VALID_PASSWORD are not set")
	}
	f := env.flow(ctx, "login")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("open login", s.Header.OpenLogin)
	f.step("log in", func() error { return s.Login.Login(env.Target.LoginName, env.Target.Password) })
	f.step("check my account", s.Login.AssertLoggedIn)
	return f.err
}
