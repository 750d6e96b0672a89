package portal

import (
	"context"
	"errors"
	"testing"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/browser/browsertest"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loginURL     = "https://internshala.com/login/user"
	dashboardURL = "https://internshala.com/student/dashboard"
)

var testCreds = models.Credentials{Email: "student@example.com", Password: "hunter2"}

// loginPage is a login form whose submit button leaves the login page.
func loginPage() (*browsertest.Page, *browsertest.Element) {
	page := browsertest.NewPage()
	page.Set("#email", browsertest.NewElement(""))
	page.Set("#password", browsertest.NewElement(""))
	page.Set("form", browsertest.NewElement(""))
	submit := browsertest.NewElement("Login")
	submit.OnClick = func() { page.SetURL(dashboardURL) }
	page.Set(`button[type="submit"]`, submit)
	_ = page.AddCookies(context.Background(), []browser.Cookie{{Name: "PHPSESSID", Value: "fresh", Domain: ".internshala.com"}})
	return page, submit
}

func TestLoginFlow_Run(t *testing.T) {
	tests := []struct {
		name      string
		headless  bool
		setup     func(p *browsertest.Page, submit *browsertest.Element)
		wantErr   error
		wantState LoginState
		wantTrail []LoginState
		saved     bool
	}{
		{
			name:      "submits automatically",
			headless:  true,
			setup:     func(p *browsertest.Page, submit *browsertest.Element) {},
			wantState: StateLoggedIn,
			wantTrail: []LoginState{
				StateStart, StateCredentialsEntered, StateCaptchaCheck,
				StateSubmittedAutomatically, StateNavigationComplete, StateLoggedIn,
			},
			saved: true,
		},
		{
			name:     "invisible captcha does not block",
			headless: true,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				p.Set(`.g-recaptcha[style*="visibility: hidden"]`, browsertest.NewElement(""))
			},
			wantState: StateLoggedIn,
			saved:     true,
		},
		{
			name:     "visible challenge in headless mode",
			headless: true,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				p.Set("#recaptcha-anchor", browsertest.NewElement(""))
				p.Set(".recaptcha-challenge", browsertest.NewElement(""))
			},
			wantErr:   ErrManualLoginRequired,
			wantState: StateAwaitingManualSolve,
		},
		{
			name:     "checkbox alone is solved by the click",
			headless: true,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				p.Set("#recaptcha-anchor", browsertest.NewElement(""))
				p.Set(".recaptcha-challenge", &browsertest.Element{Hidden: true})
			},
			wantState: StateLoggedIn,
			saved:     true,
		},
		{
			name:     "human solves challenge in visible mode",
			headless: false,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				checkbox := browsertest.NewElement("")
				checkbox.OnClick = func() { p.SetURL(dashboardURL) }
				p.Set("#recaptcha-anchor", checkbox)
				p.Set(".recaptcha-challenge", browsertest.NewElement(""))
			},
			wantState: StateLoggedIn,
			wantTrail: []LoginState{
				StateStart, StateCredentialsEntered, StateCaptchaCheck,
				StateAwaitingManualSolve, StateNavigationComplete, StateLoggedIn,
			},
			saved: true,
		},
		{
			name:     "missing credential fields",
			headless: true,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				p.Remove("#email")
			},
			wantErr:   ErrLoginFormMissing,
			wantState: StateStart,
		},
		{
			name:     "missing submit button",
			headless: true,
			setup: func(p *browsertest.Page, submit *browsertest.Element) {
				p.Remove(`button[type="submit"]`)
			},
			wantErr:   ErrLoginFormMissing,
			wantState: StateCaptchaCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			page, submit := loginPage()
			tt.setup(page, submit)
			store := session.NewMemoryStore()

			flow := NewLoginFlow(DefaultSelectors().Login, loginURL, tt.headless, store, fastTiming(), nopLog())
			res, err := flow.Run(ctx, page, testCreds)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, res.State)
			if tt.wantTrail != nil {
				assert.Equal(t, tt.wantTrail, res.Trail)
			}

			cookies, loadErr := store.Load(ctx, testCreds.Email)
			if tt.saved {
				require.NoError(t, loadErr)
				assert.Equal(t, "fresh", cookies[0].Value)
				assert.Equal(t, testCreds.Email, page.Typed("#email"))
				assert.Equal(t, testCreds.Password, page.Typed("#password"))
			} else {
				assert.ErrorIs(t, loadErr, session.ErrNotFound)
			}
		})
	}
}

func TestLoginFlow_Run_SessionAndPointer(t *testing.T) {
	ctx := context.Background()
	page, _ := loginPage()
	store := session.NewMemoryStore()

	flow := NewLoginFlow(DefaultSelectors().Login, loginURL, true, store, fastTiming(), nopLog())
	_, err := flow.Run(ctx, page, testCreds)
	require.NoError(t, err)

	// one approach move plus the jiggle
	moves := page.Moves()
	require.Len(t, moves, 1+jiggleMoves)
	for _, m := range moves[1:] {
		assert.True(t, m[0] >= 100 && m[0] < 1180, "x=%v", m[0])
		assert.True(t, m[1] >= 100 && m[1] < 620, "y=%v", m[1])
	}

	own, err := store.Load(ctx, testCreds.Email)
	require.NoError(t, err)
	shared, err := store.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, own, shared)
}

func TestLoginFlow_RejectedCredentials(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(p *browsertest.Page)
		message string
	}{
		{
			name: "error banner",
			setup: func(p *browsertest.Page) {
				p.Set(".alert-danger", browsertest.NewElement(" Incorrect email or password "))
			},
			message: "Incorrect email or password",
		},
		{
			name: "login modal still shown",
			setup: func(p *browsertest.Page) {
				p.Set("#loginModal", browsertest.NewElement(""))
			},
			message: "please check credentials or page behavior",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := loginPage()
			tt.setup(page)
			store := session.NewMemoryStore()

			flow := NewLoginFlow(DefaultSelectors().Login, loginURL, true, store, fastTiming(), nopLog())
			res, err := flow.Run(context.Background(), page, testCreds)

			var loginErr *LoginError
			require.True(t, errors.As(err, &loginErr))
			assert.Equal(t, tt.message, loginErr.Message)
			assert.Equal(t, StateLoginFailed, res.State)

			_, loadErr := store.Load(context.Background(), testCreds.Email)
			assert.ErrorIs(t, loadErr, session.ErrNotFound)
			_, loadErr = store.Load(context.Background(), "")
			assert.ErrorIs(t, loadErr, session.ErrNotFound)
		})
	}
}

func TestManualLogin(t *testing.T) {
	var page *browsertest.Page
	launcher := &browsertest.Launcher{
		NewPage: func(n int, opts browser.LaunchOptions) browser.Page {
			page, _ = loginPage()
			page.OnGoto = func(p *browsertest.Page, url string) {
				p.SetURL(dashboardURL)
			}
			return page
		},
	}
	store := session.NewMemoryStore()
	flow := NewLoginFlow(DefaultSelectors().Login, loginURL, false, store, fastTiming(), nopLog())

	require.NoError(t, ManualLogin(context.Background(), launcher, flow, testCreds))

	require.Equal(t, 1, launcher.Launches())
	assert.False(t, launcher.Options()[0].Headless)
	assert.Equal(t, []int{1}, launcher.Closes())
	assert.Equal(t, []string{loginURL}, page.Visited())

	cookies, err := store.Load(context.Background(), testCreds.Email)
	require.NoError(t, err)
	assert.Len(t, cookies, 1)
}

func TestManualLogin_NotCompleted(t *testing.T) {
	launcher := &browsertest.Launcher{
		NewPage: func(n int, opts browser.LaunchOptions) browser.Page {
			page, _ := loginPage()
			return page
		},
	}
	flow := NewLoginFlow(DefaultSelectors().Login, loginURL, false, session.NewMemoryStore(), fastTiming(), nopLog())

	err := ManualLogin(context.Background(), launcher, flow, testCreds)
	assert.ErrorIs(t, err, browsertest.ErrTimeout)
	assert.Equal(t, []int{1}, launcher.Closes())
}
