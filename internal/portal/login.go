package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/session"
)

// LoginState is a step of the login state machine.
type LoginState string

const (
	StateStart                  LoginState = "Start"
	StateCredentialsEntered     LoginState = "CredentialsEntered"
	StateCaptchaCheck           LoginState = "CaptchaCheck"
	StateSubmittedAutomatically LoginState = "SubmittedAutomatically"
	StateAwaitingManualSolve    LoginState = "AwaitingManualSolve"
	StateNavigationComplete     LoginState = "NavigationComplete"
	StateLoggedIn               LoginState = "LoggedIn"
	StateLoginFailed            LoginState = "LoginFailed"
)

var (
	// ErrManualLoginRequired means a CAPTCHA challenge needs a human. The
	// caller should switch to a visible browser and call ManualLogin.
	ErrManualLoginRequired = errors.New("portal: captcha requires manual login")
	ErrLoginFormMissing    = errors.New("portal: login form or submit button not found")
)

// LoginError is an authentication failure. Retrying will not help.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	return "login failed: " + e.Message
}

// LoginResult records the path the state machine took.
type LoginResult struct {
	State   LoginState
	Trail   []LoginState
	Cookies []browser.Cookie
}

func (r *LoginResult) enter(s LoginState) {
	r.State = s
	r.Trail = append(r.Trail, s)
}

// LoginFlow submits credentials on the portal's login page.
type LoginFlow struct {
	sel      LoginSelectors
	loginURL string
	headless bool
	store    session.Store
	timing   Timing
	log      *logging.Logger
}

func NewLoginFlow(sel LoginSelectors, loginURL string, headless bool, store session.Store, timing Timing, log *logging.Logger) *LoginFlow {
	return &LoginFlow{
		sel:      sel,
		loginURL: loginURL,
		headless: headless,
		store:    store,
		timing:   timing,
		log:      log,
	}
}

// Run drives Start through LoggedIn. It returns ErrManualLoginRequired when a
// visible CAPTCHA challenge appears in headless mode, *LoginError on bad
// credentials and ErrLoginFormMissing when the form cannot be submitted.
func (f *LoginFlow) Run(ctx context.Context, page browser.Page, creds models.Credentials) (*LoginResult, error) {
	res := &LoginResult{}
	res.enter(StateStart)

	f.log.Info("🔐 Opening login page", "url", f.loginURL)
	if err := page.Goto(ctx, f.loginURL); err != nil {
		return res, fmt.Errorf("open login page: %w", err)
	}

	if err := f.fillCredentials(ctx, page, creds); err != nil {
		return res, err
	}
	res.enter(StateCredentialsEntered)

	res.enter(StateCaptchaCheck)
	challenge, err := f.checkCaptcha(ctx, page)
	if err != nil {
		return res, err
	}
	if challenge {
		res.enter(StateAwaitingManualSolve)
		if f.headless {
			f.log.Warn("🧩 reCAPTCHA challenge appeared, manual login required")
			return res, ErrManualLoginRequired
		}
		f.log.Info("🧩 Please solve the reCAPTCHA in the browser window...")
		if err := page.WaitURL(ctx, f.leftLogin, f.timing.ManualLogin); err != nil {
			return res, fmt.Errorf("wait for manual login: %w", err)
		}
	} else {
		if err := f.submit(ctx, page); err != nil {
			return res, err
		}
		res.enter(StateSubmittedAutomatically)
	}

	if err := page.WaitReady(ctx, f.timing.Navigation); err != nil {
		f.log.Warn("⏳ Navigation after login did not settle, checking page state", "error", err)
	}
	res.enter(StateNavigationComplete)

	if err := f.verify(ctx, page); err != nil {
		res.enter(StateLoginFailed)
		return res, err
	}

	cookies, err := page.Cookies(ctx)
	if err != nil {
		return res, fmt.Errorf("read cookies: %w", err)
	}
	if err := saveSession(ctx, f.store, creds.Email, cookies); err != nil {
		return res, err
	}
	res.Cookies = cookies
	res.enter(StateLoggedIn)
	f.log.Info("✅ Logged in, cookies saved", "cookies", len(cookies))
	return res, nil
}

func (f *LoginFlow) fillCredentials(ctx context.Context, page browser.Page, creds models.Credentials) error {
	if err := page.MouseMove(ctx, 500, 300, 10); err != nil {
		f.log.Debug("mouse move failed", "error", err)
	}
	if err := browser.Sleep(ctx, f.timing.MouseSettle); err != nil {
		return err
	}
	if err := browser.MouseJiggle(ctx, page, jiggleMoves, f.timing.Jiggle); err != nil {
		if ctx.Err() != nil {
			return err
		}
		f.log.Debug("mouse jiggle failed", "error", err)
	}

	_, emailSel := first(ctx, page, f.sel.Email)
	_, passwordSel := first(ctx, page, f.sel.Password)
	if emailSel == "" || passwordSel == "" {
		return fmt.Errorf("credential fields: %w", ErrLoginFormMissing)
	}

	f.log.Debug("⌨️ Filling in email...")
	if err := page.Type(ctx, emailSel, creds.Email, f.timing.TypeDelay); err != nil {
		return fmt.Errorf("type email: %w", err)
	}
	f.log.Debug("⌨️ Filling in password...")
	if err := page.Type(ctx, passwordSel, creds.Password, f.timing.TypeDelay); err != nil {
		return fmt.Errorf("type password: %w", err)
	}
	return nil
}

// checkCaptcha clicks a checkbox challenge if present and reports whether a
// solvable challenge became visible.
func (f *LoginFlow) checkCaptcha(ctx context.Context, page browser.Page) (bool, error) {
	checkbox, _ := first(ctx, page, f.sel.CaptchaCheckbox)
	if checkbox == nil {
		if invisible, _ := first(ctx, page, f.sel.CaptchaInvisible); invisible != nil {
			f.log.Debug("🧩 Invisible reCAPTCHA detected, proceeding with submission")
		}
		return false, nil
	}

	f.log.Info("🧩 reCAPTCHA checkbox found, clicking...")
	if err := checkbox.Click(ctx); err != nil {
		f.log.Warn("⚠️ Failed to click reCAPTCHA checkbox", "error", err)
	}
	if err := browser.Sleep(ctx, f.timing.CaptchaWait); err != nil {
		return false, err
	}

	for _, sel := range f.sel.CaptchaChallenge {
		el, err := page.Query(ctx, sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.Visible(ctx); err == nil && visible {
			return true, nil
		}
	}
	return false, nil
}

func (f *LoginFlow) submit(ctx context.Context, page browser.Page) error {
	button, _ := first(ctx, page, f.sel.Submit)
	form, _ := first(ctx, page, f.sel.Form)
	if button == nil || form == nil {
		return ErrLoginFormMissing
	}

	f.log.Info("📨 Submitting login form...")
	if err := button.Click(ctx); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	if err := page.WaitURL(ctx, f.leftLogin, f.timing.Navigation); err != nil {
		f.log.Warn("⏳ Navigation timed out, checking page state", "error", err)
	}
	return nil
}

// verify treats an error banner or a lingering login prompt as failure.
func (f *LoginFlow) verify(ctx context.Context, page browser.Page) error {
	if msg := textOf(ctx, page, f.sel.Errors); msg != Sentinel {
		return &LoginError{Message: msg}
	}
	if f.sel.LoggedOut != "" {
		if el, err := page.Query(ctx, f.sel.LoggedOut); err == nil && el != nil {
			return &LoginError{Message: "please check credentials or page behavior"}
		}
	}
	return nil
}

func (f *LoginFlow) leftLogin(url string) bool {
	return !strings.Contains(strings.ToLower(url), "/login")
}

// ManualLogin opens a visible browser, pre-fills credentials and waits up to
// the manual-login timeout for a human to finish. Cookies are saved on success.
func ManualLogin(ctx context.Context, launcher browser.Launcher, flow *LoginFlow, creds models.Credentials) error {
	sess, err := launcher.Launch(ctx, browser.LaunchOptions{Headless: false})
	if err != nil {
		return fmt.Errorf("launch visible browser: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			flow.log.Warn("⚠️ Failed to close manual login browser", "error", err)
		}
	}()

	page := sess.Page()
	if err := page.Goto(ctx, flow.loginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := flow.fillCredentials(ctx, page, creds); err != nil {
		return err
	}

	flow.log.Info("🧑 Please solve the reCAPTCHA manually and log in...", "timeout", flow.timing.ManualLogin)
	if err := page.WaitURL(ctx, flow.leftLogin, flow.timing.ManualLogin); err != nil {
		return fmt.Errorf("manual login not completed: %w", err)
	}
	if err := flow.verify(ctx, page); err != nil {
		return err
	}

	cookies, err := page.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	if err := saveSession(ctx, flow.store, creds.Email, cookies); err != nil {
		return err
	}
	flow.log.Info("💾 Saved cookies from manual login", "cookies", len(cookies))
	return nil
}

// saveSession stores the jar under the user's key and also as the shared jar
// that requests without credentials fall back to.
func saveSession(ctx context.Context, store session.Store, user string, cookies []browser.Cookie) error {
	if err := store.Save(ctx, user, cookies); err != nil {
		return err
	}
	if session.Key(user) == "" {
		return nil
	}
	return store.Save(ctx, "", cookies)
}
