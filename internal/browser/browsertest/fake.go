// Package browsertest provides in-memory fakes of the browser interfaces.
package browsertest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go-internship-automation/internal/browser"
)

var ErrTimeout = errors.New("browsertest: timeout")

// Element is a scripted DOM node.
type Element struct {
	TextValue string
	Attrs     map[string]string
	Children  map[string][]*Element
	Hidden    bool
	HTMLValue string
	ClickErr  error
	// OnClick runs after a successful click, typically to navigate the page.
	OnClick func()
	// PanicOnClick simulates an unexpected failure inside the driver.
	PanicOnClick bool

	mu     sync.Mutex
	clicks int
	files  []string
}

func NewElement(text string) *Element {
	return &Element{TextValue: text}
}

// WithAttr sets an attribute and returns e for chaining.
func (e *Element) WithAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
	return e
}

// WithChild adds a child for selector and returns e for chaining.
func (e *Element) WithChild(selector string, child *Element) *Element {
	if e.Children == nil {
		e.Children = make(map[string][]*Element)
	}
	e.Children[selector] = append(e.Children[selector], child)
	return e
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextValue, ctx.Err()
}

func (e *Element) Attr(ctx context.Context, name string) (string, error) {
	return e.Attrs[name], ctx.Err()
}

func (e *Element) Query(ctx context.Context, selector string) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kids := e.Children[selector]; len(kids) > 0 {
		return kids[0], nil
	}
	return nil, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.PanicOnClick {
		panic("element detached")
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.mu.Lock()
	e.clicks++
	e.mu.Unlock()
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return !e.Hidden, ctx.Err()
}

func (e *Element) SetInputFiles(ctx context.Context, paths ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	e.files = append(e.files, paths...)
	e.mu.Unlock()
	return nil
}

func (e *Element) Files() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.files...)
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	return e.HTMLValue, ctx.Err()
}

// Page is a scripted tab. Elements are looked up by exact selector string.
type Page struct {
	mu       sync.Mutex
	url      string
	elements map[string][]*Element
	typed    map[string]string
	selected map[string]string
	pressed  []string
	visited  []string
	scripts  []string
	cookies  []browser.Cookie
	shots    []string
	moves    [][2]float64

	// OnGoto runs after the URL is updated.
	OnGoto func(p *Page, url string)
	// OnEvaluate runs for every Evaluate call.
	OnEvaluate func(p *Page, script string, arg any) (any, error)
	// OnPress runs for every key press.
	OnPress func(p *Page, key string)
	GotoErr error
	// BlockWaits makes every wait block until ctx is done.
	BlockWaits bool
}

func NewPage() *Page {
	return &Page{
		elements: make(map[string][]*Element),
		typed:    make(map[string]string),
		selected: make(map[string]string),
	}
}

// Set replaces the elements matching selector.
func (p *Page) Set(selector string, els ...*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(els) == 0 {
		delete(p.elements, selector)
		return
	}
	p.elements[selector] = els
}

func (p *Page) Remove(selectors ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range selectors {
		delete(p.elements, s)
	}
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
}

func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.mu.Lock()
	p.url = url
	p.visited = append(p.visited, url)
	p.mu.Unlock()
	if p.OnGoto != nil {
		p.OnGoto(p, url)
	}
	return nil
}

func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Query(ctx context.Context, selector string) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if els := p.elements[selector]; len(els) > 0 {
		return els[0], nil
	}
	return nil, nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]browser.Element, 0, len(p.elements[selector]))
	for _, el := range p.elements[selector] {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	if p.BlockWaits {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	el, err := p.Query(ctx, selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, ErrTimeout
	}
	return el, nil
}

func (p *Page) Type(ctx context.Context, selector, text string, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.elements[selector]) == 0 {
		return ErrTimeout
	}
	p.typed[selector] += text
	return nil
}

func (p *Page) Typed(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typed[selector]
}

func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.pressed = append(p.pressed, key)
	p.mu.Unlock()
	if p.OnPress != nil {
		p.OnPress(p, key)
	}
	return nil
}

func (p *Page) Pressed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.pressed...)
}

func (p *Page) SelectOption(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.elements[selector]) == 0 {
		return ErrTimeout
	}
	p.selected[selector] = value
	return nil
}

func (p *Page) Selected(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected[selector]
}

func (p *Page) MouseMove(ctx context.Context, x, y float64, steps int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.moves = append(p.moves, [2]float64{x, y})
	p.mu.Unlock()
	return nil
}

// Moves returns every mouse target in order.
func (p *Page) Moves() [][2]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][2]float64(nil), p.moves...)
}

func (p *Page) WaitReady(ctx context.Context, timeout time.Duration) error {
	if p.BlockWaits {
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

func (p *Page) WaitURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error {
	if p.BlockWaits {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if match(p.URL()) {
		return nil
	}
	return ErrTimeout
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.scripts = append(p.scripts, script)
	p.mu.Unlock()
	if p.OnEvaluate != nil {
		return p.OnEvaluate(p, script, arg)
	}
	return nil, nil
}

func (p *Page) Scripts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.scripts...)
}

func (p *Page) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]browser.Cookie(nil), p.cookies...), nil
}

func (p *Page) AddCookies(ctx context.Context, cookies []browser.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cookies = append(p.cookies, cookies...)
	return nil
}

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shots = append(p.shots, path)
	return nil
}

// Session wraps a Page and counts Close calls.
type Session struct {
	page   browser.Page
	closes atomic.Int32
}

func (s *Session) Page() browser.Page { return s.page }

func (s *Session) Close() error {
	s.closes.Add(1)
	return nil
}

func (s *Session) Closes() int { return int(s.closes.Load()) }

// Launcher hands out sessions built by NewPage.
type Launcher struct {
	// NewPage builds the page for the n-th launch (0-based).
	NewPage   func(n int, opts browser.LaunchOptions) browser.Page
	LaunchErr error

	mu       sync.Mutex
	sessions []*Session
	opts     []browser.LaunchOptions
}

func (l *Launcher) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.sessions)
	var page browser.Page
	if l.NewPage != nil {
		page = l.NewPage(n, opts)
	} else {
		page = NewPage()
	}
	s := &Session{page: page}
	l.sessions = append(l.sessions, s)
	l.opts = append(l.opts, opts)
	return s, nil
}

func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Launcher) Options() []browser.LaunchOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]browser.LaunchOptions(nil), l.opts...)
}

// Closes reports the Close count of every launched session, in launch order.
func (l *Launcher) Closes() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]int, len(l.sessions))
	for i, s := range l.sessions {
		out[i] = s.Closes()
	}
	return out
}
