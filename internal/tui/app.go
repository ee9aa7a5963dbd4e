package tui

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/tui/keys"
	"github.com/matheus3301/knock/internal/tui/model"
	"github.com/matheus3301/knock/internal/tui/ui"
	"github.com/matheus3301/knock/internal/tui/views"
	"github.com/rivo/tview"
)

const (
	pageInbox  = "inbox"
	pageReveal = "reveal"
	pagePrompt = "prompt"

	flashTTL = 5 * time.Second
)

// Options configures the TUI.
type Options struct {
	Profile string
	Scheme  string
	Theme   *ui.Theme
}

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	vm        *model.ViewModel
	client    *api.Client
	opts      Options
	registry  *keys.Registry
	statusBar *views.StatusBar
	inbox     *views.Inbox
	reveal    *views.RevealView
	prompt    *ui.Prompt
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *api.Client, opts Options) *App {
	if opts.Theme == nil {
		opts.Theme = ui.DarkTheme()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		vm:        model.NewViewModel(c),
		client:    c,
		opts:      opts,
		registry:  keys.NewRegistry(),
		statusBar: views.NewStatusBar(),
		inbox:     views.NewInbox(opts.Theme),
		reveal:    views.NewRevealView(opts.Theme),
		prompt:    ui.NewPrompt(opts.Theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(opts.Profile)
	a.setupBindings()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Description: "q:quit", Visible: true,
		Handler: a.Stop,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Description: ":cmd", Visible: true,
		Handler: a.showPrompt,
	})
	a.registry.AddGlobal(&keys.Action{
		Key:         tcell.KeyCtrlR,
		Description: "^r:refresh",
		Handler:     func() { go a.refresh() },
	})

	a.registry.AddPage(pageInbox, &keys.Action{
		Key:         tcell.KeyEnter,
		Description: "enter:open", Visible: true,
		Handler: a.openSelected,
	})
	a.registry.AddPage(pageInbox, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r',
		Description: "r:read", Visible: true,
		Handler: a.readSelected,
	})
	a.registry.AddPage(pageInbox, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd',
		Description: "d:delete", Visible: true,
		Handler: a.deleteSelected,
	})

	a.registry.AddPage(pageReveal, &keys.Action{
		Key: tcell.KeyRune, Rune: ' ',
		Description: "space:tap", Visible: true,
		Handler: a.tap,
	})
	a.registry.AddPage(pageReveal, &keys.Action{
		Key:         tcell.KeyEscape,
		Description: "esc:dismiss", Visible: true,
		Handler: a.dismiss,
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageInbox, a.inbox, true, true)
	a.pages.AddPage(pageReveal, centered(a.reveal, 48, 14), true, false)
	a.pages.AddPage(pagePrompt, tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(a.prompt, 3, 0, true), true, false)

	a.prompt.SetOnSubmit(func(text string) {
		a.hidePrompt()
		a.execute(ParseCommand(text))
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	a.app.SetRoot(root, true)
	a.statusBar.SetHints(a.registry.Hints(pageInbox))

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		front, _ := a.pages.GetFrontPage()
		if front == pagePrompt {
			return event
		}
		if a.registry.HandleEvent(front, event) {
			return nil
		}
		return event
	})
}

// centered wraps p in flexes that keep it at w x h in the middle of the screen.
func centered(p tview.Primitive, w, h int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, h, 0, true).
			AddItem(nil, 0, 1, false), w, 0, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) showPrompt() {
	a.pages.ShowPage(pagePrompt)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.pages.HidePage(pagePrompt)
	a.focusFront()
}

func (a *App) focusFront() {
	front, _ := a.pages.GetFrontPage()
	if front == pageReveal {
		a.app.SetFocus(a.reveal)
	} else {
		a.app.SetFocus(a.inbox)
	}
	a.statusBar.SetHints(a.registry.Hints(front))
}

func (a *App) execute(cmd Command) {
	switch cmd.Canonical() {
	case "open":
		if cmd.Args == "" {
			a.flashError(fmt.Errorf("usage: open <url>"))
			return
		}
		a.open(cmd.Args)
	case "tap":
		a.tap()
	case "dismiss":
		a.dismiss()
	case "read":
		a.readSelected()
	case "delete":
		a.deleteSelected()
	case "refresh":
		go a.refresh()
	case "quit":
		a.Stop()
	default:
		a.flashError(fmt.Errorf("unknown command %q", cmd.Name))
	}
}

func messageLink(scheme, id string) string {
	return scheme + "://message/" + url.PathEscape(id)
}

func (a *App) openSelected() {
	msg, ok := a.inbox.Selected()
	if !ok {
		return
	}
	a.open(messageLink(a.opts.Scheme, msg.ID))
}

func (a *App) open(link string) {
	go func() {
		resp, err := a.vm.Open(a.ctx, link)
		if err != nil {
			a.vm.FlashErr("Open failed", err)
		} else if resp.Destination == "" {
			a.vm.Flash.Set("Link not recognized", flashTTL)
		} else if resp.Reveal == nil {
			a.vm.Flash.Set("Opened "+resp.Destination, flashTTL)
		}
		a.app.QueueUpdateDraw(a.render)
	}()
}

func (a *App) readSelected() {
	msg, ok := a.inbox.Selected()
	if !ok || msg.Read {
		return
	}
	a.async("Mark read failed", func(ctx context.Context) error { return a.vm.MarkRead(ctx, msg.ID) })
}

func (a *App) deleteSelected() {
	msg, ok := a.inbox.Selected()
	if !ok {
		return
	}
	a.async("Delete failed", func(ctx context.Context) error { return a.vm.Delete(ctx, msg.ID) })
}

func (a *App) tap() {
	a.async("Tap failed", a.vm.Tap)
}

func (a *App) dismiss() {
	a.async("Dismiss failed", a.vm.Dismiss)
}

// async runs fn off the UI goroutine, then redraws.
func (a *App) async(what string, fn func(context.Context) error) {
	go func() {
		if err := fn(a.ctx); err != nil {
			a.vm.FlashErr(what, err)
		}
		a.app.QueueUpdateDraw(a.render)
	}()
}

func (a *App) flashError(err error) {
	a.vm.Flash.Error(err.Error(), flashTTL)
	a.render()
}

// render pushes the view model into the widgets. Must run on the UI goroutine.
func (a *App) render() {
	st := a.vm.Status()
	a.inbox.Update(a.vm.Inbox(), a.vm.SenderName)
	a.statusBar.SetCounters(st.Authorization, a.vm.Unread(), st.Scheduled)
	msg, isErr := a.vm.Flash.Get()
	a.statusBar.SetFlash(msg, isErr)

	v := a.vm.Reveal()
	switch v.State {
	case "ANIMATING", "AWAITING_TAPS", "REVEALED":
		sender := ""
		if v.Message != nil {
			sender = a.vm.SenderName(v.Message.FromContactID)
		}
		a.reveal.Update(v, sender)
		if front, _ := a.pages.GetFrontPage(); front != pageReveal && front != pagePrompt {
			a.pages.ShowPage(pageReveal)
			a.focusFront()
		}
	default:
		a.pages.HidePage(pageReveal)
		if front, _ := a.pages.GetFrontPage(); front == pageInbox {
			a.focusFront()
		}
	}
}

func (a *App) refresh() {
	if err := a.vm.LoadStatus(a.ctx); err != nil {
		a.vm.FlashErr("Status failed", err)
	}
	if err := a.vm.LoadInbox(a.ctx); err != nil {
		a.vm.FlashErr("Inbox failed", err)
	}
	if err := a.vm.LoadReveal(a.ctx); err != nil {
		a.vm.FlashErr("Reveal failed", err)
	}
	a.app.QueueUpdateDraw(a.render)
}

// Run starts the TUI application.
func (a *App) Run() error {
	go func() {
		a.refresh()
		go a.watch()
		a.startRefreshLoop()
	}()
	return a.app.Run()
}

// watch follows daemon events, reconnecting until the app stops.
func (a *App) watch() {
	for a.ctx.Err() == nil {
		stream, err := a.client.WatchEvents(a.ctx, "")
		if err == nil {
			for {
				evt, err := stream.Recv()
				if err != nil {
					break
				}
				a.handleEvent(evt)
			}
		}
		select {
		case <-a.ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (a *App) handleEvent(evt api.EventEnvelope) {
	switch evt.Kind {
	case bus.KindRevealChanged:
		if err := a.vm.LoadReveal(a.ctx); err != nil {
			a.vm.FlashErr("Reveal failed", err)
		}
	case bus.KindMessageReceived, bus.KindMessageRead, bus.KindStoreChanged:
		_ = a.vm.LoadStatus(a.ctx)
		if err := a.vm.LoadInbox(a.ctx); err != nil {
			a.vm.FlashErr("Inbox failed", err)
		}
	case bus.KindMessageDropped:
		a.vm.Flash.Set("Dropped a malformed notification", flashTTL)
	case bus.KindTriggerFailed:
		a.vm.Flash.Error("A message could not be scheduled", flashTTL)
	default:
		return
	}
	a.app.QueueUpdateDraw(a.render)
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = a.vm.LoadStatus(a.ctx)
				a.app.QueueUpdateDraw(a.render)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
