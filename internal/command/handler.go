package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pkt.systems/tabsession/core"
	"pkt.systems/tabsession/internal/format"
	"pkt.systems/tabsession/internal/logx"
	"pkt.systems/tabsession/internal/sessionprefs"
	"pkt.systems/tabsession/internal/version"
	"pkt.systems/tabsession/schema"
)

// HandlerConfig configures slash command behavior.
type HandlerConfig struct {
	DisableAuditLogging bool
	// Now formats relative close times; defaults to time.Now.
	Now func() time.Time
}

// Handler routes slash commands and address input to engine operations.
type Handler struct {
	engine *core.Engine
	out    io.Writer
	cfg    HandlerConfig
}

// NewHandler constructs a command handler writing its output to out.
func NewHandler(engine *core.Engine, out io.Writer, cfg HandlerConfig) *Handler {
	if out == nil {
		out = io.Discard
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{engine: engine, out: out, cfg: cfg}
}

// Handle executes a slash command, or navigates the active tab when input is
// plain address text. It reports false for blank input.
func (h *Handler) Handle(ctx context.Context, input string) (bool, error) {
	if ctx == nil {
		return false, errors.New("missing context")
	}
	if h.engine == nil {
		return false, errors.New("missing engine")
	}
	state := h.engine.State()
	var activeGroup schema.GroupID
	if active, ok := core.ActiveTab(state); ok {
		activeGroup = active.GroupID
	}
	baseLog := logx.WithTabGroup(ctx, state.ActiveTabID, activeGroup)
	ctx = logx.ContextWithGroup(logx.ContextWithTabLogger(ctx, baseLog, state.ActiveTabID), activeGroup)
	log := baseLog.With("input_len", len(input))
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false, nil
	}
	cmd, ok := Parse(input)
	if !ok {
		log.Info("command address request")
		return true, h.handleAddress(ctx, trimmed)
	}
	if !h.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "slash", "command", trimmed)
	}
	log = log.With("command", cmd.Name, "args", len(cmd.Args))
	log.Info("command slash request")
	switch cmd.Name {
	case "":
		log.Warn("command slash rejected", "reason", "empty")
		return true, fmt.Errorf("invalid command")
	case "open", "new":
		return true, h.handleOpen(ctx, cmd)
	case "close":
		return true, h.handleClose(ctx, cmd)
	case "tabs", "ls":
		return true, h.handleTabs(ctx)
	case "go":
		return true, h.handleGo(ctx, cmd)
	case "back":
		return true, h.handleHistory(ctx, cmd, -1)
	case "forward":
		return true, h.handleHistory(ctx, cmd, 1)
	case "pin":
		return true, h.handlePin(ctx, cmd)
	case "closed":
		return true, h.handleClosed(ctx)
	case "reopen":
		return true, h.handleReopen(ctx, cmd)
	case "group":
		return true, h.handleGroup(ctx, cmd)
	case "suggest":
		return true, h.handleSuggest(ctx, cmd)
	case "set":
		return true, h.handleSet(ctx, cmd)
	case "closeall":
		return true, h.handleCloseAll(ctx)
	case "private":
		return true, h.handlePrivate(ctx)
	case "verbose":
		return true, h.handleVerbose(ctx, cmd)
	case "help":
		return true, h.handleHelp(ctx)
	case "version":
		return true, h.handleVersion(ctx)
	default:
		log.Warn("command slash rejected", "reason", "unknown")
		return true, fmt.Errorf("unknown command: /%s", cmd.Name)
	}
}

func (h *Handler) handleAddress(ctx context.Context, address string) error {
	state := h.engine.State()
	if !h.engine.Navigate(state.ActiveTabID, address) {
		h.appendStatus(ctx, "already at "+address)
		return nil
	}
	h.appendStatus(ctx, "navigated to "+address)
	return nil
}

func (h *Handler) handleOpen(ctx context.Context, cmd Command) error {
	opts := core.TabOptions{Incognito: sessionprefs.FromContext(ctx).Private()}
	makeActive := true
	var rest []string
	for _, arg := range cmd.Args {
		switch arg {
		case "-b", "--background":
			makeActive = false
		case "-i", "--incognito":
			opts.Incognito = true
		case "-p", "--pinned":
			opts.Status = schema.TabStatusPinned
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) > 1 {
		return fmt.Errorf("usage: /open [-b] [-i] [-p] [url]")
	}
	if len(rest) == 1 {
		opts.URL = rest[0]
	}
	id := h.engine.OpenTab(opts, makeActive)
	logx.WithTab(ctx, id).Info("command open completed", "active", makeActive, "incognito", opts.Incognito)
	if opts.URL != "" {
		h.engine.AddSuggestion(opts.URL)
	}
	h.appendStatus(ctx, fmt.Sprintf("opened %s", id))
	return nil
}

func (h *Handler) handleClose(ctx context.Context, cmd Command) error {
	tab, err := h.targetTab(cmd.Remainder)
	if err != nil {
		return err
	}
	log := logx.WithTab(ctx, tab.ID)
	if !h.engine.CloseTab(tab.ID, schema.CloseReasonUser) {
		log.Info("command close refused", "reason", "last tab")
		return fmt.Errorf("cannot close the last tab")
	}
	log.Info("command close completed")
	h.appendStatus(ctx, fmt.Sprintf("closed %s", format.TabLabel(tab)))
	return nil
}

func (h *Handler) handleTabs(ctx context.Context) error {
	state := h.engine.State()
	summaries := core.Summaries(state)
	verbose := sessionprefs.FromContext(ctx).Verbose()
	lines := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		line := format.Summary(summary, state.TabGroups)
		if verbose {
			line += "  [" + string(summary.ID) + "]"
		}
		lines = append(lines, line)
	}
	h.appendLines(ctx, lines)
	return nil
}

func (h *Handler) handleGo(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("usage: /go <tab>")
	}
	tab, err := core.ResolveTab(h.engine.State(), cmd.Args[0])
	if err != nil {
		return err
	}
	h.engine.ActivateTab(tab.ID)
	logx.WithTab(ctx, tab.ID).Info("command go completed")
	h.appendStatus(ctx, fmt.Sprintf("switched to %s", format.TabLabel(tab)))
	return nil
}

func (h *Handler) handleHistory(ctx context.Context, cmd Command, delta int) error {
	tab, err := h.targetTab(cmd.Remainder)
	if err != nil {
		return err
	}
	var moved bool
	if delta < 0 {
		moved = h.engine.GoBack(tab.ID)
	} else {
		moved = h.engine.GoForward(tab.ID)
	}
	if !moved {
		if delta < 0 {
			return fmt.Errorf("no earlier history")
		}
		return fmt.Errorf("no later history")
	}
	updated, _ := core.TabByID(h.engine.State(), tab.ID)
	h.appendStatus(ctx, "now at "+updated.URL)
	return nil
}

func (h *Handler) handlePin(ctx context.Context, cmd Command) error {
	tab, err := h.targetTab(cmd.Remainder)
	if err != nil {
		return err
	}
	pin := !tab.Pinned()
	h.engine.PinTab(tab.ID, pin)
	logx.WithTab(ctx, tab.ID).Info("command pin completed", "pinned", pin)
	if pin {
		h.appendStatus(ctx, fmt.Sprintf("pinned %s", format.TabLabel(tab)))
	} else {
		h.appendStatus(ctx, fmt.Sprintf("unpinned %s", format.TabLabel(tab)))
	}
	return nil
}

func (h *Handler) handleClosed(ctx context.Context) error {
	state := h.engine.State()
	if len(state.RecentlyClosed) == 0 {
		h.appendStatus(ctx, "no recently closed tabs")
		return nil
	}
	now := h.cfg.Now()
	lines := make([]string, 0, len(state.RecentlyClosed))
	for i, entry := range state.RecentlyClosed {
		lines = append(lines, format.ClosedEntry(i+1, entry, now))
	}
	h.appendLines(ctx, lines)
	return nil
}

func (h *Handler) handleReopen(ctx context.Context, cmd Command) error {
	index := 0
	if len(cmd.Args) > 0 {
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: /reopen [n]")
		}
		index = n - 1
	}
	if !h.engine.ReopenClosedAt(index) {
		return fmt.Errorf("nothing to reopen")
	}
	state := h.engine.State()
	logx.WithTab(ctx, state.ActiveTabID).Info("command reopen completed", "index", index)
	if tab, ok := core.ActiveTab(state); ok {
		h.appendStatus(ctx, fmt.Sprintf("reopened %s", format.TabLabel(tab)))
	}
	return nil
}

func (h *Handler) handleGroup(ctx context.Context, cmd Command) error {
	const usage = "usage: /group list|new <title> [color]|add <group> [tab]|remove [tab]|toggle <group>|delete <group>"
	if len(cmd.Args) == 0 {
		return errors.New(usage)
	}
	state := h.engine.State()
	switch strings.ToLower(cmd.Args[0]) {
	case "list", "ls":
		groups := core.Groups(state)
		if len(groups) == 0 {
			h.appendStatus(ctx, "no groups")
			return nil
		}
		lines := make([]string, 0, len(groups))
		for _, group := range groups {
			lines = append(lines, format.Group(group, len(core.TabsInGroup(state, group.ID))))
		}
		h.appendLines(ctx, lines)
		return nil
	case "new", "create":
		if len(cmd.Args) < 2 {
			return errors.New(usage)
		}
		color := ""
		if len(cmd.Args) > 2 {
			color = cmd.Args[2]
		}
		id := h.engine.CreateGroup(cmd.Args[1], color)
		logx.WithTabGroup(ctx, state.ActiveTabID, id).Info("command group created")
		h.appendStatus(ctx, fmt.Sprintf("created group %s (%s)", cmd.Args[1], id))
		return nil
	case "add":
		if len(cmd.Args) < 2 {
			return errors.New(usage)
		}
		group, err := core.ResolveGroup(state, cmd.Args[1])
		if err != nil {
			return err
		}
		tab, err := h.targetTab(cmd.Rest(2))
		if err != nil {
			return err
		}
		h.engine.AssignGroup(tab.ID, group.ID)
		logx.WithTabGroup(ctx, tab.ID, group.ID).Info("command group assigned")
		h.appendStatus(ctx, fmt.Sprintf("added %s to %s", format.TabLabel(tab), group.Title))
		return nil
	case "remove", "rm":
		tab, err := h.targetTab(cmd.Rest(1))
		if err != nil {
			return err
		}
		if !h.engine.AssignGroup(tab.ID, "") {
			return fmt.Errorf("tab is not in a group")
		}
		h.appendStatus(ctx, fmt.Sprintf("removed %s from its group", format.TabLabel(tab)))
		return nil
	case "toggle":
		if len(cmd.Args) < 2 {
			return errors.New(usage)
		}
		group, err := core.ResolveGroup(state, cmd.Args[1])
		if err != nil {
			return err
		}
		h.engine.ToggleGroupCollapsed(group.ID)
		if group.Collapsed {
			h.appendStatus(ctx, fmt.Sprintf("expanded %s", group.Title))
		} else {
			h.appendStatus(ctx, fmt.Sprintf("collapsed %s", group.Title))
		}
		return nil
	case "delete", "del":
		if len(cmd.Args) < 2 {
			return errors.New(usage)
		}
		group, err := core.ResolveGroup(state, cmd.Args[1])
		if err != nil {
			return err
		}
		h.engine.DeleteGroup(group.ID)
		logx.WithTabGroup(ctx, state.ActiveTabID, group.ID).Info("command group deleted")
		h.appendStatus(ctx, fmt.Sprintf("deleted group %s", group.Title))
		return nil
	default:
		return errors.New(usage)
	}
}

func (h *Handler) handleSuggest(ctx context.Context, cmd Command) error {
	values := core.Suggestions(h.engine.State(), cmd.Remainder)
	if len(values) == 0 {
		h.appendStatus(ctx, "no suggestions")
		return nil
	}
	h.appendLines(ctx, values)
	return nil
}

func (h *Handler) handleSet(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		h.appendLines(ctx, FormatSettings(h.engine.State().Settings))
		return nil
	}
	if len(cmd.Args) != 2 {
		return fmt.Errorf("usage: /set [<key> <value>]")
	}
	patch, err := SettingPatch(cmd.Args[0], cmd.Args[1])
	if err != nil {
		return err
	}
	if !h.engine.UpdateSettings(patch) {
		h.appendStatus(ctx, "settings unchanged")
		return nil
	}
	h.appendStatus(ctx, fmt.Sprintf("%s set to %s", cmd.Args[0], cmd.Args[1]))
	return nil
}

func (h *Handler) handleCloseAll(ctx context.Context) error {
	id := h.engine.CloseAllTabs()
	logx.WithTab(ctx, id).Info("command closeall completed")
	h.appendStatus(ctx, "closed all tabs")
	return nil
}

func (h *Handler) handlePrivate(ctx context.Context) error {
	prefs := sessionprefs.FromContext(ctx)
	if prefs == nil {
		return errors.New("no shell preferences in this context")
	}
	if prefs.TogglePrivate() {
		h.appendStatus(ctx, "new tabs open incognito")
	} else {
		h.appendStatus(ctx, "new tabs open normally")
	}
	return nil
}

func (h *Handler) handleVerbose(ctx context.Context, cmd Command) error {
	prefs := sessionprefs.FromContext(ctx)
	if prefs == nil {
		return errors.New("no shell preferences in this context")
	}
	enabled := !prefs.Verbose()
	if len(cmd.Args) > 0 {
		parsed, err := parseToggle(cmd.Args[0])
		if err != nil {
			return err
		}
		enabled = parsed
	}
	prefs.SetVerbose(enabled)
	h.appendStatus(ctx, fmt.Sprintf("verbose listings %s", onOff(enabled)))
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (h *Handler) handleHelp(ctx context.Context) error {
	h.appendLines(ctx, helpLines())
	return nil
}

func (h *Handler) handleVersion(ctx context.Context) error {
	h.appendLines(ctx, []string{version.Banner("")})
	return nil
}

// targetTab resolves ref, or the active tab when ref is empty.
func (h *Handler) targetTab(ref string) (schema.Tab, error) {
	state := h.engine.State()
	if strings.TrimSpace(ref) == "" {
		tab, ok := core.ActiveTab(state)
		if !ok {
			return schema.Tab{}, schema.ErrTabNotFound
		}
		return tab, nil
	}
	return core.ResolveTab(state, ref)
}

func helpLines() []string {
	return []string{
		"commands:",
		"  <url>                      navigate the active tab",
		"  /open [-b] [-i] [-p] [url] open a tab (background, incognito, pinned)",
		"  /close [tab]               close a tab",
		"  /tabs                      list tabs",
		"  /go <tab>                  switch to a tab by position, id or id prefix",
		"  /back [tab] /forward [tab] move through tab history",
		"  /pin [tab]                 toggle pinned",
		"  /closed                    list recently closed tabs",
		"  /reopen [n]                reopen a recently closed tab",
		"  /group list|new|add|remove|toggle|delete",
		"  /suggest [text]            search address suggestions",
		"  /set [<key> <value>]       show or change settings",
		"  /closeall                  replace all tabs with a new tab",
		"  /private                   toggle opening new tabs incognito",
		"  /verbose [on|off]          show tab ids in listings",
		"  /version                   show version",
	}
}

func (h *Handler) appendStatus(ctx context.Context, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	h.appendLine(ctx, "status: "+message)
}

func (h *Handler) appendLines(ctx context.Context, lines []string) {
	for _, line := range lines {
		h.appendLine(ctx, line)
	}
}

func (h *Handler) appendLine(ctx context.Context, line string) {
	if _, err := fmt.Fprintln(h.out, line); err != nil {
		logx.Ctx(ctx).Warn("command output failed", "err", err)
	}
}
