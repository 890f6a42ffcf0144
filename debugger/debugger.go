package debugger

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/g1/program"
	"go.creack.net/g1/vm"
)

const memoryWidth = 8

// UI is the tview front end of a Session.
type UI struct {
	app  *tview.Application
	root *tview.Pages

	insView   *tview.Table
	memView   *tview.Table
	stateView *tview.TextView
	logsView  *tview.TextView

	s *Session
}

// New creates the machine and the debugger views. cfg.Output and
// cfg.OnMessage are replaced by the log pane.
func New(p *program.Program, cfg vm.Config) (*UI, error) {
	newTextView := func(title string) *tview.TextView {
		v := tview.NewTextView().SetDynamicColors(true)
		v.SetTitle(title).SetBorder(true)
		return v
	}

	ui := &UI{
		app:       tview.NewApplication(),
		insView:   tview.NewTable().SetBorders(false).SetSelectable(true, false),
		memView:   tview.NewTable().SetBorders(false),
		stateView: newTextView("State"),
		logsView:  newTextView("Logs"),
	}
	ui.insView.SetTitle("Instructions").SetBorder(true)
	ui.memView.SetTitle("Memory").SetBorder(true)
	ui.logsView.ScrollToEnd()

	cfg.Output = ui.logsView
	cfg.OnMessage = func(msg vm.Message) {
		if msg.Type == vm.MsgError {
			fmt.Fprintf(ui.logsView, "[red::b]%s[-:-:-]\n", tview.Escape(msg.Message))
		}
	}
	m, err := vm.New(p, cfg)
	if err != nil {
		return nil, err
	}
	ui.s = NewSession(m)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.stateView, 0, 1, false).
		AddItem(ui.memView, 0, 3, false).
		AddItem(ui.logsView, 0, 2, false)
	help := tview.NewTextView().SetText("n/Enter: step   c: continue   t: next tick   q/Esc: quit")
	body := tview.NewFlex().
		AddItem(ui.insView, 0, 2, true).
		AddItem(rightPane, 0, 3, false)
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(help, 1, 0, false)

	ui.root = tview.NewPages().AddPage("main", layout, true, true)
	ui.root.SetInputCapture(ui.handleKey)
	ui.drawInstructions()
	ui.Draw()
	return ui, nil
}

// Session returns the underlying session.
func (ui *UI) Session() *Session { return ui.s }

func (ui *UI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	var err error
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		ui.app.Stop()
		return nil
	case tcell.KeyEnter:
		err = ui.s.Step()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'n':
			err = ui.s.Step()
		case 'c':
			err = ui.s.Continue()
		case 't':
			err = ui.s.NextTick()
		case 'q':
			ui.app.Stop()
			return nil
		default:
			return event
		}
	default:
		return event
	}
	ui.m().Memory.ResetAccess()
	if err != nil {
		ui.logStatus(err)
	}
	ui.Draw()
	return nil
}

func (ui *UI) m() *vm.Machine { return ui.s.M }

func (ui *UI) logStatus(err error) {
	switch {
	case errors.Is(err, io.EOF):
		fmt.Fprintf(ui.logsView, "[yellow]Run over, press t for the next tick.[-]\n")
	case errors.Is(err, ErrHalted):
		fmt.Fprintf(ui.logsView, "[yellow]Machine halted.[-]\n")
	default:
		// Runtime errors are reported through the message hook.
	}
}

func (ui *UI) drawInstructions() {
	p := ui.m().Program
	for i, ins := range p.Instructions {
		text := ins.String()
		if line, src, ok := p.SourceLine(uint32(i)); ok {
			text = fmt.Sprintf("%-24s %d | %s", text, line+1, strings.TrimSpace(src))
		}
		ui.insView.SetCell(i, 0, tview.NewTableCell(fmt.Sprintf("%4d", i)).SetTextColor(tcell.ColorDimGray))
		ui.insView.SetCell(i, 1, tview.NewTableCell(tview.Escape(text)).SetExpansion(1))
	}
}

func (ui *UI) drawMemory() {
	mem := ui.m().Memory
	for i := range mem.Len() {
		v, access, _ := mem.Peek(i)
		cell := tview.NewTableCell(fmt.Sprintf("%d", v)).SetAlign(tview.AlignRight).SetExpansion(1)
		switch {
		case access == vm.AccessWrite:
			cell.SetAttributes(tcell.AttrBold).SetTextColor(tcell.ColorRed)
		case access == vm.AccessRead:
			cell.SetAttributes(tcell.AttrUnderline).SetTextColor(tcell.ColorGreen)
		case v == 0:
			cell.SetTextColor(tcell.ColorDimGray).SetAttributes(tcell.AttrDim)
		}
		ui.memView.SetCell(i/memoryWidth, i%memoryWidth, cell)
	}
}

func (ui *UI) drawState() {
	ui.stateView.Clear()
	m := ui.m()
	fmt.Fprintf(ui.stateView, "Phase: %s\n", ui.s.Phase)
	fmt.Fprintf(ui.stateView, "PC: %d / %d\n", m.PC, len(m.Program.Instructions))
	fmt.Fprintf(ui.stateView, "Color: %d %d %d\n", m.Color.R, m.Color.G, m.Color.B)
	fmt.Fprintf(ui.stateView, "Ticks: %d\n", ui.s.Ticks)
	fmt.Fprintf(ui.stateView, "Steps: %d\n", m.Steps)
}

// Draw refreshes every view from the machine state.
func (ui *UI) Draw() {
	ui.drawMemory()
	ui.drawState()
	if !ui.m().Done() && ui.s.Phase != PhaseIdle {
		ui.insView.Select(int(ui.m().PC), 0)
	}
}

// Run blocks until the user quits.
func (ui *UI) Run() error {
	return ui.app.SetRoot(ui.root, true).EnableMouse(true).Run()
}
