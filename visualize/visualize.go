// Package visualize renders a running vm.VM as a scrollable tview
// dashboard: registers, flags, the next decoded instruction, and a
// hex dump of memory starting at the program counter. It is
// read-only, with no breakpoints, watchpoints, or command input.
package visualize

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/joy-lang/joy/isa"
	"github.com/joy-lang/joy/joyconfig"
	"github.com/joy-lang/joy/vm"
)

// Dashboard is a tview.Application driven off a read-only VM snapshot.
type Dashboard struct {
	Machine *vm.VM
	App     *tview.Application

	Layout       *tview.Flex
	RegisterView *tview.TextView
	FlagsView    *tview.TextView
	NextView     *tview.TextView
	MemoryView   *tview.TextView

	bytesPerLine int
	numberFormat string

	// Step gates single-instruction advance in `step` mode; nil means
	// `visualize` mode, in which the caller steps Machine itself and
	// calls RefreshAll.
	Step func() (bool, error)

	lastErr error
	halted  bool
}

// NewDashboard builds the dashboard layout around machine, formatting
// memory per cfg.Display.
func NewDashboard(machine *vm.VM, cfg *joyconfig.Config) *Dashboard {
	d := &Dashboard{
		Machine:      machine,
		App:          tview.NewApplication(),
		bytesPerLine: cfg.Display.BytesPerLine,
		numberFormat: cfg.Display.NumberFormat,
	}
	if d.bytesPerLine <= 0 {
		d.bytesPerLine = 16
	}

	d.initializeViews()
	d.buildLayout()
	d.setupKeyBindings()
	return d
}

func (d *Dashboard) initializeViews() {
	d.RegisterView = tview.NewTextView().SetDynamicColors(true)
	d.RegisterView.SetBorder(true).SetTitle(" Registers ")

	d.FlagsView = tview.NewTextView().SetDynamicColors(true)
	d.FlagsView.SetBorder(true).SetTitle(" Flags ")

	d.NextView = tview.NewTextView().SetDynamicColors(true)
	d.NextView.SetBorder(true).SetTitle(" Next instruction ")

	d.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	d.MemoryView.SetBorder(true).SetTitle(" Memory ")
}

func (d *Dashboard) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(d.RegisterView, 0, 1, false).
		AddItem(d.FlagsView, 0, 1, false).
		AddItem(d.NextView, 0, 2, false)

	d.Layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 7, 0, false).
		AddItem(d.MemoryView, 0, 1, false)
}

func (d *Dashboard) setupKeyBindings() {
	d.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			d.App.Stop()
			return nil
		case tcell.KeyEnter:
			if d.Step != nil {
				d.advance()
			}
			return nil
		}
		if event.Rune() == 'q' {
			d.App.Stop()
			return nil
		}
		return event
	})
}

func (d *Dashboard) advance() {
	if d.halted {
		return
	}
	cont, err := d.Step()
	if err != nil {
		d.lastErr = err
		d.halted = true
	} else if !cont {
		d.halted = true
	}
	d.RefreshAll()
}

// RefreshAll redraws every panel from the current machine state.
func (d *Dashboard) RefreshAll() {
	d.updateRegisters()
	d.updateFlags()
	d.updateNext()
	d.updateMemory()
	d.App.Draw()
}

func (d *Dashboard) updateRegisters() {
	fmtNum := d.formatWord
	lines := []string{
		fmt.Sprintf("A:  %s", fmtNum(d.Machine.A)),
		fmt.Sprintf("B:  %s", fmtNum(d.Machine.B)),
		fmt.Sprintf("PC: %s", fmtNum(d.Machine.PC)),
		fmt.Sprintf("SC: %s", fmtNum(d.Machine.SC)),
	}
	if d.lastErr != nil {
		lines = append(lines, fmt.Sprintf("[red]trap: %v[white]", d.lastErr))
	} else if d.halted {
		lines = append(lines, "[yellow]halted[white]")
	}
	d.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (d *Dashboard) updateFlags() {
	f := d.Machine.Flags
	d.FlagsView.SetText(fmt.Sprintf("Zero:     %v\nNegative: %v\nEven:     %v\nCycles:   %d",
		f.Zero, f.Negative, f.Even, d.Machine.Cycles))
}

func (d *Dashboard) updateNext() {
	opcode, tr := d.Machine.Memory.ReadByte(d.Machine.PC)
	if tr != nil {
		d.NextView.SetText(fmt.Sprintf("[red]%v[white]", tr))
		return
	}
	name, ok := isa.FromOpcode(opcode)
	if !ok {
		d.NextView.SetText(fmt.Sprintf("0x%08X: <unmapped opcode 0x%02X>", d.Machine.PC, opcode))
		return
	}
	argv, _ := d.Machine.Memory.ReadWord(d.Machine.PC + 1)
	d.NextView.SetText(fmt.Sprintf("0x%08X: %s %s", d.Machine.PC, isa.ToMnemonic(name), d.formatWord(argv)))
}

func (d *Dashboard) updateMemory() {
	start := d.Machine.PC
	if start+uint32(d.bytesPerLine*4) > d.Machine.Memory.Size() {
		if d.Machine.Memory.Size() > uint32(d.bytesPerLine*4) {
			start = d.Machine.Memory.Size() - uint32(d.bytesPerLine*4)
		} else {
			start = 0
		}
	}

	var b strings.Builder
	for row := uint32(0); row < 8; row++ {
		addr := start + row*uint32(d.bytesPerLine)
		if addr >= d.Machine.Memory.Size() {
			break
		}
		fmt.Fprintf(&b, "0x%08X: ", addr)
		for col := 0; col < d.bytesPerLine; col++ {
			byteAddr := addr + uint32(col)
			if byteAddr >= d.Machine.Memory.Size() {
				break
			}
			value, tr := d.Machine.Memory.ReadByte(byteAddr)
			if tr != nil {
				break
			}
			marker := ""
			if byteAddr == d.Machine.PC {
				marker = "[yellow]"
			}
			fmt.Fprintf(&b, "%s%02X[white] ", marker, value)
		}
		b.WriteString("\n")
	}
	d.MemoryView.SetText(b.String())
}

func (d *Dashboard) formatWord(w uint32) string {
	if d.numberFormat == "dec" {
		return fmt.Sprintf("%d", w)
	}
	return fmt.Sprintf("0x%08X", w)
}

// Run starts the dashboard event loop. In step mode (Step != nil) the
// user advances with Enter; otherwise it is expected the caller drives
// Machine externally and calls RefreshAll.
func (d *Dashboard) Run() error {
	d.RefreshAll()
	return d.App.SetRoot(d.Layout, true).EnableMouse(false).Run()
}

// Stop tears down the dashboard.
func (d *Dashboard) Stop() {
	d.App.Stop()
}
