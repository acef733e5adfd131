package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/joy-lang/joy/assemble"
	"github.com/joy-lang/joy/joyconfig"
	"github.com/joy-lang/joy/vm"
	"github.com/joy-lang/joy/visualize"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		check       = flag.Bool("check", false, "Assemble only and report errors, without running")
		dumpSymbols = flag.Bool("dump-symbols", false, "Assemble, dump the resolved symbol table, and exit")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("joy %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	asmFile := flag.Arg(0)
	mode := "run"
	if flag.NArg() > 1 {
		mode = flag.Arg(1)
	}

	if _, err := os.Stat(asmFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", asmFile)
		os.Exit(1)
	}

	cfg, err := joyconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	opts := assemble.Options{MemorySize: cfg.Assembler.MemorySize, Mode: cfg.MemwordMode()}
	if cfg.Assembler.RNGSeed != 0 {
		opts.RNGSeed = &cfg.Assembler.RNGSeed
	}

	img, err := assemble.Assemble(asmFile, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error:\n%v\n", err)
		os.Exit(1)
	}

	if *dumpSymbols {
		if err := dumpSymbolTable(img, *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping symbols: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *check {
		fmt.Println("OK")
		os.Exit(0)
	}

	machine := vm.NewFromImage(img)
	machine.Mock = cfg.VM.MockIO

	switch mode {
	case "run":
		if err := machine.Run(cfg.VM.MaxCycles); err != nil {
			fmt.Fprintf(os.Stderr, "Runtime error at PC=0x%08X: %v\n", machine.PC, err)
			os.Exit(1)
		}
	case "cycles":
		instructions := uint64(0)
		for {
			cont, err := machine.Step()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Runtime error at PC=0x%08X: %v\n", machine.PC, err)
				os.Exit(1)
			}
			instructions++
			if !cont {
				break
			}
			if cfg.VM.MaxCycles != 0 && machine.Cycles >= cfg.VM.MaxCycles {
				fmt.Fprintln(os.Stderr, "exceeded max_cycles")
				os.Exit(1)
			}
		}
		fmt.Printf("instructions: %d\ncycles: %d\n", instructions, machine.Cycles)
	case "memory-dump":
		machine.Mock = true
		for {
			dumpMemory(machine, cfg)
			cont, err := machine.Step()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Runtime error at PC=0x%08X: %v\n", machine.PC, err)
				os.Exit(1)
			}
			if !cont {
				dumpMemory(machine, cfg)
				break
			}
			if cfg.VM.MaxCycles != 0 && machine.Cycles >= cfg.VM.MaxCycles {
				fmt.Fprintln(os.Stderr, "exceeded max_cycles")
				os.Exit(1)
			}
		}
	case "visualize", "step":
		dash := visualize.NewDashboard(machine, cfg)
		if mode == "step" {
			dash.Step = machine.Step
		} else {
			go func() {
				for {
					cont, err := machine.Step()
					dash.RefreshAll()
					if err != nil || !cont {
						return
					}
				}
			}()
		}
		if err := dash.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Visualizer error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", mode)
		os.Exit(1)
	}
}

func dumpMemory(machine *vm.VM, cfg *joyconfig.Config) {
	bytesPerLine := cfg.Display.BytesPerLine
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}
	size := machine.Memory.Size()
	for addr := uint32(0); addr < size; addr += uint32(bytesPerLine) {
		fmt.Printf("0x%08X: ", addr)
		for col := 0; col < bytesPerLine && addr+uint32(col) < size; col++ {
			b, _ := machine.Memory.ReadByte(addr + uint32(col))
			if cfg.Display.NumberFormat == "dec" {
				fmt.Printf("%3d ", b)
			} else {
				fmt.Printf("%02X ", b)
			}
		}
		fmt.Println()
	}
}

func dumpSymbolTable(img *assemble.Image, filename string) error {
	var writer *os.File
	if filename == "" {
		writer = os.Stdout
	} else {
		f, err := os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	names := img.Symbols.Names()
	sort.Strings(names)

	fmt.Fprintln(writer, "Symbol Table")
	fmt.Fprintln(writer, "============")
	fmt.Fprintf(writer, "%-30s %s\n", "Name", "Value")
	for _, name := range names {
		value, _ := img.Symbols.Lookup(name)
		fmt.Fprintf(writer, "%-30s %s\n", name, value)
	}
	fmt.Fprintf(writer, "\nTotal symbols: %d\n", len(names))
	return nil
}

func printHelp() {
	fmt.Printf(`joy %s

Usage: joy FILE [visualize|step|cycles|memory-dump]
       joy -check FILE
       joy -dump-symbols [-symbols-file FILE] FILE

Modes (second positional argument, default: run):
  run            Assemble and run to completion (default)
  visualize      Free-running terminal dashboard of registers/flags/memory
  step           Single-step terminal dashboard, Enter to advance
  cycles         Run to completion, report instruction count and cycle cost
  memory-dump    Run with I/O muted, dumping a memory snapshot before
                 each step and once after halt

Options:
  -help              Show this help message
  -version           Show version information
  -check             Assemble only and report errors, without running
  -dump-symbols      Assemble, dump the resolved symbol table, and exit
  -symbols-file FILE Symbol dump output file (default: stdout)

Configuration is read from ./joy.toml, falling back to the user config
path, falling back to built-in defaults. See joyconfig.DefaultConfig.

Examples:
  joy examples/hello.joy
  joy examples/hello.joy visualize
  joy examples/loop.joy step
  joy examples/loop.joy cycles
  joy -check examples/hello.joy
  joy -dump-symbols examples/hello.joy
`, Version)
}
