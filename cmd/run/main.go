package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/g1/canvas"
	"go.creack.net/g1/cli"
	"go.creack.net/g1/debugger"
	"go.creack.net/g1/driver"
	"go.creack.net/g1/vm"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <program> [-s <scale>] [-f] [-S] [-dl] [-m]\n", filepath.Base(os.Args[0]))
}

func dump(cfg cli.RunConfig, m *vm.Machine) {
	if cfg.DumpMemory {
		cli.DumpMemory(os.Stdout, m.Memory.Slice(0, m.Memory.Len()))
	}
}

func run(cfg cli.RunConfig) error {
	p, err := cli.LoadProgram(cfg.Program)
	if err != nil {
		return err
	}
	vmCfg := vm.Config{DisableLog: cfg.DisableLog}

	if cfg.Step {
		ui, err := debugger.New(p, vmCfg)
		if err != nil {
			return err
		}
		if err := ui.Run(); err != nil {
			return err
		}
		dump(cfg, ui.Session().M)
		return nil
	}

	c := canvas.New(max(int(p.Meta.Width), 1), max(int(p.Meta.Height), 1))
	vmCfg.Canvas = c
	m, err := vm.New(p, vmCfg)
	if err != nil {
		return err
	}
	err = driver.Run(m, c, driver.Options{Scale: cfg.Scale, ShowFPS: cfg.ShowFPS})
	dump(cfg, m)
	return err
}

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}
	cfg, err := cli.ParseRun(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s.\n", err)
		usage()
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		var rerr *vm.RuntimeError
		if errors.As(err, &rerr) {
			fmt.Fprint(os.Stderr, rerr.Report())
			os.Exit(1)
		}
		log.Fatalf("fail: %s.", err)
	}
}
