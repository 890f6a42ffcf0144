package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/g1/cli"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <input> <output> [-d <data file>] [-dbg] [-f json|g1b] [-p]\n", filepath.Base(os.Args[0]))
}

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}
	cfg, err := cli.ParseAssemble(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s.\n", err)
		usage()
		os.Exit(2)
	}
	if err := cli.Assemble(cfg, os.Stdout, os.Stderr); err != nil {
		switch {
		case errors.Is(err, cli.ErrUsage):
			fmt.Fprintf(os.Stderr, "%s.\n", err)
			os.Exit(2)
		case errors.Is(err, cli.ErrReported):
			os.Exit(1)
		}
		log.Fatalf("fail: %s.", err)
	}
}
