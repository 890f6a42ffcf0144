package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/g1/cli"
	"go.creack.net/g1/disasm"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <program>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	p, err := cli.LoadProgram(os.Args[1])
	if err != nil {
		log.Fatalf("fail: %s.", err)
	}
	if name, _, err := disasm.Match(p); err == nil && name != "" {
		log.Printf("Found match in known sources: %s.", name)
	}
	src, err := disasm.Disasm(p)
	if err != nil {
		log.Fatalf("fail: %s.", err)
	}
	fmt.Print(src)
}
