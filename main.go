// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/nes6502/host"
)

var (
	image string
	batch bool
)

func init() {
	flag.StringVar(&image, "l", "", "load iNES cartridge image")
	flag.BoolVar(&batch, "b", false, "exit after running command files")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: nes6502 [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	h := host.New()

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Load a cartridge image if requested.
	if image != "" {
		if err := h.LoadImage(image); err != nil {
			exitOnError(err)
		}
	}

	// Run commands contained in command-line files.
	args := flag.Args()
	if len(args) > 0 {
		for _, filename := range args {
			file, err := os.Open(filename)
			if err != nil {
				exitOnError(err)
			}
			h.RunCommands(file, os.Stdout, false)
			file.Close()
		}
	}
	if batch {
		return
	}

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, true)
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
