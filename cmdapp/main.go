// Copyright (c) 2018 The Biodv Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.
//
// This work is derived from the go tool source code
// Copyright 2011 The Go Authors.  All rights reserved.

// Package cmdapp
// implements a command line application
// that host a set of commands
// as in the go tool and git.
package cmdapp

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Name stores the application name,
// the default is based on the arguments of the program.
var Name = filepath.Base(os.Args[0])

// Short is a short description of the application.
var Short string

// Commands is the list of available commands
// and help topics.
var (
	mutex    sync.Mutex
	commands = make(map[string]*Command)
)

// Add adds a new command to the application.
// Command names should be unique,
// otherwise it will trigger a panic.
func Add(c *Command) {
	name := strings.ToLower(c.Name())
	if name == "" {
		msg := fmt.Sprintf("cmdapp: Empty command name: %s", c.Short)
		panic(msg)
	}
	if getCmd(name) != nil {
		msg := fmt.Sprintf("cmdapp: Repeated command name: %s %s", name, c.Short)
		panic(msg)
	}
	mutex.Lock()
	defer mutex.Unlock()
	commands[name] = c
}

// GetCmd returns a command with a given name.
func getCmd(name string) *Command {
	name = strings.ToLower(name)
	mutex.Lock()
	defer mutex.Unlock()
	return commands[name]
}

// Main runs the application: it parses the top-level flags, looks up
// the command named by the first non-flag argument, and runs it with
// the remaining arguments. It calls os.Exit with a non-zero status if
// no command is given, the command is unknown, or the command itself
// returns an error.
func Main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	cmd := getCmd(args[0])
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\nRun '%s help' for usage.\n", Name, args[0], Name)
		os.Exit(1)
	}

	cmd.Flag = flag.NewFlagSet(cmd.Name(), flag.ExitOnError)
	cmd.Flag.Usage = cmd.Usage
	if cmd.RegisterFlags != nil {
		cmd.RegisterFlags(cmd)
	}
	cmd.Flag.Parse(args[1:])

	if err := cmd.Run(cmd, cmd.Flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", Name, err)
		os.Exit(1)
	}
}

// Usage prints application help and exists.
func usage() {
	printUsage(os.Stderr)
	os.Exit(1)
}

// PrintUsage prints the application usage help.
func printUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", Short)
	fmt.Fprintf(w, "Usage:\n\n\t%s <command> [arguments]\n\nCommands:\n\n", Name)

	mutex.Lock()
	var names []string
	for n := range commands {
		names = append(names, n)
	}
	mutex.Unlock()
	sort.Strings(names)

	for _, n := range names {
		c := getCmd(n)
		fmt.Fprintf(w, "\t%-12s %s\n", n, c.Short)
	}
	fmt.Fprintln(w)
}
