/*
Package workbench exposes a suite of local developer tools over the Model
Context Protocol (MCP).

It implements a "Registry plus Dispatcher" architecture: tool definitions
carry a declarative argument schema, the dispatcher validates arguments and
invokes the handler, and every call resolves to a uniform text result. Tool
failures are reported inside the result envelope rather than as protocol
errors, so an agent always receives something it can read and act on.

# Concept

A Workbench owns a registry of tools, the shared resources they need (such
as the database connection pool), and an MCP server adapter that exposes
the registry over stdio or Server-Sent Events.

# Usage

	package main

	import (
		"log"

		"github.com/atelierlabs/workbench"
	)

	func main() {
		wb, err := workbench.New(".")
		if err != nil {
			log.Fatal(err)
		}
		defer wb.Close()

		if err := wb.Server().ServeStdio(); err != nil {
			log.Fatal(err)
		}
	}

The cmd/workbench binary wraps exactly this wiring behind a CLI.
*/
package workbench
