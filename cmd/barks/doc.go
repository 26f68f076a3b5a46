// Package main hosts the barks CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, opens
// the catalog over the comics database lazily and hands story, volume and
// page selections to the internal packages. Selection flags are validated
// before the catalog is touched so a bad invocation never reads the archive.
//
// Keep this package thin: behaviour belongs in internal/, commands only parse
// flags and render results.
package main
