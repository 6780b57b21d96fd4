// Package app loads the bridge configuration and wires application
// dependencies. It builds the concrete stores, adapters and the engine from
// Config, exposing them via the App struct for commands to use.
package app
