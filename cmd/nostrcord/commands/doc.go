// Package commands defines the nostrcord CLI.
//
// Commands
//
//   - run     Start the bridge and pump messages until interrupted
//   - keygen  Generate a fresh bridge identity
//
// Configuration comes from the environment (a .env file is honoured);
// policy knobs on run override it per invocation.
package commands
