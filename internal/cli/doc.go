// Package cli wires the prdoc commands: generate (also the root default),
// config, and version. Command handlers set a process exit code instead of
// calling os.Exit so the binary can flush cleanly.
package cli
