// Package app wires configuration, metadata extraction and playback together
// for the vgmlibrarian commands: the terminal interface, the info report and
// headless playback.
package app
