// Package version exposes the binary's build information: the ldflags-set
// version string plus the VCS metadata Go embeds into the binary.
package version
