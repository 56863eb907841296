//go:build darwin

// Package darwin provides macOS platform support using the CoreGraphics,
// AppKit and Accessibility APIs. All functionality requires CGo.
// When CGo is disabled, the package compiles as a no-op stub.
package darwin
