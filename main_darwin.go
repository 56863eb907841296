//go:build darwin

package main

import _ "github.com/mj1618/backtick/internal/platform/darwin"
