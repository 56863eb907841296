//go:build darwin && cgo

package darwin

import "github.com/mj1618/backtick/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		reader := NewReader()
		return &platform.Provider{
			Reader:        reader,
			WindowManager: NewWindowManager(reader),
			Permissions:   NewPermissions(),
		}, nil
	}
}
