//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

static int bt_is_trusted() {
    return AXIsProcessTrusted();
}

static int bt_request_trust() {
    const void *keys[] = { kAXTrustedCheckOptionPrompt };
    const void *values[] = { kCFBooleanTrue };
    CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault,
        keys,
        values,
        1,
        &kCFTypeDictionaryKeyCallBacks,
        &kCFTypeDictionaryValueCallBacks);
    Boolean trusted = AXIsProcessTrustedWithOptions(options);
    CFRelease(options);
    return trusted ? 1 : 0;
}
*/
import "C"
import "github.com/mj1618/backtick/internal/platform"

// DarwinPermissions implements platform.Permissions for macOS.
type DarwinPermissions struct{}

// NewPermissions creates a new macOS permission checker.
func NewPermissions() *DarwinPermissions {
	return &DarwinPermissions{}
}

// IsTrusted returns true if the process has accessibility permission.
func (p *DarwinPermissions) IsTrusted() bool {
	return C.bt_is_trusted() != 0
}

// RequestTrust prompts for accessibility permission. Returns true if already granted.
func (p *DarwinPermissions) RequestTrust() bool {
	return C.bt_request_trust() != 0
}

// CheckAccessibilityPermission returns platform.ErrAccessibilityDisabled
// if the process has not been granted accessibility permission.
func CheckAccessibilityPermission() error {
	if C.bt_is_trusted() == 0 {
		return platform.ErrAccessibilityDisabled
	}
	return nil
}
