//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework ApplicationServices -framework CoreFoundation -framework Foundation
#import <AppKit/AppKit.h>
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

static char *bt_nsstring_dup(NSString *s) {
    if (s == nil) {
        return strdup("");
    }
    return strdup([s UTF8String]);
}

static int bt_frontmost_app(int *pid, char **name, char **bundleID) {
    @autoreleasepool {
        NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) {
            return -1;
        }
        *pid = (int)[app processIdentifier];
        *name = bt_nsstring_dup([app localizedName]);
        *bundleID = bt_nsstring_dup([app bundleIdentifier]);
        return 0;
    }
}

static int bt_app_for_pid(int pid, char **name, char **bundleID) {
    @autoreleasepool {
        NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (app == nil) {
            return -1;
        }
        *name = bt_nsstring_dup([app localizedName]);
        *bundleID = bt_nsstring_dup([app bundleIdentifier]);
        return 0;
    }
}

static int bt_running_app(const char *bundleID, int *pid, char **name) {
    @autoreleasepool {
        NSString *ident = [NSString stringWithUTF8String:bundleID];
        NSArray<NSRunningApplication *> *apps = [NSRunningApplication runningApplicationsWithBundleIdentifier:ident];
        if ([apps count] == 0) {
            return 1;
        }
        NSRunningApplication *app = apps[0];
        *pid = (int)[app processIdentifier];
        *name = bt_nsstring_dup([app localizedName]);
        return 0;
    }
}

static int bt_activate_app(int pid) {
    @autoreleasepool {
        NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (app == nil) {
            return -1;
        }
        return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 0 : -1;
    }
}

// Raises the window of pid whose AX title equals title, falling back to the
// first window when no title matches.
static int bt_ax_raise_window(int pid, const char *title) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (app == NULL) {
        return -1;
    }
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &value);
    CFRelease(app);
    if (err != kAXErrorSuccess) {
        return (int)err;
    }
    if (value == NULL) {
        return -1;
    }
    CFArrayRef windows = (CFArrayRef)value;
    CFIndex n = CFArrayGetCount(windows);
    AXUIElementRef target = NULL;

    if (title != NULL && title[0] != '\0') {
        CFStringRef want = CFStringCreateWithCString(kCFAllocatorDefault, title, kCFStringEncodingUTF8);
        for (CFIndex i = 0; i < n && target == NULL && want != NULL; i++) {
            AXUIElementRef window = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
            CFTypeRef got = NULL;
            if (AXUIElementCopyAttributeValue(window, kAXTitleAttribute, &got) == kAXErrorSuccess && got != NULL) {
                if (CFGetTypeID(got) == CFStringGetTypeID() &&
                    CFStringCompare((CFStringRef)got, want, 0) == kCFCompareEqualTo) {
                    target = window;
                }
                CFRelease(got);
            }
        }
        if (want != NULL) {
            CFRelease(want);
        }
    }
    if (target == NULL && n > 0) {
        target = (AXUIElementRef)CFArrayGetValueAtIndex(windows, 0);
    }

    int rc = -1;
    if (target != NULL) {
        AXUIElementSetAttributeValue(target, kAXMainAttribute, kCFBooleanTrue);
        AXUIElementPerformAction(target, kAXRaiseAction);
        rc = 0;
    }
    CFRelease(windows);
    return rc;
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// DarwinWindowManager implements the platform.WindowManager interface for macOS.
type DarwinWindowManager struct {
	reader *DarwinReader
}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager(reader *DarwinReader) *DarwinWindowManager {
	return &DarwinWindowManager{reader: reader}
}

func (wm *DarwinWindowManager) FrontmostApp() (model.App, error) {
	return frontmostApp()
}

// frontmostApp identifies the focused application from the window server's
// current stacking order. NSWorkspace's frontmostApplication goes stale in a
// process without a main run loop, so it is only the fallback when no
// regular window is on screen.
func frontmostApp() (model.App, error) {
	windows, err := listWindows(true)
	if err == nil {
		if pid, ok := platform.FrontmostPID(windows); ok {
			return appForPID(pid)
		}
	}
	return workspaceFrontmostApp()
}

func appForPID(pid int) (model.App, error) {
	var cName, cBundle *C.char
	if C.bt_app_for_pid(C.int(pid), &cName, &cBundle) != 0 {
		return model.App{}, fmt.Errorf("no running application with PID %d", pid)
	}
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cBundle))

	return model.App{
		Name:     C.GoString(cName),
		BundleID: C.GoString(cBundle),
		PID:      pid,
	}, nil
}

func workspaceFrontmostApp() (model.App, error) {
	var cPid C.int
	var cName, cBundle *C.char

	if C.bt_frontmost_app(&cPid, &cName, &cBundle) != 0 {
		return model.App{}, fmt.Errorf("failed to get frontmost app")
	}
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cBundle))

	return model.App{
		Name:     C.GoString(cName),
		BundleID: C.GoString(cBundle),
		PID:      int(cPid),
	}, nil
}

func (wm *DarwinWindowManager) RunningApp(bundleID string) (model.App, error) {
	cBundle := C.CString(bundleID)
	defer C.free(unsafe.Pointer(cBundle))

	var cPid C.int
	var cName *C.char
	if C.bt_running_app(cBundle, &cPid, &cName) != 0 {
		return model.App{}, fmt.Errorf("%s: %w", bundleID, platform.ErrAppNotRunning)
	}
	defer C.free(unsafe.Pointer(cName))

	return model.App{
		Name:     C.GoString(cName),
		BundleID: bundleID,
		PID:      int(cPid),
	}, nil
}

// ActivateWindow activates the owning application, then raises the window
// through the accessibility API, matching it by title.
func (wm *DarwinWindowManager) ActivateWindow(id int) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	windows, err := wm.reader.ListWindows(platform.ListOptions{AllLayers: true})
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}

	var target *model.Window
	for i := range windows {
		if windows[i].ID == id {
			target = &windows[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("window %d: %w", id, platform.ErrWindowNotFound)
	}

	// Activation failure is not fatal; raising the window may still bring it forward.
	C.bt_activate_app(C.int(target.PID))

	cTitle := C.CString(target.Title)
	defer C.free(unsafe.Pointer(cTitle))
	if rc := C.bt_ax_raise_window(C.int(target.PID), cTitle); rc != 0 {
		return fmt.Errorf("failed to raise window %d of PID %d (code %d)", id, target.PID, int(rc))
	}
	return nil
}
