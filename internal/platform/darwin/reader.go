//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    int windowID;
    int pid;
    int layer;
    int x;
    int y;
    int width;
    int height;
    char *appName;
    char *title;
} bt_window;

static char *bt_cfstring_dup(CFTypeRef value) {
    if (value == NULL || CFGetTypeID(value) != CFStringGetTypeID()) {
        return strdup("");
    }
    CFStringRef s = (CFStringRef)value;
    CFIndex size = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(size);
    if (buf == NULL) {
        return NULL;
    }
    if (!CFStringGetCString(s, buf, size, kCFStringEncodingUTF8)) {
        buf[0] = '\0';
    }
    return buf;
}

static int bt_dict_int(CFDictionaryRef dict, CFStringRef key) {
    int value = 0;
    CFNumberRef number = CFDictionaryGetValue(dict, key);
    if (number != NULL) {
        CFNumberGetValue(number, kCFNumberIntType, &value);
    }
    return value;
}

static int bt_list_windows(int onScreenOnly, bt_window **out, int *count) {
    *out = NULL;
    *count = 0;
    CGWindowListOption option = onScreenOnly ? kCGWindowListOptionOnScreenOnly : kCGWindowListOptionAll;
    CFArrayRef list = CGWindowListCopyWindowInfo(option, kCGNullWindowID);
    if (list == NULL) {
        return -1;
    }
    CFIndex n = CFArrayGetCount(list);
    bt_window *windows = calloc(n > 0 ? n : 1, sizeof(bt_window));
    if (windows == NULL) {
        CFRelease(list);
        return -1;
    }
    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef info = CFArrayGetValueAtIndex(list, i);
        bt_window *w = &windows[i];
        w->windowID = bt_dict_int(info, kCGWindowNumber);
        w->pid = bt_dict_int(info, kCGWindowOwnerPID);
        w->layer = bt_dict_int(info, kCGWindowLayer);

        CGRect rect = CGRectZero;
        CFDictionaryRef bounds = CFDictionaryGetValue(info, kCGWindowBounds);
        if (bounds != NULL) {
            CGRectMakeWithDictionaryRepresentation(bounds, &rect);
        }
        w->x = (int)rect.origin.x;
        w->y = (int)rect.origin.y;
        w->width = (int)rect.size.width;
        w->height = (int)rect.size.height;

        w->appName = bt_cfstring_dup(CFDictionaryGetValue(info, kCGWindowOwnerName));
        w->title = bt_cfstring_dup(CFDictionaryGetValue(info, kCGWindowName));
    }
    CFRelease(list);
    *out = windows;
    *count = (int)n;
    return 0;
}

static void bt_free_windows(bt_window *windows, int count) {
    if (windows == NULL) {
        return;
    }
    for (int i = 0; i < count; i++) {
        free(windows[i].appName);
        free(windows[i].title);
    }
    free(windows);
}

// Returns an AXError; kAXErrorSuccess with *count == 0 means no windows.
static int bt_ax_window_titles(int pid, char ***out, int *count) {
    *out = NULL;
    *count = 0;
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (app == NULL) {
        return kAXErrorFailure;
    }
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &value);
    CFRelease(app);
    if (err != kAXErrorSuccess) {
        return (int)err;
    }
    if (value == NULL) {
        return kAXErrorSuccess;
    }
    CFArrayRef windows = (CFArrayRef)value;
    CFIndex n = CFArrayGetCount(windows);
    char **titles = calloc(n > 0 ? n : 1, sizeof(char *));
    if (titles == NULL) {
        CFRelease(windows);
        return kAXErrorFailure;
    }
    for (CFIndex i = 0; i < n; i++) {
        AXUIElementRef window = (AXUIElementRef)CFArrayGetValueAtIndex(windows, i);
        CFTypeRef title = NULL;
        if (AXUIElementCopyAttributeValue(window, kAXTitleAttribute, &title) == kAXErrorSuccess && title != NULL) {
            titles[i] = bt_cfstring_dup(title);
            CFRelease(title);
        } else {
            titles[i] = strdup("");
        }
    }
    CFRelease(windows);
    *out = titles;
    *count = (int)n;
    return kAXErrorSuccess;
}

static char *bt_title_at(char **titles, int i) {
    return titles[i];
}

static void bt_free_titles(char **titles, int count) {
    if (titles == NULL) {
        return;
    }
    for (int i = 0; i < count; i++) {
        free(titles[i]);
    }
    free(titles);
}
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// axErrorAPIDisabled is kAXErrorAPIDisabled.
const axErrorAPIDisabled = -25211

// DarwinReader implements the platform.Reader interface for macOS.
type DarwinReader struct{}

// NewReader creates a new macOS reader.
func NewReader() *DarwinReader {
	return &DarwinReader{}
}

// ListWindows returns windows front to back using CGWindowListCopyWindowInfo.
// Only layer 0 (regular application windows) is included unless
// opts.AllLayers is set.
func (r *DarwinReader) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	all, err := listWindows(opts.OnScreenOnly)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return []model.Window{}, nil
	}

	// The on-screen list is already front to back; otherwise ask again.
	frontPID, ok := platform.FrontmostPID(all)
	if !opts.OnScreenOnly {
		frontPID, ok = 0, false
		if app, err := frontmostApp(); err == nil {
			frontPID, ok = app.PID, true
		}
	}

	// The first window of the frontmost app is the focused one.
	frontmostFocusAssigned := !ok

	windows := make([]model.Window, 0, len(all))
	for _, w := range all {
		if !opts.AllLayers && w.Layer != 0 {
			continue
		}
		if opts.PID != 0 && w.PID != opts.PID {
			continue
		}
		if opts.App != "" && !strings.EqualFold(w.App, opts.App) {
			continue
		}
		if w.PID == frontPID && !frontmostFocusAssigned {
			w.Focused = true
			frontmostFocusAssigned = true
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// listWindows reads every window the window server reports, unfiltered.
// Each call queries the window server, so the order always reflects the
// current focus.
func listWindows(onScreenOnly bool) ([]model.Window, error) {
	var cWindows *C.bt_window
	var cCount C.int

	onScreen := C.int(0)
	if onScreenOnly {
		onScreen = 1
	}
	if C.bt_list_windows(onScreen, &cWindows, &cCount) != 0 {
		return nil, fmt.Errorf("failed to enumerate windows")
	}
	defer C.bt_free_windows(cWindows, cCount)

	count := int(cCount)
	if count == 0 {
		return nil, nil
	}
	cSlice := unsafe.Slice(cWindows, count)

	windows := make([]model.Window, 0, count)
	for _, cw := range cSlice {
		windows = append(windows, model.Window{
			App:   C.GoString(cw.appName),
			PID:   int(cw.pid),
			Title: C.GoString(cw.title),
			ID:    int(cw.windowID),
			Bounds: [4]int{
				int(cw.x),
				int(cw.y),
				int(cw.width),
				int(cw.height),
			},
			Layer: int(cw.layer),
		})
	}
	return windows, nil
}

// AccessibilityWindowTitles reads the AXWindows attribute of pid.
func (r *DarwinReader) AccessibilityWindowTitles(pid int) ([]string, error) {
	var cTitles **C.char
	var cCount C.int

	rc := int(C.bt_ax_window_titles(C.int(pid), &cTitles, &cCount))
	if rc == axErrorAPIDisabled {
		return nil, platform.ErrAccessibilityDisabled
	}
	if rc != 0 {
		return nil, fmt.Errorf("read windows of PID %d: AXError %d", pid, rc)
	}
	defer C.bt_free_titles(cTitles, cCount)

	titles := make([]string, int(cCount))
	for i := range titles {
		titles[i] = C.GoString(C.bt_title_at(cTitles, C.int(i)))
	}
	return titles, nil
}
