//go:build !windows

package rlbind

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/shaobosong/gdb-fzf/internal/diag"
)

// fallbackLibraries are probed, in order, after the host process image.
var fallbackLibraries = []string{
	"libreadline.so.8",
	"libreadline.so.7",
	"libreadline.so",
}

// processImage looks symbols up in the host process's own dynamic symbol
// table, which covers GDB builds that link readline dynamically.
type processImage struct {
	handle unsafe.Pointer
}

// OpenProcess opens the host process image.
func OpenProcess() (Image, error) {
	h := C.dlopen(nil, C.RTLD_LAZY)
	if h == nil {
		return nil, fmt.Errorf("dlopen(self): %s", dlError())
	}
	return &processImage{handle: h}, nil
}

func (p *processImage) Name() string { return "host process" }

func (p *processImage) Lookup(symbol string) uintptr {
	return dlsym(p.handle, symbol)
}

// libraryImage is a named shared-library fallback. It is opened with
// RTLD_GLOBAL, which interposes its symbols process-wide; that side effect
// is accepted so hosts that statically link readline are still covered.
type libraryImage struct {
	name   string
	handle unsafe.Pointer
}

// OpenLibrary loads a named shared library as a candidate image.
func OpenLibrary(name string) (Image, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	h := C.dlopen(cname, C.RTLD_LAZY|C.RTLD_GLOBAL)
	if h == nil {
		return nil, fmt.Errorf("dlopen(%s): %s", name, dlError())
	}
	return &libraryImage{name: name, handle: h}, nil
}

func (l *libraryImage) Name() string { return l.name }

func (l *libraryImage) Lookup(symbol string) uintptr {
	return dlsym(l.handle, symbol)
}

// DefaultImages returns the candidate images in probe order: the host
// process first, then every fallback library that can be loaded. A
// fallback that fails to load is skipped; resolution decides later whether
// the remaining images suffice. Image handles are deliberately never
// closed, the bindings taken from them live for the whole process.
func DefaultImages() []Image {
	images := make([]Image, 0, len(fallbackLibraries)+1)

	if img, err := OpenProcess(); err == nil {
		images = append(images, img)
	} else {
		diag.Debugf("%v", err)
	}

	for _, name := range fallbackLibraries {
		img, err := OpenLibrary(name)
		if err != nil {
			diag.Debugf("%v", err)
			continue
		}
		images = append(images, img)
	}

	return images
}

func dlsym(handle unsafe.Pointer, symbol string) uintptr {
	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))

	C.dlerror() // clear any stale error state
	return uintptr(C.dlsym(handle, csym))
}

func dlError() string {
	if msg := C.dlerror(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown dl error"
}
