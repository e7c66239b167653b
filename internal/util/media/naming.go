// Package media synthesizes output file names for transcode operations.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

// Kind identifies which operation an output name is derived for.
type Kind int

const (
	KindConvert Kind = iota
	KindResize
	KindLoop
	KindDenoise
	KindAudio
)

// Naming describes how to derive an output name from an input path.
type Naming struct {
	Kind   Kind
	Width  uint   // resize only
	Height uint   // resize only
	Ext    string // replacement extension, with or without the dot; empty keeps the input's
}

func Convert(ext string) Naming { return Naming{Kind: KindConvert, Ext: ext} }

func Audio(ext string) Naming { return Naming{Kind: KindAudio, Ext: ext} }

func Resize(w, h uint, ext string) Naming { return Naming{Kind: KindResize, Width: w, Height: h, Ext: ext} }

func Loop() Naming { return Naming{Kind: KindLoop} }

func Denoise(ext string) Naming { return Naming{Kind: KindDenoise, Ext: ext} }

// FileName returns the output base name for input under n.
// loop: looped_<stem><ext>; resize: <stem>_resized_<W>x<H><ext>;
// convert and audio: <stem>_converted<ext>; denoise: <stem>_denoised<ext>.
func FileName(input string, n Naming) (string, error) {
	base := filepath.Base(input)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", toolerr.Invalid("output name", "cannot derive a file name from %q", input)
	}
	inExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, inExt)
	if stem == "" {
		return "", toolerr.Invalid("output name", "input %q has no file stem", input)
	}
	ext := inExt
	if n.Ext != "" {
		ext = "." + strings.TrimPrefix(n.Ext, ".")
	}

	switch n.Kind {
	case KindLoop:
		return "looped_" + stem + ext, nil
	case KindResize:
		return fmt.Sprintf("%s_resized_%dx%d%s", stem, n.Width, n.Height, ext), nil
	case KindDenoise:
		return stem + "_denoised" + ext, nil
	default:
		return stem + "_converted" + ext, nil
	}
}

// OutputPath derives the absolute output path for input. The file is placed in
// outDir, or next to the input when outDir is empty. With create, a missing
// outDir is made and created reports whether that happened; without it the
// path is only computed. Repeated calls with the same arguments return the
// same path.
func OutputPath(input, outDir string, n Naming, create bool) (path string, created bool, err error) {
	name, err := FileName(input, n)
	if err != nil {
		return "", false, err
	}

	dir := outDir
	switch {
	case dir == "":
		dir = filepath.Dir(input)
		fi, serr := os.Stat(dir)
		if serr != nil || !fi.IsDir() {
			return "", false, toolerr.Invalid("output path", "input directory %q is not accessible", dir)
		}
	case create:
		created, err = util.EnsureDirCreated(dir)
		if err != nil {
			return "", false, toolerr.Invalid("output path", "cannot use output directory %q: %v", dir, err)
		}
	default:
		if fi, serr := os.Stat(dir); serr == nil && !fi.IsDir() {
			return "", false, toolerr.Invalid("output path", "output directory %q is not a directory", dir)
		}
	}

	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", created, toolerr.Invalid("output path", "resolve %q: %v", name, err)
	}
	return abs, created, nil
}
