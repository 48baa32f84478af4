// Package runtime embeds the small C runtime that the driver links
// alongside emitted C source (spec.md §6 "Runtime ABI consumed"): the
// compiler itself never bundles these files into generated output, it
// only writes them out next to it when asked to invoke a C compiler.
package runtime

import _ "embed"

//go:embed word_runtime.h
var Header []byte

//go:embed word_runtime.c
var Source []byte

// HeaderName and SourceName are the filenames the driver writes these
// embedded blobs under, matching the name the emitted C's
// #include "word_runtime.h" expects to find.
const (
	HeaderName = "word_runtime.h"
	SourceName = "word_runtime.c"
)
