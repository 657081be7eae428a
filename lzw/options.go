package lzw

// Options is the bitmask described in SPEC_FULL.md §6, mirroring
// export.h's KEEP_ON_ERROR / VERBOSE_OUTPUT / OVERWRITE_FLAG /
// DIAGNOSTIC_OUTPUT enum from the original implementation.
type Options uint

const (
	// KeepOnError retains partial output on failure; the default is to
	// remove it.
	KeepOnError Options = 1 << iota
	// Verbose prints informational progress to the caller-supplied writer.
	Verbose
	// Overwrite permits writing onto an existing output path; without it the
	// path-based Compress, Compress2 and Decompress fail with OutputExists.
	// It has no effect on the io.Reader/io.Writer-based API.
	Overwrite
	// Diagnostic enables extra per-segment tracing.
	Diagnostic
)

func (o Options) has(bit Options) bool { return o&bit != 0 }
