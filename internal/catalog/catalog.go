package catalog

import "fmt"

// Size identifies one variant of the whisper model artifact.
// Values are ordered from smallest to largest.
type Size int

const (
	Tiny Size = iota
	Base
	Small
	Medium
	Large
)

// Info describes one catalog entry for a model size.
type Info struct {
	ApproxBytes int64  // approximate artifact size in bytes
	FileName    string // canonical file name inside the cache directory
	URL         string // default download URL
	Description string
}

const defaultBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// entries holds the static catalog. File names are stable across versions:
// the prober relies on them to find artifacts downloaded by older builds.
var entries = map[Size]Info{
	Tiny: {
		ApproxBytes: 77_700_000,
		FileName:    "ggml-tiny.bin",
		URL:         defaultBaseURL + "/ggml-tiny.bin",
		Description: "Tiny (~75 MB) - fastest, lowest accuracy",
	},
	Base: {
		ApproxBytes: 148_000_000,
		FileName:    "ggml-base.bin",
		URL:         defaultBaseURL + "/ggml-base.bin",
		Description: "Base (~142 MB) - fast, good for short dictation",
	},
	Small: {
		ApproxBytes: 488_000_000,
		FileName:    "ggml-small.bin",
		URL:         defaultBaseURL + "/ggml-small.bin",
		Description: "Small (~466 MB) - balanced speed and accuracy",
	},
	Medium: {
		ApproxBytes: 1_530_000_000,
		FileName:    "ggml-medium.bin",
		URL:         defaultBaseURL + "/ggml-medium.bin",
		Description: "Medium (~1.5 GB) - high accuracy, slower",
	},
	Large: {
		ApproxBytes: 3_100_000_000,
		FileName:    "ggml-large-v3.bin",
		URL:         defaultBaseURL + "/ggml-large-v3.bin",
		Description: "Large (~2.9 GB) - best accuracy, slowest",
	},
}

// MustInfo returns the catalog entry for the given size.
// It panics on an unknown size: the size set is closed, so an unknown value
// is a programming error, not a runtime condition.
func MustInfo(size Size) Info {
	info, ok := entries[size]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown model size %d", int(size)))
	}
	return info
}

// Sizes returns all sizes ordered from smallest to largest.
func Sizes() []Size {
	return []Size{Tiny, Base, Small, Medium, Large}
}

// SizesLargestFirst returns all sizes ordered from largest to smallest.
// This is the resolver's probe order.
func SizesLargestFirst() []Size {
	return []Size{Large, Medium, Small, Base, Tiny}
}

// String returns the lowercase name of the size.
func (s Size) String() string {
	switch s {
	case Tiny:
		return "tiny"
	case Base:
		return "base"
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("size(%d)", int(s))
	}
}

// ParseSize converts a size name to its Size value.
func ParseSize(name string) (Size, error) {
	switch name {
	case "tiny":
		return Tiny, nil
	case "base":
		return Base, nil
	case "small":
		return Small, nil
	case "medium":
		return Medium, nil
	case "large":
		return Large, nil
	default:
		return 0, fmt.Errorf("unknown model size %q (expected tiny, base, small, medium or large)", name)
	}
}
