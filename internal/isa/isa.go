// Package isa describes the x86 instruction-set levels a kernel can target
// and detects the level the host supports.
package isa

import "golang.org/x/sys/cpu"

// ISA is an instruction-set level. Levels are ordered: a host supporting a
// level supports every lower one.
type ISA uint8

// Instruction-set levels.
const (
	Generic ISA = iota
	SSE42
	AVX
	AVX2
	AVX512Core
)

// String returns the short name used in implementation names.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case SSE42:
		return "sse42"
	case AVX:
		return "avx"
	case AVX2:
		return "avx2"
	case AVX512Core:
		return "avx512_core"
	default:
		return "unknown"
	}
}

// VectorLanes returns the number of float32 lanes in one vector register.
func (i ISA) VectorLanes() int {
	switch i {
	case SSE42:
		return 4
	case AVX, AVX2:
		return 8
	case AVX512Core:
		return 16
	default:
		return 1
	}
}

// MayUse reports whether a host at level host can run code requiring want.
func MayUse(host, want ISA) bool {
	return host >= want
}

// Detect returns the highest level the running CPU supports.
func Detect() ISA {
	return fromFeatures(features{
		sse42:    cpu.X86.HasSSE42,
		avx:      cpu.X86.HasAVX,
		avx2:     cpu.X86.HasAVX2 && cpu.X86.HasFMA,
		avx512f:  cpu.X86.HasAVX512F,
		avx512bw: cpu.X86.HasAVX512BW,
		avx512vl: cpu.X86.HasAVX512VL,
		avx512dq: cpu.X86.HasAVX512DQ,
	})
}

type features struct {
	sse42, avx, avx2                      bool
	avx512f, avx512bw, avx512vl, avx512dq bool
}

func fromFeatures(f features) ISA {
	switch {
	case f.avx512f && f.avx512bw && f.avx512vl && f.avx512dq:
		return AVX512Core
	case f.avx2:
		return AVX2
	case f.avx:
		return AVX
	case f.sse42:
		return SSE42
	default:
		return Generic
	}
}
