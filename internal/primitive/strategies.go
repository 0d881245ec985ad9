package primitive

import (
	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/kernel"
	"github.com/born-ml/jitconv/internal/tensor"
)

// Built-in strategy names.
const (
	JitSSE42      = "jit:sse42"
	JitAVX2       = "jit:avx2"
	JitAVX512Core = "jit:avx512_core"
)

// The channel block is fixed per instruction set: SSE4.2 streams two
// 4-lane vectors per block, AVX2 one 8-lane vector, AVX-512 one 16-lane vector.
func init() {
	for _, s := range []Strategy{
		{Name: JitSSE42, Key: Key{conv.Direct, tensor.Float32, isa.SSE42}, Block: 8, Priority: 0},
		{Name: JitAVX2, Key: Key{conv.Direct, tensor.Float32, isa.AVX2}, Block: 8, Priority: 0},
		{Name: JitAVX512Core, Key: Key{conv.Direct, tensor.Float32, isa.AVX512Core}, Block: 16, Priority: 0},
	} {
		s.InitConf = kernel.InitConf
		if err := Global.Register(s); err != nil {
			panic(err)
		}
	}
}
