// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package conv provides the forward 2-D convolution primitive for CPUs with
// SIMD blocking, optionally fused with a leaky ReLU.
//
// # Overview
//
// Building a convolution is a two-phase process:
//   - Init validates an OperationDesc against an engine and resolves every
//     memory format left as FormatAny. It builds no kernel.
//   - NewPrimitive binds tensors to the resolved descriptor and instantiates
//     the kernel. Execute then runs forward passes and signals an Event.
//
// An Init failure wrapping ErrUnimplemented is soft: the descriptor is
// well-formed but this implementation cannot serve it, and the caller may
// try another one. ErrInvalidArgument means the descriptor is malformed.
//
// # Basic Usage
//
//	eng := conv.NewCPUEngine()
//	src := conv.NewMemoryDesc(conv.Dims{1, 16, 14, 14}, conv.Float32, conv.FormatAny)
//	weights := conv.NewMemoryDesc(conv.Dims{32, 16, 3, 3}, conv.Float32, conv.FormatAny)
//	dst := conv.NewMemoryDesc(conv.Dims{1, 32, 14, 14}, conv.Float32, conv.FormatAny)
//
//	desc, err := conv.NewOperationDesc(conv.ForwardInference, conv.Direct,
//	    src, weights, conv.MemoryDesc{}, dst, [2]int{1, 1}, [2]int{1, 1}, [2]int{1, 1})
//	if err != nil {
//	    return err
//	}
//	pd, err := conv.Init[conv.Plain](eng, desc, nil)
//	if err != nil {
//	    return err // errors.Is(err, conv.ErrUnimplemented): try another implementation
//	}
//
//	// Allocate tensors for the resolved layouts, e.g. pd.SrcDesc().NumElements().
//	p, err := conv.NewPrimitive(pd, conv.Inputs{Src: s, Weights: w}, conv.Outputs{Dst: d})
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ev := conv.NewEvent()
//	if err := p.Execute(ev); err != nil {
//	    return err
//	}
//
// # Kernel selection and layouts
//
// Init serves a descriptor with the widest kernel the engine's instruction
// set can run. The channel block of the resolved layouts follows that
// kernel: 8 for jit:sse42 and jit:avx2, 16 for jit:avx512_core. With
// NewCPUEngine on an AVX-512 host, a 64-channel source therefore resolves
// to nChw16c and its weights to OIhw16i16o. To get the 8-channel layouts
// (nChw8c, OIhw8i8o, Ohwi8o, gOIhw8i8o) on any host, pin the engine or the
// strategy:
//
//	eng := conv.NewCPUEngineWithISA(conv.ISASSE42)
//	pd, err := conv.Init[conv.Plain](eng, desc, nil)
//
//	// or
//	pd, err := conv.Init[conv.Plain](conv.NewCPUEngine(), desc, nil, conv.WithStrategy(conv.JitSSE42))
//
// WithStrategy still fails with ErrUnimplemented when the host cannot run
// the named kernel.
//
// # Fused activation
//
// Instantiate with the ReLU variant and set OperationDesc.Activation. The
// fused variant is only offered for ForwardInference.
package conv
