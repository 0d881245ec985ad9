package kernel

import (
	"io"
	"log/slog"

	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/parallel"
	"github.com/born-ml/jitconv/internal/status"
)

// Options configures kernel instantiation and execution.
type Options struct {
	// MaxScratchBytes bounds the tables prepared at instantiation.
	MaxScratchBytes int
	// Parallel controls how the forward pass fans out.
	Parallel parallel.Config
	// Logger receives instantiation diagnostics.
	Logger *slog.Logger
}

// DefaultOptions returns options with a 64 MiB scratch budget, the default
// parallel config and a discarding logger.
func DefaultOptions() Options {
	return Options{
		MaxScratchBytes: 64 << 20,
		Parallel:        parallel.DefaultConfig(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// window is the range of filter taps [lo, hi) that land inside the input
// for one output coordinate, and the input coordinate of tap 0.
type window struct {
	base   int
	lo, hi int
}

// Kernel is an instantiated forward convolution kernel. It is built once
// from a Config and may run any number of forward passes; it is not safe
// for concurrent Forward calls.
type Kernel struct {
	jcp  Config
	opts Options

	src, weights, dst memory.Desc

	rows []window // per output row
	cols []window // per output column
}

// New instantiates a kernel for jcp. Preparation happens here, synchronously;
// a failure is final and wraps status.ErrOutOfResources or
// status.ErrInvalidArgument.
func New(jcp Config, opts Options) (*Kernel, error) {
	if opts.Logger == nil {
		opts.Logger = DefaultOptions().Logger
	}
	if jcp.NbOCBlocking <= 0 || jcp.OCBlock <= 0 || jcp.NbOC*jcp.OCBlock != jcp.OC {
		return nil, status.InvalidArgument("kernel config is not initialized: oc=%d oc_block=%d nb_oc=%d nb_oc_blocking=%d",
			jcp.OC, jcp.OCBlock, jcp.NbOC, jcp.NbOCBlocking)
	}

	scratch := (jcp.OH + jcp.OW) * 3 * 8
	if opts.MaxScratchBytes > 0 && scratch > opts.MaxScratchBytes {
		return nil, status.OutOfResources("kernel needs %d scratch bytes, budget is %d", scratch, opts.MaxScratchBytes)
	}

	k := &Kernel{
		jcp:     jcp,
		opts:    opts,
		src:     jcp.SrcDesc(),
		weights: jcp.WeightsDesc(),
		dst:     jcp.DstDesc(),
		rows:    windows(jcp.OH, jcp.IH, jcp.KH, jcp.StrideH, jcp.TPad),
		cols:    windows(jcp.OW, jcp.IW, jcp.KW, jcp.StrideW, jcp.LPad),
	}

	opts.Logger.Debug("kernel instantiated",
		"isa", jcp.Target.ISA.String(),
		"simd_w", jcp.Target.SIMDWidth,
		"ur_w", jcp.UrW,
		"nb_oc_blocking", jcp.NbOCBlocking,
		"scratch_bytes", scratch,
	)
	return k, nil
}

func windows(out, in, k, stride, pad int) []window {
	ws := make([]window, out)
	for o := range ws {
		base := o*stride - pad
		ws[o] = window{
			base: base,
			lo:   max(0, -base),
			hi:   min(k, in-base),
		}
	}
	return ws
}

// Config returns the configuration the kernel was built from.
func (k *Kernel) Config() Config {
	return k.jcp
}

// Args are the buffers of one forward pass, laid out per the kernel's
// resolved formats. Bias is nil when the convolution has no bias.
type Args struct {
	Src, Weights, Bias, Dst []float32
}

// Forward runs one forward pass. It returns once every output element has
// been written.
func (k *Kernel) Forward(args Args) error {
	jcp := &k.jcp
	switch {
	case len(args.Src) < k.src.NumElements():
		return status.InvalidArgument("src has %d elements, kernel reads %d", len(args.Src), k.src.NumElements())
	case len(args.Weights) < k.weights.NumElements():
		return status.InvalidArgument("weights have %d elements, kernel reads %d", len(args.Weights), k.weights.NumElements())
	case len(args.Dst) < k.dst.NumElements():
		return status.InvalidArgument("dst has %d elements, kernel writes %d", len(args.Dst), k.dst.NumElements())
	case jcp.WithBias && len(args.Bias) < jcp.OC*jcp.NGroups:
		return status.InvalidArgument("bias has %d elements, kernel reads %d", len(args.Bias), jcp.OC*jcp.NGroups)
	}

	parallel.ForGrid(jcp.NGroups, jcp.MB, jcp.OCChunks(), func(g, n, occ int) {
		k.forwardChunk(args, g, n, occ)
	}, k.opts.Parallel)
	return nil
}

// forwardChunk computes NbOCBlocking output-channel blocks of one image.
func (k *Kernel) forwardChunk(args Args, g, n, occ int) {
	jcp := &k.jcp
	ocPerChunk := jcp.NbOCBlocking * jcp.OCBlock
	ocStart := occ * ocPerChunk

	for oc := ocStart; oc < ocStart+ocPerChunk; oc++ {
		goc := g*jcp.OC + oc
		var bias float32
		if jcp.WithBias {
			bias = args.Bias[goc]
		}
		for oh := 0; oh < jcp.OH; oh++ {
			row := k.rows[oh]
			for ow := 0; ow < jcp.OW; ow++ {
				col := k.cols[ow]
				acc := bias
				for ic := 0; ic < jcp.IC; ic++ {
					gic := g*jcp.IC + ic
					for kh := row.lo; kh < row.hi; kh++ {
						for kw := col.lo; kw < col.hi; kw++ {
							s := args.Src[k.src.Offset(n, gic, row.base+kh, col.base+kw)]
							acc += s * args.Weights[k.weightOffset(g, oc, ic, kh, kw)]
						}
					}
				}
				if jcp.WithReLU && acc < 0 {
					acc *= jcp.ReLUNegativeSlope
				}
				args.Dst[k.dst.Offset(n, goc, oh, ow)] = acc
			}
		}
	}
}

func (k *Kernel) weightOffset(g, oc, ic, kh, kw int) int {
	if k.jcp.WithGroups {
		return k.weights.Offset(g, oc, ic, kh, kw)
	}
	return k.weights.Offset(oc, ic, kh, kw)
}

// Release drops the kernel's prepared tables. The kernel must not be used
// afterwards.
func (k *Kernel) Release() {
	k.rows = nil
	k.cols = nil
}
