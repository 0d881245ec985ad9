// Package main provides the jitconv diagnostic CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/primitive"
	"github.com/born-ml/jitconv/internal/tensor"
)

const version = "v0.0.1-dev"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Printf("jitconv %s\n", version)
	case "isa":
		host := isa.Detect()
		fmt.Printf("Host ISA: %s (%d f32 lanes)\n", host, host.VectorLanes())
		fmt.Println("Runnable direct f32 strategies:")
		for _, s := range primitive.Global.Candidates(conv.Direct, tensor.Float32, host) {
			fmt.Printf("  %-18s block=%d priority=%d\n", s.Name, s.Block, s.Priority)
		}
	default:
		fmt.Println("jitconv - forward convolution primitive")
		fmt.Printf("Version: %s\n\n", version)
		fmt.Println("Commands:")
		fmt.Println("  version    Show version")
		fmt.Println("  isa        Show host ISA and runnable kernel strategies")
	}
}
