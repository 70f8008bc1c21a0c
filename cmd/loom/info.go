package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/loom-ml/loom/backend/webgpu"
)

type deviceInfo struct {
	OS      string        `json:"os"`
	Arch    string        `json:"arch"`
	NumCPU  int           `json:"num_cpu"`
	WebGPU  bool          `json:"webgpu_available"`
	Adapter []adapterInfo `json:"adapters,omitempty"`
}

type adapterInfo struct {
	Device string `json:"device"`
	Vendor string `json:"vendor"`
}

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "info",
		Usage: "Show available execution providers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print machine-readable output",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := deviceInfo{
				OS:     runtime.GOOS,
				Arch:   runtime.GOARCH,
				NumCPU: runtime.NumCPU(),
				WebGPU: webgpu.IsAvailable(),
			}
			if info.WebGPU {
				adapters, err := webgpu.ListAdapters()
				if err == nil {
					for _, a := range adapters {
						info.Adapter = append(info.Adapter, adapterInfo{
							Device: a.Device,
							Vendor: a.Vendor,
						})
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Printf("os:      %s/%s\n", info.OS, info.Arch)
			fmt.Printf("cpus:    %d\n", info.NumCPU)
			fmt.Printf("cpu:     available\n")
			if info.WebGPU {
				fmt.Printf("webgpu:  available\n")
				for _, a := range info.Adapter {
					fmt.Printf("  adapter: %s (%s)\n", a.Device, a.Vendor)
				}
			} else {
				fmt.Printf("webgpu:  not available\n")
			}
			return nil
		},
	}
}
