package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/loom-ml/loom/backend/cpu"
	"github.com/loom-ml/loom/device"
	"github.com/loom-ml/loom/optim"
	"github.com/loom-ml/loom/tensor"
)

type benchResult struct {
	Tensors    int     `json:"tensors"`
	Elements   int     `json:"elements_per_tensor"`
	Runs       int     `json:"runs"`
	InPlace    bool    `json:"in_place"`
	MeanMs     float64 `json:"mean_ms"`
	StdDevMs   float64 `json:"stddev_ms"`
	StepsPerS  float64 `json:"steps_per_sec"`
	Throughput float64 `json:"mb_per_sec"`
}

func benchCmd() *cli.Command {
	var (
		tensors int64
		size    int64
		runs    int64
		warmup  int64
		inPlace bool
		asJSON  bool
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Benchmark optimizer step throughput on the CPU backend",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "tensors",
				Usage:       "number of parameter tensors",
				Value:       64,
				Destination: &tensors,
			},
			&cli.Int64Flag{
				Name:        "size",
				Usage:       "elements per tensor",
				Value:       64 * 1024,
				Destination: &size,
			},
			&cli.Int64Flag{
				Name:        "runs",
				Usage:       "number of timed runs",
				Value:       10,
				Destination: &runs,
			},
			&cli.Int64Flag{
				Name:        "warmup",
				Usage:       "number of warmup runs",
				Value:       2,
				Destination: &warmup,
			},
			&cli.BoolFlag{
				Name:        "in-place",
				Usage:       "reuse inputs as outputs (no copy-out)",
				Value:       true,
				Destination: &inPlace,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print machine-readable output",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			result, err := runBench(int(tensors), int(size), int(runs), int(warmup), inPlace)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: bench: %v", err), 1)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			mode := "separate outputs"
			if result.InPlace {
				mode = "in place"
			}
			fmt.Printf("sgd step, %d tensors x %d elements, %s\n",
				result.Tensors, result.Elements, mode)
			fmt.Printf("mean:       %.3f ms (stddev %.3f ms) over %d runs\n",
				result.MeanMs, result.StdDevMs, result.Runs)
			fmt.Printf("steps/sec:  %.1f\n", result.StepsPerS)
			fmt.Printf("throughput: %.1f MB/s\n", result.Throughput)
			return nil
		},
	}
}

func runBench(tensors, size, runs, warmup int, inPlace bool) (*benchResult, error) {
	backend := cpu.New()
	ctx := backend.Context()

	rng := rand.New(rand.NewSource(42))
	randomSeq := func() (*device.Seq, error) {
		seq := device.NewSeq()
		for range tensors {
			data := make([]float32, size)
			for i := range data {
				data[i] = rng.Float32()
			}
			t, err := tensor.FromSlice(data, tensor.Shape{size})
			if err != nil {
				return nil, err
			}
			seq.Add(t)
		}
		return seq, nil
	}

	weights, err := randomSeq()
	if err != nil {
		return nil, err
	}
	grads, err := randomSeq()
	if err != nil {
		return nil, err
	}
	moms, err := randomSeq()
	if err != nil {
		return nil, err
	}

	outWeights, outMoms := weights, moms
	if !inPlace {
		outWeights = device.NewSeq()
		outMoms = device.NewSeq()
	}

	cfg := optim.SGDConfig{LR: 0.01, Momentum: 0.9}
	step := func() error {
		if err := optim.SGDStep(ctx, cfg, weights, grads, moms, outWeights, outMoms); err != nil {
			return err
		}
		return ctx.Stream().Sync()
	}

	for range warmup {
		if err := step(); err != nil {
			return nil, err
		}
	}

	samples := make([]float64, 0, runs)
	for range runs {
		start := time.Now()
		if err := step(); err != nil {
			return nil, err
		}
		samples = append(samples, float64(time.Since(start).Microseconds())/1000.0)
	}

	mean := stat.Mean(samples, nil)
	stddev := stat.StdDev(samples, nil)

	// One step reads weights, grads, and momentum and writes weights and
	// momentum back.
	bytesPerStep := float64(tensors) * float64(size) * 4 * 5
	result := &benchResult{
		Tensors:    tensors,
		Elements:   size,
		Runs:       runs,
		InPlace:    inPlace,
		MeanMs:     mean,
		StdDevMs:   stddev,
		StepsPerS:  1000.0 / mean,
		Throughput: bytesPerStep / (mean / 1000.0) / (1024 * 1024),
	}
	return result, nil
}
