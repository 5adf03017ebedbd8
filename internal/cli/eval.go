package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parti-cad/parti/pkg/engine"
	"github.com/parti-cad/parti/pkg/kernel"
	"github.com/parti-cad/parti/pkg/kernel/analytic"
	"github.com/parti-cad/parti/pkg/kernel/sdfx"
	"github.com/parti-cad/parti/pkg/tessellate"
)

const (
	kernelExact = "exact" // analytic kernel, exact measures, preview meshes
	kernelSdfx  = "sdfx"  // sdfx kernel, watertight marching-cubes meshes
)

// evalOpts holds the command-line flags for the eval command.
type evalOpts struct {
	config  string // config file path, empty for ./parti.toml
	kernel  string // kernel backend name
	jsonOut string // summary export path, empty to skip
	objOut  string // mesh export path, empty to skip
}

// newEvalCmd creates the eval command. It evaluates a massing script
// and optionally exports the study summary as JSON and the tessellated
// masses as a Wavefront OBJ file.
func newEvalCmd() *cobra.Command {
	var opts evalOpts

	cmd := &cobra.Command{
		Use:   "eval [script]",
		Short: "Evaluate a massing script and export the study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			if opts.kernel == "" {
				opts.kernel = cfg.Eval.Kernel
			}
			if opts.jsonOut == "" {
				opts.jsonOut = cfg.Eval.JSON
			}
			if opts.objOut == "" {
				opts.objOut = cfg.Eval.OBJ
			}
			return runEval(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ./"+defaultConfigFile+")")
	cmd.Flags().StringVar(&opts.kernel, "kernel", "", "geometry backend: exact or sdfx")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "write the study summary as JSON to this path")
	cmd.Flags().StringVar(&opts.objOut, "obj", "", "write the tessellated masses as OBJ to this path")

	return cmd
}

// newKernel maps a backend name to a kernel implementation.
func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case kernelExact:
		return analytic.New(), nil
	case kernelSdfx, "":
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q, expected %q or %q", name, kernelExact, kernelSdfx)
}

func runEval(ctx context.Context, scriptPath string, opts *evalOpts) error {
	logger := loggerFromContext(ctx)

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	k, err := newKernel(opts.kernel)
	if err != nil {
		return err
	}

	p := newProgress(logger)
	st, evalErrs, err := engine.New(k).Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", scriptPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Errorf("%s: %s", filepath.Base(scriptPath), e.Error())
		}
		return fmt.Errorf("%s: %d evaluation error(s)", scriptPath, len(evalErrs))
	}
	p.done(fmt.Sprintf("Evaluated %d mass(es)", st.MassCount()))

	for _, w := range st.Warnings() {
		logger.Warn(w)
	}

	sum := st.Summarize()
	for _, m := range sum.Masses {
		if !m.Built {
			logger.Warnf("%-12s %s  not built", m.Name, m.Typology)
			continue
		}
		logger.Infof("%-12s %s  floors=%d  footprint=%.1f  gfa=%.1f  volume=%.1f",
			m.Name, m.Typology, m.FloorCount, m.FootprintArea, m.TotalFloorArea, m.TotalVolume)
	}
	logger.Infof("total gfa=%.1f volume=%.1f", sum.TotalFloorArea, sum.TotalVolume)

	if opts.jsonOut != "" {
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		if err := os.WriteFile(opts.jsonOut, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		logger.Debugf("wrote %s", opts.jsonOut)
	}

	if opts.objOut != "" {
		mp := newProgress(logger)
		meshes, err := tessellate.Tessellate(st, k)
		if err != nil {
			return fmt.Errorf("tessellate: %w", err)
		}
		f, err := os.Create(opts.objOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.objOut, err)
		}
		defer f.Close()
		if err := writeOBJ(f, meshes); err != nil {
			return fmt.Errorf("write %s: %w", opts.objOut, err)
		}
		mp.done(fmt.Sprintf("Wrote %d mesh(es) to %s", len(meshes), opts.objOut))
	}

	return nil
}
