package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parti-cad/parti/pkg/engine"
	"github.com/parti-cad/parti/pkg/footprint"
	"github.com/parti-cad/parti/pkg/kernel/analytic"
)

// newCheckCmd creates the check command. It evaluates a script with the
// exact kernel and reports feasibility per mass without exporting any
// geometry. The command fails when the script has evaluation errors or
// when any mass is infeasible.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [script]",
		Short: "Report typology feasibility for a massing script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args[0])
		},
	}
}

func runCheck(ctx context.Context, scriptPath string) error {
	logger := loggerFromContext(ctx)

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	st, evalErrs, err := engine.New(analytic.New()).Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", scriptPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Errorf("%s: %s", filepath.Base(scriptPath), e.Error())
		}
		return fmt.Errorf("%s: %d evaluation error(s)", scriptPath, len(evalErrs))
	}

	infeasible := 0
	for _, rec := range st.Records() {
		if rec.Built() {
			logger.Infof("%-12s %s  ok", rec.Name, rec.Request.Typology)
			continue
		}
		infeasible++
		vs := footprint.Check(rec.Request.Typology, rec.Request.Length, rec.Request.Width, rec.Request.Depth)
		if len(vs) == 0 {
			logger.Errorf("%-12s %s  invalid target area or floor height", rec.Name, rec.Request.Typology)
			continue
		}
		for _, v := range vs {
			logger.Errorf("%-12s %s  %s (wants %s)", rec.Name, rec.Request.Typology, v.Message, v.Guard)
		}
	}

	if infeasible > 0 {
		return fmt.Errorf("%d of %d mass(es) infeasible", infeasible, st.MassCount())
	}
	logger.Infof("all %d mass(es) feasible", st.MassCount())
	return nil
}
