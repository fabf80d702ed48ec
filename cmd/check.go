package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/registry"
	"github.com/mverel/caseplan/pkg/ingest"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate inputs and report model size without solving",
	RunE:  check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	windows, err := ingest.ReadSessionsFile(sessionsPath)
	if err != nil {
		return err
	}
	cases, err := ingest.ReadCasesFile(casesPath)
	if err != nil {
		return err
	}

	g, err := grid.Build(windows, cfg.Grid)
	if err != nil {
		return err
	}
	reg, err := registry.New(cases, g)
	if err != nil {
		return err
	}
	m, err := milp.Build(reg, g, cfg.Objective.Weighter())
	if err != nil {
		return err
	}

	fmt.Printf("sessions: %d\n", len(g.SessionNames()))
	fmt.Printf("cases: %d\n", reg.Len())
	fmt.Printf("variables: %d\n", m.NumVariables())
	fmt.Printf("constraints: %d\n", m.NumConstraints())
	for _, c := range reg.Cases() {
		if len(m.VarsForCase(c.Name)) == 0 {
			fmt.Printf("warning: case %q fits no eligible session\n", c.Name)
		}
	}
	return nil
}
