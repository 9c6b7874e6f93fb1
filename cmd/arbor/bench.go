package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/pkg/host"
	"github.com/arbor-ui/arbor/pkg/patcher"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

func benchCmd() *cobra.Command {
	var (
		iterations int
		rows       int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure render, diff, and patch throughput",
		Long: `Render a synthetic table, mutate one cell per iteration, and
report how long the diff and patch cycle takes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := func(stamp int) *vdom.VNode {
				return vdom.El("table", nil,
					vdom.Repeat(rows, func(i int) *vdom.VNode {
						text := fmt.Sprintf("row %d", i)
						if i == stamp%rows {
							text = fmt.Sprintf("row %d (gen %d)", i, stamp)
						}
						return vdom.El("tr", nil, vdom.El("td", nil, text))
					}),
				)
			}

			h := host.NewMemoryHost()
			m := patcher.NewMount(h, h.Root, patcher.WithResolver(benchResolver{}))
			m.Render(table(0))

			start := time.Now()
			patches := 0
			for i := 1; i <= iterations; i++ {
				next := table(i)
				patches += len(vdom.Diff(m.Tree(), next))
				m.Render(next)
			}
			elapsed := time.Since(start)

			printBanner()
			success("%d iterations over %d rows in %s", iterations, rows, elapsed)
			info("%.1f renders/sec", float64(iterations)/elapsed.Seconds())
			info("%d host mutations, %d root patches", len(h.Ops), patches)
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 1000, "Render iterations")
	cmd.Flags().IntVar(&rows, "rows", 100, "Table rows per render")

	return cmd
}

// benchResolver satisfies the patcher but the synthetic tree never uses it.
type benchResolver struct{}

func (benchResolver) MountComponent(name string, props vdom.Props) (patcher.Instance, error) {
	return nil, fmt.Errorf("bench tree has no components")
}
