package draw

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	baseSymbolSize = 20
	maxSymbolSize  = 60
)

// ControlFlowGraph builds a force-layout graph of cf. When visits is
// non-nil, node size grows with the number of times a block was entered.
func ControlFlowGraph(cf *ControlFlow, visits map[uint32]int, title string) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d basic blocks", len(cf.Blocks)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes, links := graphData(cf, visits)
	graph.AddSeries("control flow", nodes, links).SetSeriesOptions(
		charts.WithGraphChartOpts(opts.GraphChart{
			Force:      &opts.GraphForce{Repulsion: 800, Gravity: 0.2},
			Layout:     "force",
			Roam:       opts.Bool(true),
			EdgeSymbol: []string{"none", "arrow"},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
	)
	return graph
}

func graphData(cf *ControlFlow, visits map[uint32]int) ([]opts.GraphNode, []opts.GraphLink) {
	maxVisits := 0
	for _, n := range visits {
		if n > maxVisits {
			maxVisits = n
		}
	}

	nodes := make([]opts.GraphNode, 0, len(cf.Blocks))
	var links []opts.GraphLink
	for _, b := range cf.Blocks {
		size := baseSymbolSize
		if maxVisits > 0 {
			size += (maxSymbolSize - baseSymbolSize) * visits[b.Start] / maxVisits
		}
		texts := make([]string, 0, len(b.Entries))
		for _, e := range b.Entries {
			texts = append(texts, fmt.Sprintf("%d: %s", e.Address, e.Text))
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       b.Label(),
			SymbolSize: size,
			Tooltip: &opts.Tooltip{
				Show:      opts.Bool(true),
				Formatter: types.FuncStr(strings.Join(texts, "<br/>")),
			},
		})
		for _, s := range b.Succ {
			if sb, ok := cf.Block(s); ok {
				links = append(links, opts.GraphLink{Source: b.Label(), Target: sb.Label()})
			}
		}
	}
	return nodes, links
}

// RenderGraphPage writes a standalone HTML page holding the graph of cf.
func RenderGraphPage(w io.Writer, cf *ControlFlow, visits map[uint32]int, title string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(ControlFlowGraph(cf, visits, title))
	return page.Render(w)
}
