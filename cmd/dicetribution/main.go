package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/jonasmerlin/dicetribution/internal/dice"
)

const diceFlagHelp = "Dice pool, side counts or NdM notation (e.g. 2d6+1d8)"

func main() {
	app := kingpin.New("dicetribution", "Exact sum distributions and odds for dice pools, straight from the terminal")
	jsonOut := app.Flag("json", "Emit machine-readable JSON instead of text").Bool()

	tableCmd := app.Command("table", "Print the full sum distribution of a dice pool")
	tableDice := tableCmd.Flag("dice", diceFlagHelp).Required().String()

	statsCmd := app.Command("stats", "Cumulative odds of reaching a target sum")
	statsDice := statsCmd.Flag("dice", diceFlagHelp).Required().String()
	statsTarget := statsCmd.Flag("target", "Target sum").Required().Int()

	impactCmd := app.Command("impact", "How a flat modifier shifts the odds of reaching a target")
	impactDice := impactCmd.Flag("dice", diceFlagHelp).Required().String()
	impactTarget := impactCmd.Flag("target", "Target sum before the modifier").Required().Int()
	impactModifier := impactCmd.Flag("modifier", "Flat bonus (positive) or penalty (negative)").Required().Int()

	rollCmd := app.Command("roll", "Roll the pool once")
	rollDice := rollCmd.Flag("dice", diceFlagHelp).Required().String()
	rollSeed := rollCmd.Flag("seed", "Seed for reproducible rolls (0 derives one from the clock)").Int64()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	var err error
	switch cmd {
	case tableCmd.FullCommand():
		err = runTable(os.Stdout, *tableDice, *jsonOut)
	case statsCmd.FullCommand():
		err = runStats(os.Stdout, *statsDice, *statsTarget, *jsonOut)
	case impactCmd.FullCommand():
		err = runImpact(os.Stdout, *impactDice, *impactTarget, *impactModifier, *jsonOut)
	case rollCmd.FullCommand():
		err = runRoll(os.Stdout, *rollDice, *rollSeed, *jsonOut)
	}
	app.FatalIfError(err, "")
}

func runTable(w io.Writer, expr string, asJSON bool) error {
	sides, dist, err := buildPool(expr)
	if err != nil {
		return err
	}

	out := tableOutput{
		Dice:              sides,
		Notation:          dice.FormatSet(sides),
		MinSum:            dist.MinSum(),
		MaxSum:            dist.MaxSum(),
		TotalCombinations: dist.TotalCombinations().String(),
	}
	if !dist.Empty() {
		out.Entries = make([]tableEntry, 0, dist.Size())
		for sum := dist.MinSum(); sum <= dist.MaxSum(); sum++ {
			out.Entries = append(out.Entries, tableEntry{
				Sum:         sum,
				Count:       dist.Count(sum).String(),
				Probability: dist.Probability(sum),
			})
		}
	}

	if asJSON {
		return writeJSON(w, out)
	}
	return writeText(w, formatTableHuman(out))
}

func runStats(w io.Writer, expr string, target int, asJSON bool) error {
	sides, dist, err := buildPool(expr)
	if err != nil {
		return err
	}

	stats := dist.CumulativeStats(target)
	out := statsOutput{
		Dice:     sides,
		Notation: dice.FormatSet(sides),
		Target:   target,
		AtLeast:  stats.AtLeast,
		AtMost:   stats.AtMost,
		Exactly:  stats.Exactly,
	}

	if asJSON {
		return writeJSON(w, out)
	}
	return writeText(w, formatStatsHuman(out))
}

func runImpact(w io.Writer, expr string, target, modifier int, asJSON bool) error {
	sides, dist, err := buildPool(expr)
	if err != nil {
		return err
	}

	res := dist.ModifierImpact(target, modifier)
	out := impactOutput{
		Dice:      sides,
		Notation:  dice.FormatSet(sides),
		Target:    target,
		Modifier:  modifier,
		NewTarget: res.NewTarget,
		AtLeast:   res.Impact.AtLeast,
		AtMost:    res.Impact.AtMost,
		Exactly:   res.Impact.Exactly,
	}

	if asJSON {
		return writeJSON(w, out)
	}
	return writeText(w, formatImpactHuman(out))
}

func runRoll(w io.Writer, expr string, seed int64, asJSON bool) error {
	sides, err := dice.ParseSet(expr)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	result, err := dice.Roll(sides, seed)
	if err != nil {
		return err
	}

	out := rollOutput{
		Dice:     sides,
		Notation: dice.FormatSet(sides),
		Faces:    result.Faces,
		Total:    result.Total,
		Seed:     seed,
	}

	if asJSON {
		return writeJSON(w, out)
	}
	return writeText(w, formatRollHuman(out))
}

func buildPool(expr string) ([]int, *dice.Distribution, error) {
	sides, err := dice.ParseSet(expr)
	if err != nil {
		return nil, nil, err
	}
	dist, err := dice.New().Build(sides)
	if err != nil {
		return nil, nil, err
	}
	return sides, dist, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeText(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func formatTableHuman(out tableOutput) string {
	var b strings.Builder

	if len(out.Entries) == 0 {
		b.WriteString("empty pool, nothing to tabulate\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s  (%s combinations, sums %d..%d)\n", out.Notation, out.TotalCombinations, out.MinSum, out.MaxSum))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	maxProb := 0.0
	for _, e := range out.Entries {
		if e.Probability > maxProb {
			maxProb = e.Probability
		}
	}
	for _, e := range out.Entries {
		width := 0
		if maxProb > 0 {
			width = int(e.Probability/maxProb*40 + 0.5)
		}
		b.WriteString(fmt.Sprintf("%5d  %10s  %7.3f%%  %s\n", e.Sum, e.Count, e.Probability*100, strings.Repeat("#", width)))
	}

	return b.String()
}

func formatStatsHuman(out statsOutput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s vs target %d\n", poolLabel(out.Notation), out.Target))
	b.WriteString(fmt.Sprintf("  P(sum >= %d) = %7.3f%%\n", out.Target, out.AtLeast*100))
	b.WriteString(fmt.Sprintf("  P(sum <= %d) = %7.3f%%\n", out.Target, out.AtMost*100))
	b.WriteString(fmt.Sprintf("  P(sum == %d) = %7.3f%%\n", out.Target, out.Exactly*100))

	return b.String()
}

func formatImpactHuman(out impactOutput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s with modifier %+d vs target %d (effective target %d)\n",
		poolLabel(out.Notation), out.Modifier, out.Target, out.NewTarget))
	b.WriteString(fmt.Sprintf("  P(sum >= target) shifts by %+7.3f points\n", out.AtLeast*100))
	b.WriteString(fmt.Sprintf("  P(sum <= target) shifts by %+7.3f points\n", out.AtMost*100))
	b.WriteString(fmt.Sprintf("  P(sum == %d) = %7.3f%%\n", out.NewTarget, out.Exactly*100))

	return b.String()
}

func formatRollHuman(out rollOutput) string {
	if len(out.Faces) == 0 {
		return fmt.Sprintf("rolled an empty pool, total 0 (seed %d)\n", out.Seed)
	}

	faces := make([]string, len(out.Faces))
	for i, f := range out.Faces {
		faces[i] = fmt.Sprintf("%d", f)
	}
	return fmt.Sprintf("%s rolled %s = %d (seed %d)\n", out.Notation, strings.Join(faces, " + "), out.Total, out.Seed)
}

func poolLabel(notation string) string {
	if notation == "" {
		return "empty pool"
	}
	return notation
}

type tableOutput struct {
	Dice              []int        `json:"dice"`
	Notation          string       `json:"notation"`
	MinSum            int          `json:"minSum"`
	MaxSum            int          `json:"maxSum"`
	TotalCombinations string       `json:"totalCombinations"`
	Entries           []tableEntry `json:"entries"`
}

type tableEntry struct {
	Sum         int     `json:"sum"`
	Count       string  `json:"count"`
	Probability float64 `json:"probability"`
}

type statsOutput struct {
	Dice     []int   `json:"dice"`
	Notation string  `json:"notation"`
	Target   int     `json:"target"`
	AtLeast  float64 `json:"atLeast"`
	AtMost   float64 `json:"atMost"`
	Exactly  float64 `json:"exactly"`
}

type impactOutput struct {
	Dice      []int   `json:"dice"`
	Notation  string  `json:"notation"`
	Target    int     `json:"target"`
	Modifier  int     `json:"modifier"`
	NewTarget int     `json:"newTarget"`
	AtLeast   float64 `json:"atLeast"`
	AtMost    float64 `json:"atMost"`
	Exactly   float64 `json:"exactly"`
}

type rollOutput struct {
	Dice     []int  `json:"dice"`
	Notation string `json:"notation"`
	Faces    []int  `json:"faces"`
	Total    int    `json:"total"`
	Seed     int64  `json:"seed"`
}
