package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/BTBurke/spc/constants"
	"github.com/BTBurke/spc/pkg/rng"
	"github.com/BTBurke/spc/pkg/stat"
	"github.com/lmittmann/tint"
)

const (
	Loops     int     = 10000
	Subgroups int     = 25
	Mean      float64 = 10.0
	Stdev     float64 = 1.0
)

var wg sync.WaitGroup

// results holds, per subgroup size, the fraction of in-control runs in which each rule fired
type results struct {
	name string
	mu   sync.Mutex
	val  map[int]map[constants.Rule]float64
}

func (r *results) record(size int, rates map[constants.Rule]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.val[size] = rates
}

func newResults(name string) *results {
	return &results{
		name: name,
		val:  make(map[int]map[constants.Rule]float64),
	}
}

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	res := newResults("false-alarms")
	start := time.Now()
	for size := stat.MinSubgroupSize; size <= stat.MaxSubgroupSize; size++ {
		wg.Add(1)
		slog.Info("start", "subgroup_size", size)
		go falseAlarmRate(res, size, int64(size))
	}
	wg.Wait()
	slog.Info("done", "elapsed", time.Since(start))

	sizes := make([]int, 0, len(res.val))
	for size := range res.val {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	var b bytes.Buffer
	b.WriteString("size rule1 rule2 rule3 rule4\n")
	for _, size := range sizes {
		b.WriteString(fmt.Sprintf("%d", size))
		for _, rule := range constants.Rules {
			b.WriteString(fmt.Sprintf(" %1.5f", res.val[size][rule]))
		}
		b.WriteString("\n")
	}
	if err := ioutil.WriteFile(fmt.Sprintf("%s.txt", res.name), b.Bytes(), 0644); err != nil {
		slog.Error("could not write results", "err", err)
		os.Exit(1)
	}
}

// falseAlarmRate simulates in-control normal subgroups of the given size and counts the runs
// in which each rule fired at least once
func falseAlarmRate(results *results, size int, seed int64) {
	defer wg.Done()
	factors, err := stat.FactorsFor(size)
	if err != nil {
		slog.Error("no factors", "subgroup_size", size, "err", err)
		os.Exit(1)
	}
	r := rng.NewSeededNormalRNG(Mean, Stdev, seed)

	fired := make(map[constants.Rule]int)
	for i := 0; i < Loops; i++ {
		charts, err := stat.ControlLimits(rng.Subgroups(r, Subgroups, size), factors)
		if err != nil {
			slog.Error("unexpected error computing limits", "subgroup_size", size, "err", err)
			os.Exit(1)
		}
		violations, err := stat.DetectViolations(charts.Mean.Series, charts.Mean.Limits.Center, charts.Mean.Limits.Upper)
		if err != nil {
			slog.Error("unexpected error detecting violations", "subgroup_size", size, "err", err)
			os.Exit(1)
		}
		seen := make(map[constants.Rule]bool)
		for _, v := range violations {
			seen[v.Rule] = true
		}
		for rule := range seen {
			fired[rule]++
		}
	}

	rates := make(map[constants.Rule]float64)
	for _, rule := range constants.Rules {
		rates[rule] = float64(fired[rule]) / float64(Loops)
	}
	slog.Info("result", "subgroup_size", size,
		"rule1", rates[constants.Rule1], "rule2", rates[constants.Rule2],
		"rule3", rates[constants.Rule3], "rule4", rates[constants.Rule4])
	results.record(size, rates)
}
