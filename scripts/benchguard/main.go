// Command benchguard compares two `go test -bench` outputs and fails when
// a benchmark regresses past the configured ratios.
//
//	go test -run '^$' -bench . -benchmem ./internal/analyzer ./internal/filter > head.txt
//	go run ./scripts/benchguard --base base.txt --head head.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type benchResult struct {
	Name     string
	TimeNs   float64
	BytesOp  float64
	AllocsOp float64
}

var timeUnitToNs = map[string]float64{
	"ns/op": 1,
	"us/op": 1e3,
	"µs/op": 1e3,
	"ms/op": 1e6,
	"s/op":  1e9,
}

// procSuffix strips the -GOMAXPROCS suffix so runs on different machines line up
var procSuffix = regexp.MustCompile(`-\d+$`)

func parseBench(r io.Reader) (map[string]benchResult, error) {
	results := make(map[string]benchResult)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || !strings.HasPrefix(fields[0], "Benchmark") {
			continue
		}

		res := benchResult{
			Name:     procSuffix.ReplaceAllString(fields[0], ""),
			TimeNs:   math.NaN(),
			BytesOp:  metric(fields, "B/op"),
			AllocsOp: metric(fields, "allocs/op"),
		}
		for unit, scale := range timeUnitToNs {
			if v := metric(fields, unit); !math.IsNaN(v) {
				res.TimeNs = v * scale
				break
			}
		}
		if math.IsNaN(res.TimeNs) {
			continue
		}
		results[res.Name] = res
	}
	return results, sc.Err()
}

// metric returns the value preceding unit, or NaN when absent
func metric(fields []string, unit string) float64 {
	for i := 1; i < len(fields); i++ {
		if fields[i] != unit {
			continue
		}
		v, err := strconv.ParseFloat(fields[i-1], 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	return math.NaN()
}

func parseBenchFile(path string) (map[string]benchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBench(f)
}

type limits struct {
	Time   float64
	Bytes  float64
	Allocs float64
}

type regression struct {
	Name   string
	Metric string
	Base   float64
	Head   float64
	Ratio  float64
}

func ratio(base, head float64) float64 {
	if base == 0 {
		if head == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return head / base
}

// compare returns regressions sorted worst first and the number of
// benchmarks present in both runs
func compare(base, head map[string]benchResult, lim limits, match *regexp.Regexp) ([]regression, int) {
	var regressions []regression
	compared := 0
	check := func(name, metric string, b, h, max float64) {
		if math.IsNaN(b) || math.IsNaN(h) {
			return
		}
		if r := ratio(b, h); r > max {
			regressions = append(regressions, regression{Name: name, Metric: metric, Base: b, Head: h, Ratio: r})
		}
	}

	for name, b := range base {
		if match != nil && !match.MatchString(name) {
			continue
		}
		h, ok := head[name]
		if !ok {
			continue
		}
		compared++
		check(name, "time/op", b.TimeNs, h.TimeNs, lim.Time)
		check(name, "B/op", b.BytesOp, h.BytesOp, lim.Bytes)
		check(name, "allocs/op", b.AllocsOp, h.AllocsOp, lim.Allocs)
	}

	sort.Slice(regressions, func(i, j int) bool {
		if regressions[i].Ratio == regressions[j].Ratio {
			if regressions[i].Name == regressions[j].Name {
				return regressions[i].Metric < regressions[j].Metric
			}
			return regressions[i].Name < regressions[j].Name
		}
		return regressions[i].Ratio > regressions[j].Ratio
	})
	return regressions, compared
}

func report(w io.Writer, regressions []regression, compared int) {
	if len(regressions) == 0 {
		fmt.Fprintf(w, "benchguard: ok (%d benchmarks compared)\n", compared)
		return
	}
	fmt.Fprintf(w, "benchguard: found %d regressions (%d benchmarks compared)\n", len(regressions), compared)
	for _, r := range regressions {
		switch r.Metric {
		case "time/op":
			fmt.Fprintf(w, "- %s %s: %.0fns -> %.0fns (x%.2f)\n", r.Name, r.Metric, r.Base, r.Head, r.Ratio)
		default:
			fmt.Fprintf(w, "- %s %s: %.0f -> %.0f (x%.2f)\n", r.Name, r.Metric, r.Base, r.Head, r.Ratio)
		}
	}
}

func main() {
	var (
		basePath string
		headPath string
		pattern  string
		lim      limits
	)
	flag.StringVar(&basePath, "base", "", "Path to base benchmark output")
	flag.StringVar(&headPath, "head", "", "Path to head benchmark output")
	flag.StringVar(&pattern, "match", "", "Only compare benchmarks whose name matches this regex")
	flag.Float64Var(&lim.Time, "max-time-ratio", 2.0, "Fail if time/op regresses by more than this ratio")
	flag.Float64Var(&lim.Bytes, "max-bytes-ratio", 1.5, "Fail if B/op regresses by more than this ratio")
	flag.Float64Var(&lim.Allocs, "max-allocs-ratio", 1.5, "Fail if allocs/op regresses by more than this ratio")
	flag.Parse()

	if basePath == "" || headPath == "" {
		fmt.Fprintln(os.Stderr, "usage: benchguard --base <file> --head <file> [--match <regex>]")
		os.Exit(2)
	}

	var match *regexp.Regexp
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --match: %v\n", err)
			os.Exit(2)
		}
		match = re
	}

	base, err := parseBenchFile(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse base: %v\n", err)
		os.Exit(2)
	}
	head, err := parseBenchFile(headPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse head: %v\n", err)
		os.Exit(2)
	}

	regressions, compared := compare(base, head, lim, match)
	if compared == 0 {
		fmt.Fprintln(os.Stderr, "no overlapping benchmarks found between base and head outputs")
		os.Exit(2)
	}
	report(os.Stdout, regressions, compared)
	if len(regressions) > 0 {
		os.Exit(1)
	}
}
