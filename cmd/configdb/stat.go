package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print cache and lock manager counters",
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })

	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "configdb_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			val, ok := metricValue(mf.GetType(), m)
			if !ok {
				continue
			}
			fmt.Printf("%s{%s} %g\n", mf.GetName(), labelString(m), val)
		}
	}
	return nil
}

func metricValue(kind dto.MetricType, m *dto.Metric) (float64, bool) {
	switch kind {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), true
	case dto.MetricType_HISTOGRAM:
		return m.GetHistogram().GetSampleSum(), true
	default:
		return 0, false
	}
}

func labelString(m *dto.Metric) string {
	labels := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return strings.Join(labels, ",")
}
