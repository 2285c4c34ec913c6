package main

import (
	"fmt"
	"sort"
)

const ModuleName = "Guaranteed Endowment"

func EpicMap() [][2]string {
	return [][2]string{
		{"EntryAge", "Entry age by premium payment term"},
		{"PaymentFrequency", "Allowed payment frequencies"},
		{"Gender", "Gender neutral pricing"},
	}
}

func EpicMapRider() [][2]string {
	return [][2]string{
		{"MaturityAge", "Rider maturity age"},
	}
}

func GenerateTestCases(epicCounts map[string]any, selectedEpics []string, epicCountsRider map[string]any, selectedEpicsRider []string) ([]map[string]any, error) {
	var rows []map[string]any
	emit := func(plan string, counts map[string]any, keys []string) {
		sort.Strings(keys)
		for _, key := range keys {
			cfg, _ := counts[key].(map[string]any)
			pos, _ := cfg["positive"].(int)
			neg, _ := cfg["negative"].(int)
			for i := 0; i < pos; i++ {
				rows = append(rows, map[string]any{
					"TUID":       fmt.Sprintf("%s-%s-P%d", plan, key, i),
					"Epic":       key,
					"Test_Type":  "Positive",
					"Rule_Check": "Pass",
				})
			}
			for i := 0; i < neg; i++ {
				rows = append(rows, map[string]any{
					"TUID":       fmt.Sprintf("%s-%s-N%d", plan, key, i),
					"Epic":       key,
					"Test_Type":  "Negative",
					"Rule_Check": "Fail",
				})
			}
		}
	}
	emit("BASE", epicCounts, selectedEpics)
	emit("RIDER", epicCountsRider, selectedEpicsRider)
	return rows, nil
}
