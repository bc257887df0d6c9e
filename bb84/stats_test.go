package bb84

import (
	"math"
	"testing"
)

func TestNewStats(t *testing.T) {
	tcs := []struct {
		name        string
		senderKey   string
		receiverKey string
		eout        Stats
	}{{
		name:        "keys agree",
		senderKey:   "10110",
		receiverKey: "10110",
		eout:        Stats{SiftedBits: 5},
	}, {
		name:        "one mismatch",
		senderKey:   "10110",
		receiverKey: "10010",
		eout:        Stats{SiftedBits: 5, Mismatches: 1, QBER: 0.2, Interference: true},
	}, {
		name:        "empty keys",
		senderKey:   "",
		receiverKey: "",
		eout:        Stats{},
	}}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := newStats(mustDense(t, tc.senderKey), mustDense(t, tc.receiverKey))
			if got != tc.eout {
				t.Errorf("newStats == %+v, want %+v", got, tc.eout)
			}
		})
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestSummarize(t *testing.T) {
	stats := []Stats{
		{SiftedBits: 8, Mismatches: 0, QBER: 0, Interference: false},
		{SiftedBits: 8, Mismatches: 4, QBER: 0.5, Interference: true},
		{SiftedBits: 4, Mismatches: 2, QBER: 0.5, Interference: true},
		{SiftedBits: 4, Mismatches: 4, QBER: 1, Interference: true},
	}
	got := Summarize(stats)
	if got.Rounds != 4 {
		t.Errorf("Rounds == %d, want 4", got.Rounds)
	}
	if !approxEqual(got.InterferenceRate, 0.75) {
		t.Errorf("InterferenceRate == %f, want 0.75", got.InterferenceRate)
	}
	if !approxEqual(got.MeanQBER, 0.5) {
		t.Errorf("MeanQBER == %f, want 0.5", got.MeanQBER)
	}
	if want := math.Sqrt(0.125); !approxEqual(got.StdDevQBER, want) {
		t.Errorf("StdDevQBER == %f, want %f", got.StdDevQBER, want)
	}
	if !approxEqual(got.MeanSifted, 6) {
		t.Errorf("MeanSifted == %f, want 6", got.MeanSifted)
	}
	if !approxEqual(got.StdDevSifted, 2) {
		t.Errorf("StdDevSifted == %f, want 2", got.StdDevSifted)
	}
}

func TestSummarizeSingleRound(t *testing.T) {
	got := Summarize([]Stats{{SiftedBits: 8, Mismatches: 2, QBER: 0.25, Interference: true}})
	want := Summary{
		Rounds:           1,
		InterferenceRate: 1,
		MeanQBER:         0.25,
		MeanSifted:       8,
	}
	if got != want {
		t.Errorf("Summarize == %+v, want %+v", got, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) == %+v, want zero Summary", got)
	}
}
