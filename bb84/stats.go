package bb84

import (
	"gonum.org/v1/gonum/stat"

	"github.com/qkdlab/qkddemo/bb84/bitstring"
)

// Stats packages together a collection of potentially interesting metrics
// pertaining to a single key negotiation.
type Stats struct {
	// SiftedBits is the length of the sifted keys.
	SiftedBits int

	// Mismatches counts the positions where the sifted keys disagree.
	Mismatches int

	// QBER is the observed quantum bit error rate: Mismatches over
	// SiftedBits, or 0 for an empty key.
	QBER float64

	// Interference is set when the sifted keys disagree anywhere.
	Interference bool
}

func newStats(senderKey, receiverKey bitstring.Dense) Stats {
	s := Stats{
		SiftedBits: senderKey.Size(),
		Mismatches: senderKey.XOr(receiverKey).CountOnes(),
	}
	if s.SiftedBits > 0 {
		s.QBER = float64(s.Mismatches) / float64(s.SiftedBits)
	}
	s.Interference = s.Mismatches > 0
	return s
}

// A Summary aggregates the statistics of repeated negotiations.
type Summary struct {
	// Rounds is the number of negotiations summarized.
	Rounds int

	// InterferenceRate is the fraction of rounds whose keys disagreed.
	InterferenceRate float64

	// MeanQBER and StdDevQBER describe the spread of per-round error rates.
	MeanQBER   float64
	StdDevQBER float64

	// MeanSifted and StdDevSifted describe the spread of sifted-key lengths.
	MeanSifted   float64
	StdDevSifted float64
}

// Summarize aggregates per-round statistics across repeated negotiations.
// Spreads are population standard deviations, so a single round summarizes
// to zero spread rather than NaN.
func Summarize(stats []Stats) Summary {
	if len(stats) == 0 {
		return Summary{}
	}
	qbers := make([]float64, len(stats))
	sifted := make([]float64, len(stats))
	interfered := 0
	for i, s := range stats {
		qbers[i] = s.QBER
		sifted[i] = float64(s.SiftedBits)
		if s.Interference {
			interfered++
		}
	}
	return Summary{
		Rounds:           len(stats),
		InterferenceRate: float64(interfered) / float64(len(stats)),
		MeanQBER:         stat.Mean(qbers, nil),
		StdDevQBER:       stat.PopStdDev(qbers, nil),
		MeanSifted:       stat.Mean(sifted, nil),
		StdDevSifted:     stat.PopStdDev(sifted, nil),
	}
}
