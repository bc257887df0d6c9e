// qkddemo.go runs a BB84 key-distribution walkthrough: it negotiates a
// shared key over a simulated quantum channel, optionally with an
// eavesdropper interposed, then carries a short message under the key and
// prints a stage-by-stage trace of the whole trip.
package main

import (
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/qkdlab/qkddemo/bb84"
	"github.com/qkdlab/qkddemo/bb84/bitstring"
	"github.com/qkdlab/qkddemo/bb84/qubit"
	"github.com/qkdlab/qkddemo/scenario"
)

var (
	message = flag.String("message", "Hello Quantum Key Distribution",
		"The text message to carry over the encrypted channel.")
	keySize = flag.Int("key-size", bb84.DefaultKeySize,
		"The number of qubits to exchange per key negotiation.")
	eve = flag.Bool("eve", false,
		"Interpose an intercept-resend eavesdropper on the quantum channel.")
	repetitions = flag.Int("repetitions", 1,
		"The number of negotiations to run. Statistics are aggregated across all of them.")
	seed = flag.Int64("seed", -1,
		"The PRNG seed for the run. Negative seeds are drawn from the clock.")
	scenarioFile = flag.String("scenario", "",
		"A TOML scenario file to load run parameters from. Explicit flags take precedence.")
	dumpQASM = flag.Bool("qasm", false,
		"Print each circuit as OpenQASM 2.0 in addition to the wire diagram.")
	verbose = flag.Bool("verbose", false, "Enable debug logging.")
)

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *scenarioFile != "" {
		applyScenario(*scenarioFile)
	}
	s := *seed
	if s < 0 {
		s = time.Now().UnixNano()
	}
	log.WithField("seed", s).Debugln("seeding PRNG")
	if err := run(rand.New(rand.NewSource(s))); err != nil {
		log.WithError(err).Fatalln("Demonstration failed")
	}
}

// applyScenario folds the contents of a scenario file into the flag values,
// letting explicitly-set flags win.
func applyScenario(path string) {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		log.WithError(err).Fatalln("Loading scenario")
	}
	if !flag.CommandLine.Changed("message") {
		*message = sc.Message
	}
	if !flag.CommandLine.Changed("key-size") {
		*keySize = sc.KeySize
	}
	if !flag.CommandLine.Changed("eve") {
		*eve = sc.Eve
	}
	if !flag.CommandLine.Changed("repetitions") {
		*repetitions = sc.Repetitions
	}
	if !flag.CommandLine.Changed("seed") {
		*seed = sc.Seed
	}
}

func run(r *rand.Rand) error {
	if *repetitions < 1 {
		return fmt.Errorf("repetitions must be positive, got %d", *repetitions)
	}

	fmt.Printf("Input Message: %s\n", *message)
	bitMsg, err := bitstring.FromText(*message)
	if err != nil {
		return err
	}
	fmt.Printf("Bit Message: %s\n", bitMsg)

	ex, err := bb84.New(bb84.Opts{
		Channel: qubit.Simulated{Rand: r},
		Rand:    r,
		KeySize: *keySize,
		Eve:     *eve,
	})
	if err != nil {
		return err
	}

	fmt.Println("Initiating Quantum Key Exchange")
	var stats []bb84.Stats
	var last *bb84.Negotiation
	for i := 0; i < *repetitions; i++ {
		n, err := ex.Run()
		if err != nil {
			return err
		}
		stats = append(stats, n.Stats)
		last = n
	}
	printCircuits(last)
	fmt.Printf("Quantum Key Exchange complete, sampling keys...\n\n")

	fmt.Printf("Alice's key: %s\n", last.SenderKey)
	fmt.Printf("Bob's key:   %s\n", last.ReceiverKey)
	if last.Stats.Interference {
		fmt.Println("Interference detected! Keys do not match!")
		fmt.Println("Continuing anyway!")
	} else {
		fmt.Println("No interference detected!")
	}

	enc, err := bb84.XOR(bitMsg, last.SenderKey)
	if err != nil {
		return err
	}
	fmt.Printf("Alice's encrypted bits: %s\n", enc)
	dec, err := bb84.XOR(enc, last.ReceiverKey)
	if err != nil {
		return err
	}
	fmt.Printf("Bob's decrypted bits: %s\n", dec)
	out, err := dec.Text()
	if err != nil {
		return err
	}
	fmt.Printf("Bob's Received Message: %s\n", out)

	if len(stats) > 1 {
		printSummary(bb84.Summarize(stats))
	}
	return nil
}

func printCircuits(n *bb84.Negotiation) {
	for i, c := range n.Circuits {
		if len(n.Circuits) == 1 {
			fmt.Println("Circuit:")
		} else {
			fmt.Printf("Circuit %d/%d:\n", i+1, len(n.Circuits))
		}
		fmt.Println(c.Diagram())
		if *dumpQASM {
			fmt.Println(c.QASM())
		}
	}
}

func printSummary(s bb84.Summary) {
	fmt.Println()
	fmt.Printf("Across %d repetitions:\n", s.Rounds)
	fmt.Printf("  Interference rate: %.2f\n", s.InterferenceRate)
	fmt.Printf("  QBER: %.4f ± %.4f\n", s.MeanQBER, s.StdDevQBER)
	fmt.Printf("  Sifted key bits: %.1f ± %.1f\n", s.MeanSifted, s.StdDevSifted)
}
