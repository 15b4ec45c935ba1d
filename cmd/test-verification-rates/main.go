// Test program to show how questions are classified and how often each
// topic receives a verified follow-up at a given threshold
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/selector"
)

func main() {
	threshold := flag.Float64("threshold", selector.DefaultThreshold, "verification threshold")
	rounds := flag.Int("rounds", 1000, "submissions per question")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if err := selector.ValidateThreshold(*threshold); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("=== Verification Rate Test ===")
	fmt.Println()

	questions := []string{
		"What is the fundamental theorem of calculus?",
		"How do I find a derivative?",
		"What is DNA?",
		"Explain Newton's second law of force",
		"What is a covalent bond?",
		"How do I solve a quadratic equation?",
		"What is the Pythagorean theorem for a triangle?",
		"Tell me about friendship",
	}

	sel := selector.New(catalog.Default(), *threshold)
	engine := chat.NewEngine(sel,
		chat.WithClock(chat.InstantClock{}),
		chat.WithRandom(selector.NewSeededRandom(*seed)),
	)

	ctx := context.Background()

	for _, q := range questions {
		topic := sel.Classify(q)
		fmt.Printf("Question: %s\n", q)
		fmt.Println(strings.Repeat("-", 60))

		verified := 0
		for i := 0; i < *rounds; i++ {
			sess := chat.NewSession("")
			msgs, err := engine.Submit(ctx, sess, q, chat.Hooks{})
			if err != nil {
				fmt.Printf("  Submit error: %v\n", err)
				break
			}
			if len(msgs) == 3 && msgs[2].Verified {
				verified++
			}
		}

		if sel.Catalog().IsVerifiable(topic) {
			fmt.Printf("  ✓ Topic: %s (verifiable)\n", topic)
		} else {
			fmt.Printf("  Topic: %s (never verified)\n", topic)
		}
		fmt.Printf("    Verified: %d/%d (%.1f%%)\n", verified, *rounds, 100*float64(verified)/float64(*rounds))
		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Printf("\nExpected rate for verifiable topics: %.1f%%\n", 100*(1-*threshold))
}
