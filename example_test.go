package kernel_test

import (
	"context"
	"fmt"
	"log"

	"github.com/invariant-sdk/kernel"
	"github.com/invariant-sdk/kernel/crystal"
)

// Example_crystallize builds the similarity graph of three vectors.
func Example_crystallize() {
	k, err := kernel.New()
	if err != nil {
		log.Fatal(err)
	}

	vectors := [][]float32{{1, 0}, {1, 0}, {0, 1}}
	edges, err := k.Crystallize(context.Background(), vectors, 0.5)
	if err != nil {
		log.Fatal(err)
	}

	crystal.Sort(edges)
	for _, e := range edges {
		fmt.Printf("%d -> %d (%.2f)\n", e.Source, e.Target, e.Score)
	}
	// Output: 0 -> 1 (1.00)
}

// Example_identity shows the shape of token and bond identifiers.
func Example_identity() {
	k, err := kernel.New()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(k.Digest("intelligence")))
	fmt.Println(k.BondID("a", "b", "IMP"))
	fmt.Println(k.Digest("cat") == k.Digest("dog"))

	m := k.Metrics("cat", true)
	fmt.Println(m.Weight, m.Depth, m.Leaves)
	// Output:
	// 64
	// 5326b75c7dca275c
	// false
	// 6 3 4
}
