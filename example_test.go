package profilematch_test

import (
	"context"
	"fmt"
	"log"

	profilematch "github.com/extrusionkit/profilematch"
	"github.com/extrusionkit/profilematch/geometry"
)

func Example() {
	ctx := context.Background()

	engine, err := profilematch.New()
	if err != nil {
		log.Fatal(err)
	}

	square := geometry.Profile{Outer: geometry.Loop{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	}}
	bar := geometry.Profile{Outer: geometry.Loop{
		{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 1}, {X: 0, Y: 1},
	}}

	if err := engine.AddReference(ctx, "die-0001", square, "alloy:6063"); err != nil {
		log.Fatal(err)
	}
	if err := engine.AddReference(ctx, "die-0002", bar, "alloy:6063"); err != nil {
		log.Fatal(err)
	}

	// Query with a rotated, rescaled copy of the square die.
	query := square.Rotate(0.4).Scale(12.5)
	results, err := engine.Rank(ctx, query, 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(results[0].ID)
	// Output: die-0001
}
