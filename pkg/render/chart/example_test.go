package chart_test

import (
	"fmt"

	"github.com/matzehuels/figurine/pkg/render/chart"
)

func ExampleBarWidths() {
	s := chart.Series{{Label: "a", Value: 10}, {Label: "b", Value: 20}, {Label: "c", Value: 40}}
	fmt.Println(chart.BarWidths(s))
	// Output: [95 190 380]
}

func ExampleSlices() {
	s := chart.Series{{Label: "a", Value: 1}, {Label: "b", Value: 3}}
	for _, sl := range chart.Slices(s) {
		fmt.Printf("%.0f..%.0f\n", sl.Start, sl.End())
	}
	// Output:
	// -90..0
	// 0..270
}

func ExamplePie_zeroTotal() {
	_, ok := chart.Pie(chart.Series{{Label: "A", Value: 0}}, "empty")
	fmt.Println(ok)
	// Output: false
}
