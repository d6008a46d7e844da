package diagram_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/figurine/pkg/render/diagram"
)

func ExampleSplitFields() {
	fmt.Printf("%q\n", diagram.SplitFields("Old | New | slow:fast "))
	// Output: ["Old" "New" "slow:fast"]
}

func ExampleRender() {
	svg, ok := diagram.Render(diagram.KindComparison, "Old | New | slow:fast")
	fmt.Println(ok, strings.Count(string(svg), "→"))

	_, ok = diagram.Render(diagram.KindComparison, "Old | New")
	fmt.Println(ok)
	// Output:
	// true 2
	// false
}

func ExampleStageHeight() {
	for i := 0; i < 3; i++ {
		fmt.Println(diagram.StageHeight(i))
	}
	// Output:
	// 70
	// 140
	// 210
}
