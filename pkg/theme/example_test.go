package theme_test

import (
	"fmt"

	"github.com/matzehuels/figurine/pkg/theme"
)

func ExampleEscapeXML() {
	fmt.Println(theme.EscapeXML(`<b>"Tom" & 'Jerry'</b>`))
	// Output: &lt;b&gt;&quot;Tom&quot; &amp; &apos;Jerry&apos;&lt;/b&gt;
}

func ExampleShorten() {
	fmt.Println(theme.Shorten("Hello   world", 20))
	fmt.Println(theme.Shorten("Serverless pipelines for human review", 26))
	// Output:
	// Hello world
	// Serverless pipelines [...]
}

func ExampleFormatValue() {
	fmt.Println(theme.FormatValue(12))
	fmt.Println(theme.FormatValue(12.34))
	// Output:
	// 12
	// 12.3
}

func ExampleAccent() {
	fmt.Println(theme.Accent(9))
	// Output: var(--c1)
}
