package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/figurine/pkg/errors"
)

const fence = "---"

// Frontmatter is the metadata block of a post.
type Frontmatter struct {
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
	Categories  []string `yaml:"categories" json:"categories"`
	Description string   `yaml:"description" json:"description"`
	Draft       bool     `yaml:"draft,omitempty" json:"draft,omitempty"`
}

// Slug derives the post slug from the title.
func (f Frontmatter) Slug() string { return Slugify(f.Title) }

// Split separates the frontmatter block from the body. A document without a
// leading "---" line has no frontmatter; ok is false.
func Split(markdown string) (front, body string, ok bool) {
	rest, found := strings.CutPrefix(markdown, fence+"\n")
	if !found {
		return "", markdown, false
	}
	if strings.HasPrefix(rest, fence+"\n") {
		return "", strings.TrimPrefix(rest, fence+"\n"), true
	}
	i := strings.Index(rest, "\n"+fence+"\n")
	if i < 0 {
		if strings.HasSuffix(rest, "\n"+fence) {
			return rest[:len(rest)-len(fence)-1], "", true
		}
		return "", markdown, false
	}
	return rest[:i], rest[i+len(fence)+2:], true
}

// ParseFrontmatter decodes the frontmatter of markdown and returns it with
// the body.
func ParseFrontmatter(markdown string) (Frontmatter, string, error) {
	front, body, ok := Split(markdown)
	if !ok {
		return Frontmatter{}, markdown, errors.New(errors.ErrCodeInvalidFormat, "draft has no frontmatter block")
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return Frontmatter{}, body, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse frontmatter")
	}
	return fm, body, nil
}

// Compose renders f as a frontmatter block followed by body. Strings are
// double-quoted and categories are written as a JSON array, the form the
// site's content collection expects.
func Compose(f Frontmatter, body string) string {
	cats := f.Categories
	if len(cats) == 0 {
		cats = []string{"tech"}
	}
	catsJSON, _ := json.Marshal(cats)

	var b bytes.Buffer
	b.WriteString(fence + "\n")
	fmt.Fprintf(&b, "title: %s\n", quote(f.Title))
	fmt.Fprintf(&b, "date: %s\n", f.Date)
	if f.Author != "" {
		fmt.Fprintf(&b, "author: %s\n", quote(f.Author))
	}
	fmt.Fprintf(&b, "categories: %s\n", catsJSON)
	fmt.Fprintf(&b, "description: %s\n", quote(f.Description))
	if f.Draft {
		b.WriteString("draft: true\n")
	}
	b.WriteString(fence + "\n\n")
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")
	return b.String()
}

func quote(s string) string {
	q, _ := json.Marshal(s)
	return string(q)
}
