// Package draft handles the markdown drafts that flow through review.
//
// Drafts are Astro content files: a YAML frontmatter block delimited by
// "---" lines, followed by the markdown body. A draft carries "draft: true"
// until it is published.
package draft

import (
	"fmt"
	"strings"
)

// slugStrip lists the characters removed from titles before hyphenation.
var slugStrip = strings.NewReplacer(
	`"`, "", "'", "", "?", "", "!", "", ".", "", ",", "",
	":", "", ";", "", "(", "", ")", "",
)

// Slugify derives a post slug from its title: lowercased, punctuation
// removed, spaces turned into single hyphens.
func Slugify(title string) string {
	slug := slugStrip.Replace(strings.ToLower(title))
	slug = strings.Trim(strings.ReplaceAll(slug, " ", "-"), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug
}

// Key returns the object key a draft is stored under while in review.
func Key(date, slug string) string {
	return fmt.Sprintf("drafts/%s-%s.md", date, slug)
}

// PostPath returns the repository path of a published post.
func PostPath(slug string) string {
	return "src/content/blog/" + slug + ".md"
}

// Publish returns markdown with the "draft: true" frontmatter line removed.
func Publish(markdown string) string {
	return strings.Replace(markdown, "draft: true\n", "", 1)
}
