// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package edition decides whether a markup fragment describes the target
// (Java) edition. Unmarked content is treated as target-edition content.
package edition

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/craftgraph/internal/markup"
)

// Off-target keywords: the alternate platform edition and the educational variant.
const (
	keywordBedrock   = "bedrock"
	keywordEducation = "education"

	markerBedrockEdition = "bedrock edition"
	markerJavaEdition    = "java edition"
)

// Inline annotations look like "Bedrock Edition only" or the abbreviated "[BE only]".
var (
	offTargetWord = regexp.MustCompile(`\b(bedrock|education)\b`)
	onlyWord      = regexp.MustCompile(`\bonly\b`)
	abbrevOnly    = regexp.MustCompile(`\b(be|ee)\s+only\b`)
)

// IsTarget reports whether fragment belongs to the target edition. The
// checks run in order and the first rejection wins:
//
//  1. the fragment's own text names an off-target edition;
//  2. the nearest section/div ancestor names Bedrock Edition but not Java Edition;
//  3. a cell of the enclosing table row carries both off-target keywords, or an
//     off-target "only" superscript.
func IsTarget(fragment *html.Node) bool {
	if fragment == nil {
		return true
	}

	text := markup.LowerText(fragment)
	if strings.Contains(text, keywordBedrock) || strings.Contains(text, keywordEducation) {
		return false
	}

	if !AncestorIsTarget(fragment) {
		return false
	}

	if row := markup.ClosestTag(fragment, atom.Tr); row != nil {
		if !RowIsTarget(row) {
			return false
		}
	}

	return true
}

// AncestorIsTarget applies only the section check: the nearest section or
// div ancestor of n must not name Bedrock Edition without Java Edition.
func AncestorIsTarget(n *html.Node) bool {
	parent := markup.ClosestTag(n, atom.Section, atom.Div)
	if parent == nil {
		return true
	}
	pt := markup.LowerText(parent)
	return !strings.Contains(pt, markerBedrockEdition) || strings.Contains(pt, markerJavaEdition)
}

// RowIsTarget applies the sibling-cell check to a table row directly.
func RowIsTarget(row *html.Node) bool {
	for _, cell := range markup.Children(row, atom.Td) {
		ct := markup.LowerText(cell)
		if strings.Contains(ct, keywordBedrock) && strings.Contains(ct, keywordEducation) {
			return false
		}
		if hasOffTargetSup(cell) {
			return false
		}
	}
	return true
}

func hasOffTargetSup(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Sup && IsOffTargetOnly(markup.Text(c)) {
			return true
		}
		if hasOffTargetSup(c) {
			return true
		}
	}
	return false
}

// IsOffTargetOnly reports whether an annotation marks something as existing
// only in an off-target edition.
func IsOffTargetOnly(annotation string) bool {
	t := strings.ToLower(annotation)
	if abbrevOnly.MatchString(t) {
		return true
	}
	return onlyWord.MatchString(t) && offTargetWord.MatchString(t)
}
