// Package paste decides what to do with a clipboard paste and converts rich
// HTML back into Markdown.
//
// # Classification
//
// Classify evaluates an ordered rule table against one Payload. The first
// rule whose predicate holds yields the Decision:
//
//  1. an image file in Files: upload it
//  2. an image file in Items: upload it
//  3. text made only of "[Image #n]" placeholders: warn, insert nothing
//  4. text that scores as Markdown: default paste
//  5. HTML: default paste for code editor exports, warning for local
//     image paths, conversion otherwise
//  6. default paste
//
// # Markdown scoring
//
// ScoreMarkdown counts how many Markdown constructs occur in a text. Two or
// more, or an image annotation comment, classify the text as Markdown.
//
// # Conversion
//
// Converter sanitizes the fragment with bluemonday and converts it with
// html-to-markdown, overriding tables (pipe rows) and data URI images
// (redacted to their subtype).
package paste
