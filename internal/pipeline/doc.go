// Package pipeline implements the Markdown-to-article rendering stages and
// the tree transforms applied when an article is exported to the clipboard.
//
// Preview stages, in order:
//   - Markdown normalization (list continuation fixups)
//   - Markdown to HTML via goldmark, with a window-chrome code block formatter
//   - image grouping into CSS grids
//   - per-selector inline styling and the profile container
//
// Export stages work on a clone of the preview tree:
//   - grid containers become fixed-height tables
//   - a background <section> replaces the styled container when needed
//   - decorated code blocks collapse to plain <pre><code>
//   - list item text is flattened to one line
//
// Image inlining lives in internal/imageinline; the export orchestration that
// sequences these stages lives in the root package.
package pipeline
