// Package md2wechat converts Markdown to inline-styled HTML that survives
// pasting into the WeChat official account editor.
//
// # Quick Start
//
// Create a converter, render a document, and close when done:
//
//	conv, err := md2wechat.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Render(ctx, md2wechat.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// # Rendering Pipeline
//
//  1. Markdown normalization (list items split across lines are joined)
//  2. Markdown to HTML via Goldmark (GFM, window-chrome code blocks)
//  3. Image grouping: adjacent images become 2 or 3 column grids
//  4. Style application: every rule of the style profile is inlined
//
// # Export
//
// Export prepares the preview for the paste target and writes HTML and
// plain text to the clipboard in one write. Grids become tables, images
// become data URIs, a colored container becomes a <section>, code blocks are
// simplified and list items flattened:
//
//	conv, err := md2wechat.NewConverter(
//	    md2wechat.WithStyle("wechat-tech"),
//	    md2wechat.WithClipboard(writer),
//	)
//	res, err := conv.Export(ctx, md2wechat.Input{Markdown: content, SourceDir: dir})
//
// Images that cannot be fetched keep their original source; the result
// tallies them and never fails the export.
//
// # Paste and Upload
//
// HandlePaste routes a paste event into a Buffer: images are uploaded to the
// configured hosts with a base64 fallback, rich HTML becomes Markdown, and
// Markdown-looking text is pasted as is. Uploads insert a unique placeholder
// that is resolved by handle, so concurrent uploads and edits are safe.
//
// # Notifications
//
// User-facing outcomes are reported as Notification values with a severity
// instead of errors, in results and through WithNotifier.
package md2wechat
