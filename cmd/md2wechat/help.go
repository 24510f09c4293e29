package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markdown to styled preview HTML")
	fmt.Fprintln(w, "  export     Copy WeChat-ready HTML to the clipboard")
	fmt.Fprintln(w, "  paste      Apply a paste (HTML, text or image) to a markdown file")
	fmt.Fprintln(w, "  upload     Upload images and insert their markdown")
	fmt.Fprintln(w, "  styles     List style profiles and manage starred styles")
	fmt.Fprintln(w, "  snapshot   Save the preview as a PNG image")
	fmt.Fprintln(w, "  serve      Run the HTTP editor backend")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2wechat help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -s, --style <key>         Style profile key")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2WECHAT_CONFIG, MD2WECHAT_STYLE, MD2WECHAT_LOG_LEVEL")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat render [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown to the styled preview HTML. Reads stdin without a file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default stdout)")
	fmt.Fprintln(w, "      --page                Write a standalone HTML page")
	fmt.Fprintln(w, "  -w, --watch               Re-render when the file changes")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat export [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build WeChat-ready HTML: image grids become tables, images are embedded")
	fmt.Fprintln(w, "as data URIs, code blocks and lists are simplified. The result goes to")
	fmt.Fprintln(w, "the clipboard as HTML plus plain text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --out <dir>           Write clipboard.html and clipboard.txt instead")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printPasteUsage prints usage for the paste command.
func printPasteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat paste [--html file] [--text file] [--image file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Apply one paste to a markdown buffer: images are uploaded, rich HTML is")
	fmt.Fprintln(w, "converted to markdown, anything else is inserted as text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --html <file>         Pasted HTML")
	fmt.Fprintln(w, "      --text <file>         Pasted plain text (- for stdin)")
	fmt.Fprintln(w, "      --image <file>        Pasted image")
	fmt.Fprintln(w, "      --into <file.md>      Markdown file to edit (default: print result)")
	fmt.Fprintln(w, "      --cursor <n>          Byte offset to insert at (default: end)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printUploadUsage prints usage for the upload command.
func printUploadUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat upload <image>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload images to the configured host, falling back to the secondary host")
	fmt.Fprintln(w, "and then to base64 embedding, and insert one image reference per line.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --into <file.md>      Markdown file to edit (default: print result)")
	fmt.Fprintln(w, "      --cursor <n>          Byte offset to insert at (default: end)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat styles [list | starred | star <key> | unstar <key>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List style profiles (* marks starred ones) or change starred styles.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printSnapshotUsage prints usage for the snapshot command.
func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat snapshot [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the preview in headless Chrome and save it as PNG.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PNG (default: input name with .png)")
	fmt.Fprintln(w, "      --width <px>          Viewport width (default 760)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2wechat serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor API: /api/render, /api/export, /api/paste, /api/upload,")
	fmt.Fprintln(w, "/api/styles and /api/styles/:key/star.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "paste":
		printPasteUsage(env.Stdout)
	case "upload":
		printUploadUsage(env.Stdout)
	case "styles":
		printStylesUsage(env.Stdout)
	case "snapshot":
		printSnapshotUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2wechat version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2wechat help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
