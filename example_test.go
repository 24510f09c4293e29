package md2wechat_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-md2wechat"
)

// Example renders a document with the default style.
func Example() {
	conv, err := md2wechat.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Render(context.Background(), md2wechat.Input{
		Markdown: "# Hello World\n\nThis is a test.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(result.HTML, `<h1 style="`) {
		fmt.Println("styled HTML generated")
	}
	// Output: styled HTML generated
}

// ExampleConverter_Export prepares a document for the WeChat editor. No
// clipboard is configured, so the payload is only returned.
func ExampleConverter_Export() {
	conv, err := md2wechat.NewConverter(md2wechat.WithStyle("wechat-default"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Export(context.Background(), md2wechat.Input{
		Markdown: "- first\n- second",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(strings.Contains(result.Text, "first"), result.Images.Total)
	// Output: true 0
}

// ExampleConverter_HandlePaste converts pasted rich text to Markdown.
func ExampleConverter_HandlePaste() {
	conv, err := md2wechat.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	buf := md2wechat.NewBuffer("")
	res, err := conv.HandlePaste(context.Background(), buf, 0, md2wechat.PastePayload{
		HTML: "<h2>Notes</h2><p>An <em>important</em> point</p>",
		Text: "Notes\nAn important point",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Classification.Decision)
	fmt.Println(buf.String())
	// Output:
	// convert-html
	// ## Notes
	//
	// An *important* point
}
