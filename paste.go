package md2wechat

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2wechat/internal/notify"
	"github.com/alnah/go-md2wechat/internal/paste"
	"github.com/alnah/go-md2wechat/internal/upload"
)

// Paste warnings.
const (
	msgPlaceholderOnly = "The pasted text only holds image placeholders; copy the image itself and paste again"
	msgLocalImages     = "The pasted content links images on your disk; upload them instead"
)

// ClassifyPaste decides how a paste event should be handled without
// touching any buffer.
func (c *Converter) ClassifyPaste(p PastePayload) Classification {
	return paste.Classify(p)
}

// HandlePaste applies a paste event to buf at cursor.
//
// Images are uploaded, rich HTML is converted to Markdown (plain text on
// conversion failure), placeholder-only text is refused with a warning and
// everything else is inserted as plain text, the way a text editor pastes.
func (c *Converter) HandlePaste(ctx context.Context, buf *Buffer, cursor int, p PastePayload) (result *PasteResult, err error) {
	rec := &notify.Recorder{}
	n := notify.Multi{c.notifier, rec}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		if result == nil {
			result = &PasteResult{}
		}
		result.Notifications = append(result.Notifications, rec.All()...)
	}()

	cls := paste.Classify(p)
	result = &PasteResult{Classification: cls}
	c.logger.Debug("paste classified", "decision", cls.Decision.String(), "rule", cls.Rule)

	switch cls.Decision {
	case paste.DecisionUploadImage:
		up, upErr := c.Upload(ctx, buf, cursor, Image{Name: cls.File.Name, Type: cls.File.Type, Data: cls.File.Data})
		result.Notifications = append(result.Notifications, up.Notifications...)
		up.Notifications = nil
		if upErr != nil {
			return result, upErr
		}
		result.Upload = up
		result.Inserted = up.Markdown
		return result, nil

	case paste.DecisionPlaceholderWarning:
		notify.Send(n, notify.Warning, msgPlaceholderOnly)
		return result, nil

	case paste.DecisionConvertHTML:
		md, convErr := c.markdown.ConvertOrText(p.HTML, p.Text)
		if convErr != nil {
			c.logger.Warn("HTML paste conversion failed, pasting plain text", "error", convErr.Error())
		}
		buf.Insert(cursor, md)
		result.Inserted = md
		return result, nil

	case paste.DecisionLocalImageWarning:
		notify.Send(n, notify.Warning, msgLocalImages)
	}

	buf.Insert(cursor, p.Text)
	result.Inserted = p.Text
	return result, nil
}

// Upload validates img, inserts an uploading placeholder at cursor and
// replaces it with the final image reference once the upload settles.
// Rejected images return an error and leave buf unchanged; host failures
// fall back to the secondary host, then to a base64 data URI.
func (c *Converter) Upload(ctx context.Context, buf *Buffer, cursor int, img Image) (*UploadResult, error) {
	rec := &notify.Recorder{}
	pl := c.uploadPipeline(notify.Multi{c.notifier, rec})

	out, err := pl.Upload(ctx, buf, cursor, img)
	if err != nil {
		return &UploadResult{Notifications: rec.All()}, err
	}
	return &UploadResult{
		Source:        string(out.Source),
		URL:           out.URL,
		Markdown:      out.Markdown,
		Errors:        out.Errors,
		Notifications: rec.All(),
	}, nil
}

func (c *Converter) uploadPipeline(n Notifier) *upload.Pipeline {
	opts := []upload.Option{
		upload.WithLogger(c.logger),
		upload.WithNotifier(n),
		upload.WithMaxBytes(c.cfg.maxUpload),
	}
	if c.secondaryHost != nil {
		opts = append(opts, upload.WithSecondary(c.secondaryHost))
	}
	return upload.NewPipeline(c.primaryHost, opts...)
}
