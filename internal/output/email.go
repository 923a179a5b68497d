// Package output delivers rendered reports: email drafts for mail
// clients, with a browser fallback.
package output

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// plainFallback is shown by clients that do not render the HTML part.
const plainFallback = "This message includes an HTML report. " +
	"If you are seeing this text, your mail client " +
	"may not be rendering the HTML portion."

// Draft is an outgoing report email before it reaches a mail client.
type Draft struct {
	Subject string
	To      []string
	Cc      []string
	HTML    string
}

// DraftHandler opens report drafts in the local mail client. On macOS
// it writes a .eml file and lets the OS pick the default client; on
// other platforms it falls back to opening the HTML in a browser.
type DraftHandler struct {
	goos string
	log  zerolog.Logger
}

// NewDraftHandler returns a handler for the current platform.
func NewDraftHandler(log zerolog.Logger) *DraftHandler {
	return &DraftHandler{goos: runtime.GOOS, log: log}
}

// Open presents the draft to the user. Returns an error only when both
// the mail client and the browser fallback fail.
func (h *DraftHandler) Open(d Draft) error {
	if h.goos == "darwin" {
		err := h.openEML(d)
		if err == nil {
			return nil
		}
		h.log.Warn().Err(err).Msg("mail client draft failed, falling back to browser")
	} else {
		h.log.Warn().Str("platform", h.goos).Msg("email drafts unsupported, opening in browser")
	}
	return h.openInBrowser(d.HTML)
}

func (h *DraftHandler) openEML(d Draft) error {
	eml, err := BuildEML(d)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp("", "report-*.eml")
	if err != nil {
		return fmt.Errorf("output: create draft file: %w", err)
	}
	if _, err := f.Write(eml); err != nil {
		f.Close()
		return fmt.Errorf("output: write draft file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close draft file: %w", err)
	}

	if err := exec.Command("open", f.Name()).Run(); err != nil {
		return fmt.Errorf("output: open draft: %w", err)
	}
	h.log.Info().Str("path", f.Name()).Msg("email draft opened")
	return nil
}

func (h *DraftHandler) openInBrowser(html string) error {
	f, err := os.CreateTemp("", "report-*.html")
	if err != nil {
		return fmt.Errorf("output: create html file: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("output: write html file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close html file: %w", err)
	}

	var cmd *exec.Cmd
	switch h.goos {
	case "darwin":
		cmd = exec.Command("open", f.Name())
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", f.Name())
	default:
		cmd = exec.Command("xdg-open", f.Name())
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("output: open browser: %w", err)
	}
	h.log.Info().Str("path", f.Name()).Msg("report opened in browser")
	return nil
}

// BuildEML encodes a draft as a multipart/alternative RFC 5322 message
// with a plain-text part ahead of the HTML part.
func BuildEML(d Draft) ([]byte, error) {
	var sb strings.Builder

	if d.Subject != "" {
		sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", d.Subject) + "\r\n")
	}
	if len(d.To) > 0 {
		sb.WriteString("To: " + strings.Join(d.To, ", ") + "\r\n")
	}
	if len(d.Cc) > 0 {
		sb.WriteString("Cc: " + strings.Join(d.Cc, ", ") + "\r\n")
	}
	sb.WriteString("MIME-Version: 1.0\r\n")

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	sb.WriteString(`Content-Type: multipart/alternative; boundary="` + mw.Boundary() + `"` + "\r\n\r\n")

	plain, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("output: build eml: %w", err)
	}
	if _, err := plain.Write([]byte(plainFallback + "\r\n")); err != nil {
		return nil, fmt.Errorf("output: build eml: %w", err)
	}

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("output: build eml: %w", err)
	}
	if _, err := htmlPart.Write([]byte(d.HTML + "\r\n")); err != nil {
		return nil, fmt.Errorf("output: build eml: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("output: build eml: %w", err)
	}

	sb.WriteString(body.String())
	return []byte(sb.String()), nil
}
