// Package eml extracts the headers and readable body of RFC 5322 email files.
package eml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // register non-UTF-8 charsets
	"github.com/emersion/go-message/mail"

	"github.com/custodia-labs/ragindex/internal/core/domain"
	"github.com/custodia-labs/ragindex/internal/core/ports/driven"
	"github.com/custodia-labs/ragindex/internal/normalisers/html"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles saved email messages. Plain-text parts are preferred;
// a message with only HTML parts is reduced to text by the HTML normaliser.
// Attachments are skipped.
type Normaliser struct {
	html *html.Normaliser
}

// New creates an email normaliser.
func New() *Normaliser {
	return &Normaliser{html: html.New()}
}

// SupportedTypes returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedTypes() []string {
	return []string{"eml"}
}

// Normalise returns From, To, Date and Subject lines followed by the body.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw.Content))
	if err != nil && !message.IsUnknownCharset(err) {
		return "", fmt.Errorf("%w: parse email: %w", domain.ErrProcessing, err)
	}
	defer mr.Close()

	var plain, markup []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return "", fmt.Errorf("%w: read email part: %w", domain.ErrProcessing, err)
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, _ := h.ContentType()
		if mediaType != "" && mediaType != "text/plain" && mediaType != "text/html" {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", fmt.Errorf("%w: read email body: %w", domain.ErrProcessing, err)
		}
		if mediaType == "text/html" {
			markup = append(markup, string(body))
		} else {
			plain = append(plain, strings.TrimSpace(string(body)))
		}
	}

	body := strings.Join(plain, "\n\n")
	if len(plain) == 0 && len(markup) > 0 {
		body, err = n.html.Normalise(ctx, &domain.RawDocument{
			Filename: raw.Filename + ".html",
			Content:  []byte(strings.Join(markup, "\n")),
		})
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	writeHeaders(&b, mr.Header)
	b.WriteString(body)
	return strings.TrimSpace(b.String()), nil
}

func writeHeaders(b *strings.Builder, h mail.Header) {
	for _, key := range []string{"From", "To"} {
		if list, err := h.AddressList(key); err == nil && len(list) > 0 {
			addrs := make([]string, len(list))
			for i, a := range list {
				addrs[i] = a.String()
			}
			fmt.Fprintf(b, "%s: %s\n", key, strings.Join(addrs, ", "))
		}
	}
	if date := h.Get("Date"); date != "" {
		fmt.Fprintf(b, "Date: %s\n", date)
	}
	if subject, err := h.Subject(); err == nil && subject != "" {
		fmt.Fprintf(b, "Subject: %s\n", subject)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
}
