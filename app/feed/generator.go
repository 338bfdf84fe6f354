package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/shop-feed/app/shop"
)

const GoogleNamespace = "http://base.google.com/ns/1.0"

// itemFields are the g: elements written for every item, in order. Every one
// of them is present even when the record lacks the field.
var itemFields = []string{
	FieldID,
	FieldTitle,
	FieldDescription,
	FieldImageLink,
	FieldLink,
	FieldMPN,
	FieldGTIN,
	FieldPrice,
	FieldAvailability,
	FieldCondition,
}

type Generator struct {
	version string
	now     func() time.Time
}

func NewGenerator(version string) *Generator {
	return &Generator{
		version: version,
		now:     time.Now,
	}
}

// Run renders the records as an RSS 2.0 product feed. It returns ErrEmpty
// when the result has no records.
func (g *Generator) Run(s Shop, result *Result) (string, error) {
	if result == nil || len(result.Records) == 0 {
		return "", ErrEmpty
	}

	name := shop.DomainToName(s.Name)
	domain := shop.NameToDomain(name)
	selfLink := s.FeedURL
	if selfLink == "" {
		selfLink = fmt.Sprintf("https://%s/a/product_catalog", domain)
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:g="` + GoogleNamespace + `" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", name, 4)
	g.writeElement(&buf, "link", "https://"+domain, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("Product Feed for %s", name), 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))
	g.writeElement(&buf, "lastBuildDate", g.now().Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Shop-Feed/%s", g.version), 4)

	for _, record := range result.Records {
		g.writeItem(&buf, record)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, record Record) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "title", record[FieldTitle], 6)

	for _, field := range itemFields {
		g.writeFullElement(buf, "g:"+field, record[field], 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}
	g.writeFullElement(buf, tag, content, indent)
}

// writeFullElement writes the element even when content is empty.
func (g *Generator) writeFullElement(buf *bytes.Buffer, tag, content string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
