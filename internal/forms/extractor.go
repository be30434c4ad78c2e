// Package forms extracts HTML forms for probes to target, adapted from
// the form-extraction idiom the teacher repo used for CSRF/sensitive-field
// detection.
package forms

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BetterCallFirewall/tupisec/internal/models"
)

// csrfPattern matches field names commonly used for CSRF tokens.
var csrfPattern = regexp.MustCompile(`(?i)(csrf|token|nonce|authenticity)`)

// Extractor parses HTML and returns the forms it finds.
type Extractor struct{}

// New returns a ready Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses htmlBody (fetched from pageURL) and returns every form
// found, with Action resolved to an absolute URL.
func (e *Extractor) Extract(pageURL, htmlBody string) []models.Form {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var forms []models.Form
	doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		action, _ := sel.Attr("action")
		method := strings.ToUpper(strings.TrimSpace(sel.AttrOr("method", "GET")))
		if method != "POST" {
			method = "GET"
		}

		absAction := action
		if action == "" {
			absAction = pageURL
		} else {
			ref, err := url.Parse(action)
			if err != nil {
				return
			}
			absAction = base.ResolveReference(ref).String()
		}

		form := models.Form{Action: absAction, Method: method}

		sel.Find("input, select, textarea").Each(func(_ int, field *goquery.Selection) {
			name, ok := field.Attr("name")
			if !ok || name == "" {
				return
			}
			form.Fields = append(form.Fields, models.FormField{
				Name:         name,
				Type:         fieldType(field),
				DefaultValue: field.AttrOr("value", ""),
				Autocomplete: strings.ToLower(strings.TrimSpace(field.AttrOr("autocomplete", ""))),
			})
			if csrfPattern.MatchString(name) {
				form.CSRFField = name
			}
		})

		forms = append(forms, form)
	})
	return forms
}

func fieldType(sel *goquery.Selection) models.FieldType {
	tag := goquery.NodeName(sel)
	switch tag {
	case "select":
		return models.FieldSelect
	case "textarea":
		return models.FieldTextarea
	}
	t := strings.ToLower(sel.AttrOr("type", "text"))
	switch t {
	case "hidden":
		return models.FieldHidden
	case "submit":
		return models.FieldSubmit
	case "button":
		return models.FieldButton
	case "image":
		return models.FieldImage
	case "password":
		return models.FieldPassword
	case "email":
		return models.FieldEmail
	case "checkbox":
		return models.FieldCheckbox
	case "radio":
		return models.FieldRadio
	default:
		return models.FieldText
	}
}
