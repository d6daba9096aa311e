package formhttp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/sanitizer"
	"github.com/mitchelllharris/formkit/pkg/schema"
)

// DefaultScript is the DataStar client loaded by Page.
const DefaultScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Draft status shown above the buttons.
const (
	StatusEditing   = ""
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
)

// View carries one draft to the components.
type View struct {
	Def    *schema.Definition
	Form   *form.Form
	ID     string
	Base   string
	Script string
	Lang   string
	Labels Labels
	Status string
}

// Labels are the localised strings of the form chrome.
type Labels struct {
	Submit       string
	Reset        string
	Submitting   string
	Submitted    string
	SubmitFailed string
}

// DefaultLabels are used when no translator is configured.
var DefaultLabels = Labels{
	Submit:       "Submit",
	Reset:        "Reset",
	Submitting:   "Submitting...",
	Submitted:    "Thank you! Your response has been recorded.",
	SubmitFailed: "We could not process your submission. Please try again.",
}

// FormElementID is the DOM id of a form's root element.
func FormElementID(formName string) string {
	return "form-" + formName
}

// FieldElementID is the DOM id of a field's wrapper element.
func FieldElementID(formName, field string) string {
	return "field-" + formName + "-" + field
}

func (v View) draftURL() string {
	return v.Base + "/" + v.Def.Name + "/" + v.ID
}

// Page renders a standalone HTML document around FormView.
func Page(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := v.Def.Title
		if title == "" {
			title = v.Def.Name
		}
		script := v.Script
		if script == "" {
			script = DefaultScript
		}

		var b strings.Builder
		b.WriteString("<!doctype html>\n<html")
		writeAttr(&b, "lang", v.Lang)
		b.WriteString("><head><meta charset=\"utf-8\"><title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title><script type=\"module\"")
		writeAttr(&b, "src", script)
		b.WriteString("></script></head><body><main><h1>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</h1>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := FormView(v).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// FormView renders the form element with every field, or the confirmation
// once the draft is submitted.
func FormView(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if v.Status == StatusSubmitted {
			var b strings.Builder
			b.WriteString("<div class=\"form-submitted\"")
			writeAttr(&b, "id", FormElementID(v.Def.Name))
			b.WriteString("><p role=\"status\">")
			b.WriteString(templ.EscapeString(v.Labels.Submitted))
			b.WriteString("</p></div>")
			_, err := io.WriteString(w, b.String())
			return err
		}

		submitURL := v.draftURL() + "/submit"
		var b strings.Builder
		b.WriteString("<form novalidate")
		writeAttr(&b, "id", FormElementID(v.Def.Name))
		writeAttr(&b, "method", "post")
		writeAttr(&b, "action", submitURL)
		writeAttr(&b, "data-on:submit__prevent", "@post('"+submitURL+"')")
		writeAttr(&b, "hx-post", submitURL)
		writeAttr(&b, "hx-swap", "outerHTML")
		b.WriteString(">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		for _, field := range v.Def.Fields {
			if err := FieldView(v, field).Render(ctx, w); err != nil {
				return err
			}
		}

		b.Reset()
		if v.Status == StatusFailed {
			b.WriteString("<p class=\"form-error\" role=\"alert\">")
			b.WriteString(templ.EscapeString(v.Labels.SubmitFailed))
			b.WriteString("</p>")
		}
		b.WriteString("<div class=\"form-actions\"><button type=\"submit\"")
		if v.Form.Submitting() {
			b.WriteString(" disabled")
		}
		b.WriteString(">")
		if v.Form.Submitting() {
			b.WriteString(templ.EscapeString(v.Labels.Submitting))
		} else {
			b.WriteString(templ.EscapeString(v.Labels.Submit))
		}
		b.WriteString("</button><button type=\"button\"")
		writeAttr(&b, "data-on:click", "@post('"+v.draftURL()+"/reset')")
		writeAttr(&b, "hx-post", v.draftURL()+"/reset")
		writeAttr(&b, "hx-target", "#"+FormElementID(v.Def.Name))
		writeAttr(&b, "hx-swap", "outerHTML")
		b.WriteString(">")
		b.WriteString(templ.EscapeString(v.Labels.Reset))
		b.WriteString("</button></div></form>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FieldView renders one field with its label, input and error. Errors show
// only once the field is touched.
func FieldView(v View, field schema.Field) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		props := v.Form.FieldProps(field.Name)
		inputID := "input-" + v.Def.Name + "-" + field.Name
		errorID := "error-" + v.Def.Name + "-" + field.Name
		fieldURL := v.draftURL() + "/fields/" + field.Name

		class := "field"
		switch {
		case props.Error != "":
			class += " has-error"
		case props.Success:
			class += " is-valid"
		}

		var b strings.Builder
		b.WriteString("<div")
		writeAttr(&b, "id", FieldElementID(v.Def.Name, field.Name))
		writeAttr(&b, "class", class)
		b.WriteString("><label")
		writeAttr(&b, "for", inputID)
		b.WriteString(">")
		b.WriteString(templ.EscapeString(field.DisplayLabel()))
		b.WriteString("</label>")

		common := func() {
			writeAttr(&b, "id", inputID)
			writeAttr(&b, "name", field.Name)
			writeAttr(&b, "data-bind:"+field.Name, "")
			writeAttr(&b, "data-on:change", "@post('"+fieldURL+"/change')")
			writeAttr(&b, "data-on:blur", "@post('"+fieldURL+"/blur')")
			writeAttr(&b, "hx-post", fieldURL+"/change")
			writeAttr(&b, "hx-trigger", "change")
			writeAttr(&b, "hx-target", "#"+FieldElementID(v.Def.Name, field.Name))
			writeAttr(&b, "hx-swap", "outerHTML")
			if field.Required() {
				b.WriteString(" required")
			}
			if props.Error != "" {
				writeAttr(&b, "aria-invalid", "true")
				writeAttr(&b, "aria-describedby", errorID)
			}
		}

		switch field.Type {
		case sanitizer.TypeTextarea:
			b.WriteString("<textarea")
			common()
			writeAttr(&b, "placeholder", field.Placeholder)
			b.WriteString(">")
			b.WriteString(templ.EscapeString(text(props.Value)))
			b.WriteString("</textarea>")
		case sanitizer.TypeSelect:
			b.WriteString("<select")
			common()
			b.WriteString("><option value=\"\"></option>")
			current := text(props.Value)
			for _, choice := range field.Choices {
				b.WriteString("<option")
				writeAttr(&b, "value", choice)
				if choice == current {
					b.WriteString(" selected")
				}
				b.WriteString(">")
				b.WriteString(templ.EscapeString(choice))
				b.WriteString("</option>")
			}
			b.WriteString("</select>")
		case sanitizer.TypeCheckbox:
			b.WriteString("<input type=\"checkbox\" value=\"true\"")
			common()
			if checked, _ := props.Value.(bool); checked {
				b.WriteString(" checked")
			}
			b.WriteString(">")
		default:
			b.WriteString("<input")
			writeAttr(&b, "type", field.Type)
			common()
			writeAttr(&b, "placeholder", field.Placeholder)
			if field.Type != sanitizer.TypePassword {
				writeAttr(&b, "value", text(props.Value))
			}
			b.WriteString(">")
		}

		if field.Help != "" {
			b.WriteString("<small>")
			b.WriteString(templ.EscapeString(field.Help))
			b.WriteString("</small>")
		}
		if props.Error != "" {
			b.WriteString("<p class=\"field-error\"")
			writeAttr(&b, "id", errorID)
			b.WriteString(">")
			b.WriteString(templ.EscapeString(props.Error))
			b.WriteString("</p>")
		}
		b.WriteString("</div>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" && !strings.HasPrefix(name, "data-bind") {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	if value == "" {
		return
	}
	b.WriteString("=\"")
	b.WriteString(templ.EscapeString(value))
	b.WriteByte('"')
}

func text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
