package http

import (
	"html/template"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/yanqian/crop-advisor/internal/domain/session"
)

const (
	pageTitle    = "Smart Crop Recommendation System"
	pageSubtitle = "Enter soil and climate parameters to get the most suitable crop for your farm"
	submitLabel  = "Get Recommendation"
	pendingLabel = "Getting Recommendation..."
)

// PanelKind selects which result panel the page shows.
type PanelKind string

const (
	PanelNone           PanelKind = ""
	PanelRecommendation PanelKind = "recommendation"
	PanelError          PanelKind = "error"
)

// PageData is the template model for the form page.
type PageData struct {
	Title       string
	Subtitle    string
	SessionID   string
	Fields      []FieldData
	Panel       Panel
	Pending     bool
	SubmitLabel string
}

// FieldData is one rendered input.
type FieldData struct {
	Key         string
	Label       string
	Placeholder string
	Step        string
	Min         string
	Max         string
	Required    bool
	Value       string
	Error       string
}

// Panel is the single result area. Text is already sanitized.
type Panel struct {
	Kind PanelKind
	Text template.HTML
}

// Presenter maps session snapshots onto template data.
type Presenter struct {
	policy *bluemonday.Policy
}

// NewPresenter constructs a Presenter.
func NewPresenter() *Presenter {
	return &Presenter{policy: bluemonday.StrictPolicy()}
}

// Page renders a view. It has no side effects.
func (p *Presenter) Page(view session.View) PageData {
	data := PageData{
		Title:       pageTitle,
		Subtitle:    pageSubtitle,
		SessionID:   view.ID,
		Fields:      make([]FieldData, 0, len(view.Fields)),
		Panel:       p.Panel(view.Result),
		Pending:     view.Pending,
		SubmitLabel: submitLabel,
	}
	if view.Pending {
		data.SubmitLabel = pendingLabel
	}
	for _, f := range view.Fields {
		field := FieldData{
			Key:         string(f.Spec.Key),
			Label:       f.Spec.Label,
			Placeholder: f.Spec.Placeholder,
			Step:        f.Spec.Step,
			Required:    f.Spec.Required,
			Value:       f.Value,
			Error:       f.Error,
		}
		if f.Spec.Min != nil {
			field.Min = formatFloat(*f.Spec.Min)
		}
		if f.Spec.Max != nil {
			field.Max = formatFloat(*f.Spec.Max)
		}
		data.Fields = append(data.Fields, field)
	}
	return data
}

// Panel returns exactly one of: no panel, the crop name, or the error text.
func (p *Presenter) Panel(result session.Result) Panel {
	switch result.Kind {
	case session.ResultCrop:
		return Panel{Kind: PanelRecommendation, Text: template.HTML(p.policy.Sanitize(result.Crop))}
	case session.ResultError:
		return Panel{Kind: PanelError, Text: template.HTML(p.policy.Sanitize(result.Message))}
	default:
		return Panel{Kind: PanelNone}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
