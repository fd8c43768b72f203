package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

type prompter interface {
	Field(ctx context.Context, spec crop.FieldSpec, def string) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Field(ctx context.Context, spec crop.FieldSpec, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if def == "" {
		def = spec.Placeholder
	}
	var out string
	prompt := &survey.Input{
		Message: spec.Label,
		Default: def,
		Help:    fieldHelp(spec),
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(fieldValidator(spec))); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: true}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// fieldValidator applies the same checks as the web form.
func fieldValidator(spec crop.FieldSpec) survey.Validator {
	return func(ans any) error {
		raw, ok := ans.(string)
		if !ok {
			return fmt.Errorf("unexpected answer type %T", ans)
		}
		if state := spec.Validate(raw); !state.Valid() {
			return errors.New(state.Message)
		}
		return nil
	}
}

func fieldHelp(spec crop.FieldSpec) string {
	switch {
	case spec.Min != nil && spec.Max != nil:
		return fmt.Sprintf("between %g and %g", *spec.Min, *spec.Max)
	case spec.Min != nil:
		return fmt.Sprintf("at least %g", *spec.Min)
	default:
		return "any number"
	}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
