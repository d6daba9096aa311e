package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a single answer prompt. Validate is called with
// each answer; a non-nil error is shown and the prompt repeats.
type InputConfig struct {
	Message  string
	Default  string
	Help     string
	Validate func(answer string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single choice prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Default  string
	Help     string
	Validate func(answer string) error
}

// Driver asks questions on a terminal. Filler only talks to a Driver, so
// tests can script the answers.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Multiline(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// SurveyDriver implements Driver with github.com/AlecAivazis/survey/v2.
type SurveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a driver on the process terminal. opts are passed
// to every prompt, for example survey.WithStdio.
func NewSurveyDriver(opts ...survey.AskOpt) *SurveyDriver {
	return &SurveyDriver{out: os.Stdout, opts: opts}
}

func (d *SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	return d.askString(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, cfg.Validate)
}

func (d *SurveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return d.askString(ctx, &survey.Password{Message: cfg.Message, Help: cfg.Help}, cfg.Validate)
}

func (d *SurveyDriver) Multiline(ctx context.Context, cfg InputConfig) (string, error) {
	return d.askString(ctx, &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, cfg.Validate)
}

func (d *SurveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *SurveyDriver) Select(ctx context.Context, cfg SelectConfig) (string, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	for _, opt := range cfg.Options {
		if opt == cfg.Default {
			prompt.Default = cfg.Default
			break
		}
	}
	return d.askString(ctx, prompt, cfg.Validate)
}

func (d *SurveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *SurveyDriver) askString(ctx context.Context, p survey.Prompt, validate func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := d.opts
	if validate != nil {
		opts = append(opts[:len(opts):len(opts)], survey.WithValidator(func(ans any) error {
			return validate(answerString(ans))
		}))
	}
	var out string
	if err := survey.AskOne(p, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func answerString(ans any) string {
	switch v := ans.(type) {
	case string:
		return v
	case survey.OptionAnswer:
		return v.Value
	}
	return fmt.Sprint(ans)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
