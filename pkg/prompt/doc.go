// Package prompt fills schema-defined forms on a terminal.
//
//	f, _ := def.NewForm()
//	values, err := prompt.NewFiller(def, f, prompt.NewSurveyDriver()).Run(ctx, submitFn)
//
// Answers go through the form engine as a change and a blur, so the prompt
// shows the same messages a browser would and repeats until the field is
// valid.
package prompt
