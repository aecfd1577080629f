package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// Known templates rendered by the email worker. Data keys are the fields the
// API publishes with the job ("Name", "Email", ...).
var registry = map[string]struct {
	subject string
	body    string
}{
	"welcome": {
		subject: "Welcome aboard, {{.Name}}!",
		body: "Hi {{.Name}},\n\n" +
			"Your account is ready. Sign requests with the token from signup or\n" +
			"log in at any time to start a new session.\n\n" +
			"Let us know how you get along with the app.\n",
	},
	"farewell": {
		subject: "Sorry to see you go",
		body: "Goodbye {{.Name}},\n\n" +
			"Your account and all of your tasks have been removed.\n" +
			"Is there anything we could have done to keep you on board?\n",
	},
}

// Render produces the subject and text body for a named template.
func Render(name string, data map[string]any) (subject, text string, err error) {
	entry, ok := registry[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	subject, err = render(name+"/subject", entry.subject, data)
	if err != nil {
		return "", "", err
	}
	text, err = render(name+"/body", entry.body, data)
	if err != nil {
		return "", "", err
	}
	return subject, text, nil
}

func render(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
