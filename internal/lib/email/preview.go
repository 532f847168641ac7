package email

// PreviewData holds sample values for every template variable, keyed by
// template name, for local previews and tests.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserFirstName": "John",
	},
}
