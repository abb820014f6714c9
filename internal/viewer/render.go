package viewer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

// Viewer is the rendered Swagger UI page: the HTML shell and the
// initializer script that boots Swagger UI in the browser.
type Viewer struct {
	Config Config
	Index  []byte
	Script []byte
	ETag   string
}

// ScriptPath is where the index page expects the initializer script.
const ScriptPath = "swagger-initializer.js"

// Render returns an Initializer that renders the page for cfg.
func Render(title string) Initializer[*Viewer] {
	return func(cfg Config) (*Viewer, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		opts, err := json.MarshalIndent(cfg, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding viewer options: %w", err)
		}

		var script bytes.Buffer
		if err := scriptTmpl.Execute(&script, map[string]string{"Options": string(opts)}); err != nil {
			return nil, fmt.Errorf("rendering initializer script: %w", err)
		}

		var index bytes.Buffer
		err = indexTmpl.Execute(&index, map[string]string{
			"Title":  title,
			"Mount":  mountID(cfg.MountTarget),
			"Script": ScriptPath,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering index page: %w", err)
		}

		sum := sha256.Sum256(script.Bytes())
		return &Viewer{
			Config: cfg,
			Index:  index.Bytes(),
			Script: script.Bytes(),
			ETag:   `"` + hex.EncodeToString(sum[:8]) + `"`,
		}, nil
	}
}

// mountID strips the CSS id selector so the target can be used as an
// element id.
func mountID(target string) string {
	if len(target) > 0 && target[0] == '#' {
		return target[1:]
	}
	return target
}

var scriptTmpl = texttemplate.Must(texttemplate.New("initializer").Parse(`window.addEventListener("load", () => {
  window.ui = SwaggerUIBundle(Object.assign({{.Options}}, {
    presets: [
      SwaggerUIBundle.presets.apis,
      SwaggerUIBundle.SwaggerUIStandalonePreset
    ]
  }));
}, { once: true });
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>
    body { margin: 0; background: #fafafa; }
    .topbar { display: none; }
  </style>
</head>
<body>
  <div id="{{.Mount}}"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script src="{{.Script}}"></script>
</body>
</html>
`))
