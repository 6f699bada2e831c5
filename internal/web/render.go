package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates installs the embedded page templates on the engine.
func LoadTemplates(engine *gin.Engine) {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"yesno": func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		},
	}).ParseFS(templateFS, "templates/*.html"))
	engine.SetHTMLTemplate(tmpl)
}

// ActorKey is the gin context key holding the logged-in *user.User.
const ActorKey = "actor"

// HTML renders a page with the pending flash message and the actor merged into data.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = PopFlash(c)
	if actor, ok := c.Get(ActorKey); ok {
		if _, set := data["Actor"]; !set {
			data["Actor"] = actor
		}
	}
	c.HTML(status, name, data)
}

func NotFound(c *gin.Context) {
	HTML(c, http.StatusNotFound, "not_found.html", nil)
}
