package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
)

//go:embed templates/*
var templateFS embed.FS

var templates = mustParseTemplates()

var funcMap = template.FuncMap{
	"longDate": func(k datekey.Key) string {
		t := k.Time(time.Local)
		if t.IsZero() {
			return string(k)
		}
		return t.Format("January 2, 2006")
	},
	"weekdays": func() []string {
		return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	},
	"blanks": func(n int) []struct{} {
		return make([]struct{}, n)
	},
}

func mustParseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	base := template.Must(template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html"))

	sets := make(map[string]*template.Template)
	for _, file := range files {
		if file == "templates/base.html" {
			continue
		}

		set := template.Must(base.Clone())
		template.Must(set.ParseFS(templateFS, file))
		sets[file[len("templates/"):]] = set
	}

	return sets
}
