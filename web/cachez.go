package main

import (
	"html/template"
	"net/http"

	"github.com/mtraver/gaelog"
)

// cachezHandler renders a page with statistics about the API response cache.
type cachezHandler struct {
	Backend  Backend
	Template *template.Template
}

func (h cachezHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(r)

	if err := h.Template.ExecuteTemplate(w, "cachez", h.Backend.CacheStats()); err != nil {
		gaelog.Errorf(ctx, "Could not execute template: %v", err)
	}
}
