package portfolio

import _ "embed"

// stylesheet is the site's only stylesheet, served at /public/site.css and
// copied into static builds.
//
//go:embed embedded/site.css
var stylesheet []byte
