// Package web holds the embedded static assets served by the API.
package web

import _ "embed"

//go:embed login.html
var LoginPage []byte
