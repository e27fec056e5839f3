// Package configs provides the embedded configuration template for logvet.
//
// The template is embedded at build time so 'logvet config init' works from
// any installation. To change it, edit config.example.yaml and rebuild.
package configs

import _ "embed"

// ConfigTemplate is the commented default configuration written by
// `logvet config init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
