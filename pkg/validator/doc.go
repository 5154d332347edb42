// Package validator checks a generated output tree against an injectable rule
// set: required directories and artifact names, XML well-formedness, and
// disallowed content patterns. Findings are collected as Issues and can be
// written as a plain-text report.
package validator
