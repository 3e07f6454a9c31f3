// Package render formats domain values for the terminal and the view server:
// won amounts, interest rates, recommendation markdown for the terminal and
// sanitized article HTML for the browser.
package render
