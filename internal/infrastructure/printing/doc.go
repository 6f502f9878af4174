// Package printing renders customer-facing documents.
//
// Job completion reports are built from html/template, with user-entered
// text passed through bluemonday, then printed to PDF by headless Chrome.
// Invoices are drawn directly with fpdf. Both buffer the whole document in
// memory; neither shares a layout abstraction with the other.
package printing
