// Package domain contains the core entities and errors of dumpship.
//
// This package has no dependencies on infrastructure concerns (HTTP, file
// system, logging). It describes what an upload is made of, not how it is
// encoded or transported.
//
// # Entities
//
//   - [FormField]: a key/value parameter sent as a form field
//   - [FileAttachment]: a file payload sent as a multipart file part
//   - [Response]: the outcome of one synchronous upload
package domain
