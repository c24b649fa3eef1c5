// Package extract turns downloaded documents into plain text for keyword
// matching.
//
// Supported formats are PDF, Office Open XML (docx, pptx, xlsx), legacy
// Office binaries (doc, xls, ppt), RTF, XML/HTML, plain text, CSV and ZIP
// archives of those. Extraction is best effort: a document that cannot be
// read yields an error and callers treat it as empty text.
package extract
