// Package render serializes artifact trees into XML documents.
package render
