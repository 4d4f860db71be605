// Package filesystem stores pages as HTML files on disk.
//
// Each page lives at <content-dir>/<entity-id>.html. Linked output is written
// under the output directory using the same file name, so the output directory
// mirrors the content directory. Hidden files and files without the .html
// extension are ignored.
//
// Watch uses fsnotify to report pages that are created or modified.
package filesystem
