// Package assets copies the static files of a build: the stylesheet, the
// site images and, when opted in, the photos directory.
//
// Copied photos are audited for EXIF tags that give away a location, a
// device serial number or an author.
package assets
