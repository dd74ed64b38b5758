// Package uriutil converts between file:// URIs and file system paths.
package uriutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI returns the file:// URI of path, made absolute first.
// Segments are percent-encoded; Windows drive paths become file:///C:/...
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)

	// UNC: //server/share
	if rest, ok := strings.CutPrefix(path, "//"); ok {
		host, p, _ := strings.Cut(rest, "/")
		return (&url.URL{Scheme: "file", Host: host, Path: "/" + p}).String()
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// URIToPath returns the file system path of a file:// URI. Anything that
// is not a file URI is returned unchanged.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		if rest, ok := strings.CutPrefix(uri, "file://"); ok {
			return filepath.FromSlash(trimDriveSlash(rest))
		}
		return uri
	}

	if u.Host != "" && u.Host != "localhost" {
		return filepath.FromSlash("//" + u.Host + u.Path)
	}
	return filepath.FromSlash(trimDriveSlash(u.Path))
}

// trimDriveSlash turns /C:/proj into C:/proj.
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}
