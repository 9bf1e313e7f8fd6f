// Package uriutil converts between file:// URIs and file system paths.
package uriutil

import (
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a file:// URI, percent-encoding
// each segment. Relative paths are made absolute first. Windows drive paths
// gain a leading slash (file:///C:/x) and UNC paths keep their host
// (file://server/share).
func PathToURI(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(p, `\\`) {
		host, rest, _ := strings.Cut(filepath.ToSlash(strings.TrimPrefix(p, `\\`)), "/")
		return "file://" + host + "/" + escapeSegments(rest)
	}

	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + escapeSegments(p)
}

func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// URIToPath converts a file:// URI to a file system path. Strings that are
// not parseable file URIs are stripped of any file:// prefix and returned
// with OS separators.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return fallback(uri)
	}

	if u.Host != "" && u.Host != "localhost" {
		if runtime.GOOS == "windows" {
			return `\\` + u.Host + filepath.FromSlash(u.Path)
		}
		return u.Host + u.Path
	}

	return filepath.FromSlash(stripDriveSlash(u.Path))
}

func fallback(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	return filepath.FromSlash(stripDriveSlash(p))
}

// stripDriveSlash turns /C:/proj into C:/proj
func stripDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}

// Ext returns the lower-cased extension of the file a URI names, including the dot
func Ext(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return strings.ToLower(path.Ext(uri))
	}
	return strings.ToLower(path.Ext(u.Path))
}

// RelPath returns the slash-separated path of uri relative to root.
// ok is false when the URI lies outside root or root is empty.
func RelPath(root, uri string) (rel string, ok bool) {
	if root == "" {
		return "", false
	}
	r, err := filepath.Rel(root, URIToPath(uri))
	if err != nil {
		return "", false
	}
	r = filepath.ToSlash(r)
	if r == ".." || strings.HasPrefix(r, "../") {
		return "", false
	}
	return r, true
}
