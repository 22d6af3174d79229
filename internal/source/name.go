package source

import (
	"net/url"
	"path/filepath"
	"strings"
)

// RepoName derives the tree name from a source location. Local paths use
// their base name; remote locations use the first two path segments joined
// as org-repo. Slashes and underscores become hyphens and the result is
// lowercased.
func RepoName(location string, isLocal bool) string {
	var name string
	if isLocal {
		abs, err := filepath.Abs(location)
		if err != nil {
			abs = location
		}
		name = filepath.Base(abs)
	} else {
		segs := strings.Split(strings.Trim(remotePath(location), "/"), "/")
		if len(segs) >= 2 {
			name = segs[0] + "-" + segs[1]
		} else {
			name = segs[0]
		}
		name = strings.TrimSuffix(name, ".git")
	}

	name = strings.NewReplacer("/", "-", "_", "-").Replace(name)
	return strings.ToLower(name)
}

// remotePath returns the repository path of a URL or an scp-like
// user@host:path location.
func remotePath(location string) string {
	if isSCPLike(location) {
		_, p, _ := strings.Cut(location, ":")
		return p
	}

	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Path
}

func isSCPLike(location string) bool {
	if strings.Contains(location, "://") {
		return false
	}
	at := strings.Index(location, "@")
	colon := strings.Index(location, ":")
	return at > 0 && colon > at
}

// isRemote reports whether location looks like a git URL.
func isRemote(location string) bool {
	return strings.Contains(location, "://") || isSCPLike(location)
}
