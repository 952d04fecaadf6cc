// internal/domain/tweetMedia/prefix.go
package tweetMedia

import (
	"log"
	"net/url"
	"strings"
)

// ✅ 1-bucket 運用（public bucket を想定）
// 公開URLのベースは https://storage.googleapis.com/<bucket>/<objectPath>
const DefaultPublicHost = "storage.googleapis.com"

// Prefix namespace policy:
// - objectPath: v1/public/users/{userId}/tweets/{yyyy}/{MM}/{tweetUuid}/{assetUuid}/<fileName>
// - cleanup prefix = objectPath からバケットと末尾の fileName を除いたもの
const (
	PrefixNamespace   = "v1"
	minPrefixSegments = 4
)

// Prefix is a hierarchical key-space path under which one tweet's media
// objects are grouped in object storage (no bucket, no leaf file name).
type Prefix string

func (p Prefix) String() string { return string(p) }

// IsValid reports whether p satisfies the namespace policy:
// at least 4 path segments and the fixed "v1" namespace token first.
func (p Prefix) IsValid() bool {
	v := strings.Trim(strings.TrimSpace(string(p)), "/")
	if v == "" {
		return false
	}
	segs := strings.Split(v, "/")
	if len(segs) < minPrefixSegments {
		return false
	}
	return segs[0] == PrefixNamespace
}

// PrefixDeriver derives a storage Prefix from a public media URL.
//
// 期待する URL 形式:
//
//	https://<host>/<bucket>/<seg1>/<seg2>/.../<fileName>
//
// bucket と fileName を落とした残りが Prefix になる。
type PrefixDeriver struct {
	// Host is the expected public storage host (e.g. storage.googleapis.com).
	Host string
}

func NewPrefixDeriver(host string) PrefixDeriver {
	h := strings.TrimSpace(host)
	if h == "" {
		h = DefaultPublicHost
	}
	return PrefixDeriver{Host: h}
}

// FromURL parses mediaURL and returns the cleanup prefix for it.
// Undeducible URLs yield ok=false and never panic; 削除処理をブロックしないこと。
func (d PrefixDeriver) FromURL(mediaURL string) (Prefix, bool) {
	raw := strings.TrimSpace(mediaURL)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		log.Printf("[tweetMedia] WARN: could not parse media url %q: %v", raw, err)
		return "", false
	}
	if !strings.EqualFold(u.Host, d.Host) {
		log.Printf("[tweetMedia] WARN: media url host %q is not the storage host %q", u.Host, d.Host)
		return "", false
	}

	segs := splitPathSegments(u.Path)
	if len(segs) < 3 {
		log.Printf("[tweetMedia] WARN: media url path too short for prefix: %q", u.Path)
		return "", false
	}

	// segs[0] はバケット名、末尾はファイル名なので落とす
	p := Prefix(strings.Join(segs[1:len(segs)-1], "/"))
	if !p.IsValid() {
		log.Printf("[tweetMedia] WARN: derived prefix %q violates namespace policy", p)
		return "", false
	}
	return p, true
}

// DistinctFromURLs derives prefixes for all URLs, dropping duplicates and
// undeducible entries (order of first appearance is kept).
func (d PrefixDeriver) DistinctFromURLs(mediaURLs []string) []Prefix {
	seen := make(map[Prefix]struct{}, len(mediaURLs))
	out := make([]Prefix, 0, len(mediaURLs))
	for _, raw := range mediaURLs {
		p, ok := d.FromURL(raw)
		if !ok {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
