package media

import "strings"

// publicPathMarker marks a public storage object URL. Only URLs containing
// this marker are treated as store-managed; anything else is assumed to be
// hosted elsewhere and is never deleted.
const publicPathMarker = "/storage/v1/object/public/"

// ObjectReference identifies one uploaded asset: its bucket, its object key
// and the public URL resolved at upload time.
type ObjectReference struct {
	Bucket    string
	Key       string
	PublicURL string
}

// ParseReference recovers an ObjectReference from a public URL. The bucket is
// the first path segment after the marker and the key is the segment after the
// last "/". Returns false for empty, external or malformed URLs.
func ParseReference(rawURL string) (ObjectReference, bool) {
	i := strings.Index(rawURL, publicPathMarker)
	if i < 0 {
		return ObjectReference{}, false
	}
	rest := rawURL[i+len(publicPathMarker):]
	slash := strings.Index(rest, "/")
	if slash <= 0 {
		return ObjectReference{}, false
	}
	bucket := rest[:slash]
	key := rest[strings.LastIndex(rest, "/")+1:]
	if key == "" {
		return ObjectReference{}, false
	}
	return ObjectReference{Bucket: bucket, Key: key, PublicURL: rawURL}, true
}
