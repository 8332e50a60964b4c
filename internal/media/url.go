package media

import (
	"fmt"
	"strings"
	"time"
)

// URLBuilder produces the public URL for an uploaded object. Its output is
// always accepted by an Extractor configured with the same host.
type URLBuilder struct {
	baseURL string
}

func NewURLBuilder(baseURL string) *URLBuilder {
	return &URLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *URLBuilder) URL(publicID, ext string, uploadedAt time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/upload/v%d/%s%s", b.baseURL, uploadedAt.Unix(), publicID, ext)
}

// OwnerPrefix is the key prefix of objects ownerID uploaded into folder.
func OwnerPrefix(folder string, ownerID int64) string {
	return fmt.Sprintf("%s/%d/", folder, ownerID)
}
