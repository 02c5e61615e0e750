// Package content loads the externalized page labels and resolves the image
// references they contain.
package content

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/RMahshie/medvis/pkg/models"
)

// Page keys served by the site.
const (
	PageMain         = "main_page"
	PageLVEF         = "lvef"
	PageAttention    = "attention"
	PageOpenMirai    = "openmirai"
	PageLimAyutthaya = "limayutthaya"
)

// Pages lists every page key.
var Pages = []string{PageMain, PageLVEF, PageAttention, PageOpenMirai, PageLimAyutthaya}

var pageKey = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidPageKey reports whether key is safe to use as a file or object name.
func ValidPageKey(key string) bool {
	return pageKey.MatchString(key)
}

// Decode parses a page document. The top level must be an object.
func Decode(page string, data []byte) (models.PageContent, error) {
	var pc models.PageContent
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to decode page %s: %w", page, err)
	}
	if pc == nil {
		return nil, fmt.Errorf("page %s is empty", page)
	}
	return pc, nil
}
